package rpc

import (
	"errors"
	"net/http"
	"time"

	"gridchain/native/compute"
	"gridchain/native/market"
	"gridchain/observability"
)

const (
	codeComputeInvalidParams = -32031
	codeComputeNotFound      = -32032
	codeComputeForbidden     = -32033
	codeComputeConflict      = -32034
	codeComputeInternal      = -32035
)

type computeRentParams struct {
	Renter          string `json:"renter"`
	Host            string `json:"host"`
	DurationSeconds uint64 `json:"durationSeconds"`
}

type computeSubmitRequestParams struct {
	Requester          string `json:"requester"`
	ContainerImage     string `json:"containerImage"`
	InputURI           string `json:"inputUri,omitempty"`
	MinCPUCores        uint32 `json:"minCpuCores"`
	MinRAMGB           uint32 `json:"minRamGb"`
	MaxCostPerSecond   string `json:"maxCostPerSecond"`
	MaxDurationSeconds uint64 `json:"maxDurationSeconds"`
}

type computeAcceptParams struct {
	Host      string `json:"host"`
	RequestID uint64 `json:"requestId"`
}

type computeClaimParams struct {
	Host                    string `json:"host"`
	JobID                   uint64 `json:"jobId"`
	ClaimTimestamp          int64  `json:"claimTimestamp"`
	ReportedDurationSeconds uint64 `json:"reportedDurationSeconds"`
}

type computeTerminateParams struct {
	Renter string `json:"renter"`
	JobID  uint64 `json:"jobId"`
}

type computeJobParams struct {
	JobID uint64 `json:"jobId"`
}

type computeRequestParams struct {
	RequestID uint64 `json:"requestId"`
}

type computeRenterParams struct {
	Renter string `json:"renter"`
}

type jobJSON struct {
	JobID       uint64 `json:"jobId"`
	Renter      string `json:"renter"`
	Host        string `json:"host"`
	StartTime   int64  `json:"startTime"`
	MaxEndTime  int64  `json:"maxEndTime"`
	TotalEscrow string `json:"totalEscrow"`
	Claimed     string `json:"claimed"`
	Active      bool   `json:"active"`
}

type requestJSON struct {
	RequestID          uint64 `json:"requestId"`
	Requester          string `json:"requester"`
	ContainerImage     string `json:"containerImage"`
	InputURI           string `json:"inputUri,omitempty"`
	MinCPUCores        uint32 `json:"minCpuCores"`
	MinRAMGB           uint32 `json:"minRamGb"`
	MaxCostPerSecond   string `json:"maxCostPerSecond"`
	MaxDurationSeconds uint64 `json:"maxDurationSeconds"`
	EscrowAmount       string `json:"escrowAmount"`
	Pending            bool   `json:"pending"`
}

func jobToJSON(job *compute.Job) *jobJSON {
	return &jobJSON{
		JobID:       job.ID,
		Renter:      encodeAddress(job.Renter),
		Host:        encodeAddress(job.Host),
		StartTime:   job.StartTime,
		MaxEndTime:  job.MaxEndTime,
		TotalEscrow: job.TotalEscrow.String(),
		Claimed:     job.Claimed.String(),
		Active:      job.Active,
	}
}

func requestToJSON(req *compute.Request) *requestJSON {
	return &requestJSON{
		RequestID:          req.ID,
		Requester:          encodeAddress(req.Requester),
		ContainerImage:     req.ContainerImage,
		InputURI:           req.InputURI,
		MinCPUCores:        req.Specs.MinCPUCores,
		MinRAMGB:           req.Specs.MinRAMGB,
		MaxCostPerSecond:   req.MaxCostPerSecond.String(),
		MaxDurationSeconds: req.MaxDurationSeconds,
		EscrowAmount:       req.EscrowAmount.String(),
		Pending:            req.Pending,
	}
}

// writeComputeError maps escrow failures (including marketplace failures that
// surface through claim and verify) onto RPC codes.
func writeComputeError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, compute.ErrJobNotFound),
		errors.Is(err, compute.ErrRequestNotFound),
		errors.Is(err, market.ErrNoSuchListing):
		writeError(w, http.StatusNotFound, id, codeComputeNotFound, "not_found", err.Error())
	case errors.Is(err, compute.ErrUnauthorized):
		writeError(w, http.StatusForbidden, id, codeComputeForbidden, "forbidden", err.Error())
	case errors.Is(err, compute.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, id, codeComputeInvalidParams, "invalid_params", err.Error())
	case errors.Is(err, compute.ErrJobInactive),
		errors.Is(err, compute.ErrAlreadyAccepted),
		errors.Is(err, compute.ErrAlreadyPaid),
		errors.Is(err, compute.ErrClaimTimeOutOfRange),
		errors.Is(err, compute.ErrInsufficientFunds),
		errors.Is(err, market.ErrNotAvailable),
		errors.Is(err, market.ErrPriceTooHigh),
		errors.Is(err, market.ErrInsufficientSpecs):
		writeError(w, http.StatusConflict, id, codeComputeConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, id, codeComputeInternal, "internal_error", err.Error())
	}
}

func (s *Server) handleComputeRent(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("compute", "rentMachine", start, opErr) }()

	var params computeRentParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", opErr.Error())
		return
	}
	renter, err := parseAddress(params.Renter)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", err.Error())
		return
	}
	host, err := parseAddress(params.Host)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", err.Error())
		return
	}
	job, err := s.node.RentMachine(renter, host, params.DurationSeconds)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, jobToJSON(job))
}

func (s *Server) handleComputeSubmitRequest(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("compute", "submitRequest", start, opErr) }()

	var params computeSubmitRequestParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", opErr.Error())
		return
	}
	requester, err := parseAddress(params.Requester)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", err.Error())
		return
	}
	maxCost, err := parsePositiveBigInt(params.MaxCostPerSecond)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", err.Error())
		return
	}
	specs := compute.RequiredSpecs{MinCPUCores: params.MinCPUCores, MinRAMGB: params.MinRAMGB}
	request, err := s.node.SubmitComputeRequest(requester, params.ContainerImage, params.InputURI, specs, maxCost, params.MaxDurationSeconds)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, requestToJSON(request))
}

func (s *Server) handleComputeAcceptRequest(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("compute", "acceptRequest", start, opErr) }()

	var params computeAcceptParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", opErr.Error())
		return
	}
	host, err := parseAddress(params.Host)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", err.Error())
		return
	}
	job, err := s.node.AcceptComputeRequest(host, params.RequestID)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, jobToJSON(job))
}

func (s *Server) handleComputeClaimPayment(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("compute", "claimPayment", start, opErr) }()

	var params computeClaimParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", opErr.Error())
		return
	}
	host, err := parseAddress(params.Host)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", err.Error())
		return
	}
	payable, err := s.node.ClaimPayment(host, params.JobID, params.ClaimTimestamp, params.ReportedDurationSeconds)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	job, err := s.node.GetJob(params.JobID)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{
		"payable": payable.String(),
		"job":     jobToJSON(job),
	})
}

func (s *Server) handleComputeTerminateJob(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("compute", "terminateJob", start, opErr) }()

	var params computeTerminateParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", opErr.Error())
		return
	}
	renter, err := parseAddress(params.Renter)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", err.Error())
		return
	}
	if opErr = s.node.TerminateJob(renter, params.JobID); opErr != nil {
		writeComputeError(w, req.ID, opErr)
		return
	}
	job, err := s.node.GetJob(params.JobID)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, jobToJSON(job))
}

func (s *Server) handleComputeGetJob(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("compute", "getJob", start, opErr) }()

	var params computeJobParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", opErr.Error())
		return
	}
	job, err := s.node.GetJob(params.JobID)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, jobToJSON(job))
}

func (s *Server) handleComputeGetRequest(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("compute", "getRequest", start, opErr) }()

	var params computeRequestParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", opErr.Error())
		return
	}
	request, err := s.node.GetComputeRequest(params.RequestID)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, requestToJSON(request))
}

func (s *Server) handleComputeListJobsByRenter(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("compute", "listJobsByRenter", start, opErr) }()

	var params computeRenterParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", opErr.Error())
		return
	}
	renter, err := parseAddress(params.Renter)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeComputeInvalidParams, "invalid_params", err.Error())
		return
	}
	ids, err := s.node.JobsByRenter(renter)
	if err != nil {
		opErr = err
		writeComputeError(w, req.ID, err)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	writeResult(w, req.ID, map[string]interface{}{"jobIds": ids})
}
