package rpc

import (
	"net/http"
	"time"

	"gridchain/observability"
)

const (
	codeQueryInvalidParams = -32041
	codeQueryInternal      = -32042
)

type reputationParams struct {
	Host string `json:"host"`
}

type balanceParams struct {
	Address string `json:"address"`
}

type eventsLatestParams struct {
	Limit int `json:"limit"`
}

type reputationJSON struct {
	Host               string `json:"host"`
	CompletedJobs      uint64 `json:"completedJobs"`
	TotalUptimeSeconds uint64 `json:"totalUptimeSeconds"`
}

type eventJSON struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func (s *Server) handleGetReputation(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("reputation", "getReputation", start, opErr) }()

	var params reputationParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeQueryInvalidParams, "invalid_params", opErr.Error())
		return
	}
	host, err := parseAddress(params.Host)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeQueryInvalidParams, "invalid_params", err.Error())
		return
	}
	score, ok, err := s.node.GetReputation(host)
	if err != nil {
		opErr = err
		writeError(w, http.StatusInternalServerError, req.ID, codeQueryInternal, "internal_error", err.Error())
		return
	}
	result := &reputationJSON{Host: params.Host}
	if ok {
		result.CompletedJobs = score.CompletedJobs
		result.TotalUptimeSeconds = score.TotalUptimeSeconds
	}
	writeResult(w, req.ID, result)
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("bank", "getBalance", start, opErr) }()

	var params balanceParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeQueryInvalidParams, "invalid_params", opErr.Error())
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeQueryInvalidParams, "invalid_params", err.Error())
		return
	}
	balance, err := s.node.Balance(addr)
	if err != nil {
		opErr = err
		writeError(w, http.StatusInternalServerError, req.ID, codeQueryInternal, "internal_error", err.Error())
		return
	}
	writeResult(w, req.ID, map[string]string{
		"address": params.Address,
		"balance": balance.String(),
	})
}

func (s *Server) handleEventsLatest(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("events", "latest", start, opErr) }()

	params := eventsLatestParams{Limit: 50}
	if len(req.Params) > 0 {
		if opErr = decodeSingleParam(req, &params); opErr != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeQueryInvalidParams, "invalid_params", opErr.Error())
			return
		}
	}
	if params.Limit <= 0 || params.Limit > 500 {
		params.Limit = 50
	}
	latest := s.node.LatestEvents(params.Limit)
	out := make([]eventJSON, 0, len(latest))
	for _, evt := range latest {
		out = append(out, eventJSON{Type: evt.Type, Attributes: evt.Attributes})
	}
	writeResult(w, req.ID, map[string]interface{}{"events": out})
}
