package rpc

import (
	"errors"
	"net/http"
	"time"

	"gridchain/native/market"
	"gridchain/observability"
)

const (
	codeMarketInvalidParams = -32021
	codeMarketNotFound      = -32022
	codeMarketConflict      = -32023
	codeMarketInternal      = -32024
)

type marketSpecsJSON struct {
	Kind         string `json:"kind"`
	GPUModel     string `json:"gpuModel,omitempty"`
	CPUCores     uint32 `json:"cpuCores,omitempty"`
	RAMGB        uint32 `json:"ramGb,omitempty"`
	Provider     string `json:"provider,omitempty"`
	InstanceID   string `json:"instanceId,omitempty"`
	InstanceType string `json:"instanceType,omitempty"`
	Region       string `json:"region,omitempty"`
}

type marketRegisterParams struct {
	Host           string          `json:"host"`
	Specs          marketSpecsJSON `json:"specs"`
	PricePerSecond string          `json:"pricePerSecond"`
}

type marketAvailabilityParams struct {
	Host      string `json:"host"`
	Available bool   `json:"available"`
}

type marketListingParams struct {
	Host string `json:"host"`
}

type listingJSON struct {
	Host           string          `json:"host"`
	Specs          marketSpecsJSON `json:"specs"`
	PricePerSecond string          `json:"pricePerSecond"`
	Available      bool            `json:"available"`
	Rented         bool            `json:"rented"`
	ActiveJobID    *uint64         `json:"activeJobId,omitempty"`
}

func specsFromJSON(in marketSpecsJSON) (market.MachineSpecs, error) {
	switch in.Kind {
	case "physical":
		return market.MachineSpecs{
			Kind:     market.SpecPhysical,
			GPUModel: in.GPUModel,
			CPUCores: in.CPUCores,
			RAMGB:    in.RAMGB,
		}, nil
	case "cloud":
		return market.MachineSpecs{
			Kind:         market.SpecCloud,
			Provider:     in.Provider,
			InstanceID:   in.InstanceID,
			InstanceType: in.InstanceType,
			Region:       in.Region,
		}, nil
	default:
		return market.MachineSpecs{}, errors.New("specs kind must be \"physical\" or \"cloud\"")
	}
}

func specsToJSON(in market.MachineSpecs) marketSpecsJSON {
	out := marketSpecsJSON{
		GPUModel:     in.GPUModel,
		CPUCores:     in.CPUCores,
		RAMGB:        in.RAMGB,
		Provider:     in.Provider,
		InstanceID:   in.InstanceID,
		InstanceType: in.InstanceType,
		Region:       in.Region,
	}
	if in.Kind == market.SpecCloud {
		out.Kind = "cloud"
	} else {
		out.Kind = "physical"
	}
	return out
}

func listingToJSON(view *market.ListingView) *listingJSON {
	return &listingJSON{
		Host:           encodeAddress(view.Host),
		Specs:          specsToJSON(view.Specs),
		PricePerSecond: view.PricePerSecond.String(),
		Available:      view.Available,
		Rented:         view.Rented,
		ActiveJobID:    view.ActiveJobID,
	}
}

// writeMarketError maps marketplace failures onto RPC codes.
func writeMarketError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, market.ErrNoSuchListing):
		writeError(w, http.StatusNotFound, id, codeMarketNotFound, "listing_not_found", err.Error())
	case errors.Is(err, market.ErrAlreadyRegistered),
		errors.Is(err, market.ErrNotAvailable):
		writeError(w, http.StatusConflict, id, codeMarketConflict, "listing_conflict", err.Error())
	case errors.Is(err, market.ErrInvalidListing):
		writeError(w, http.StatusBadRequest, id, codeMarketInvalidParams, "invalid_params", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, id, codeMarketInternal, "internal_error", err.Error())
	}
}

func (s *Server) handleMarketRegister(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("market", "register", start, opErr) }()

	var params marketRegisterParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", opErr.Error())
		return
	}
	host, err := parseAddress(params.Host)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	specs, err := specsFromJSON(params.Specs)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	price, err := parsePositiveBigInt(params.PricePerSecond)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	if _, opErr = s.node.RegisterListing(host, specs, price); opErr != nil {
		writeMarketError(w, req.ID, opErr)
		return
	}
	view, err := s.node.GetListing(host)
	if err != nil {
		opErr = err
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, listingToJSON(view))
}

func (s *Server) handleMarketSetAvailability(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("market", "setAvailability", start, opErr) }()

	var params marketAvailabilityParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", opErr.Error())
		return
	}
	host, err := parseAddress(params.Host)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	if opErr = s.node.SetListingAvailability(host, params.Available); opErr != nil {
		writeMarketError(w, req.ID, opErr)
		return
	}
	writeResult(w, req.ID, map[string]bool{"available": params.Available})
}

func (s *Server) handleMarketGetListing(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	start := time.Now()
	var opErr error
	defer func() { observability.ModuleMetrics().Observe("market", "getListing", start, opErr) }()

	var params marketListingParams
	if opErr = decodeSingleParam(req, &params); opErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", opErr.Error())
		return
	}
	host, err := parseAddress(params.Host)
	if err != nil {
		opErr = err
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	view, err := s.node.GetListing(host)
	if err != nil {
		opErr = err
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, listingToJSON(view))
}
