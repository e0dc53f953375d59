package server

import (
	"encoding/json"
	"net/http"

	"github.com/samber/lo"

	"github.com/hgraphpay/swapflow/facilitator"
	"github.com/hgraphpay/swapflow/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeRequest parses and validates the shared /verify and /settle body.
// A nil return means the response has already been written.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) *types.VerifyRequest {
	var req types.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return nil
	}
	if err := s.validate.Struct(&req.PaymentRequirements); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil
	}
	if err := req.PaymentPayload.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil
	}
	return &req
}

// serviceFor resolves the facilitator for the payload's network. A nil
// return with ok=false means no operator is configured at all, which is a
// server configuration error, not a payload problem.
func (s *Server) serviceFor(network string) (*facilitator.Service, bool) {
	if len(s.services) == 0 {
		return nil, false
	}
	return s.services[network], true
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	req := s.decodeRequest(w, r)
	if req == nil {
		return
	}
	svc, configured := s.serviceFor(req.PaymentPayload.Network)
	if !configured {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "facilitator operator is not configured"})
		return
	}
	if svc == nil {
		// unknown networks are a validity outcome, not an HTTP error
		writeJSON(w, http.StatusOK, types.VerifyResponse{IsValid: false, InvalidReason: types.ReasonInvalidNetwork})
		return
	}
	writeJSON(w, http.StatusOK, svc.Verify(r.Context(), &req.PaymentPayload, &req.PaymentRequirements))
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	req := s.decodeRequest(w, r)
	if req == nil {
		return
	}
	svc, configured := s.serviceFor(req.PaymentPayload.Network)
	if !configured {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "facilitator operator is not configured"})
		return
	}
	if svc == nil {
		writeJSON(w, http.StatusOK, types.SettleResponse{
			Success:     false,
			ErrorReason: types.ReasonInvalidNetwork,
			Network:     req.PaymentPayload.Network,
		})
		return
	}
	writeJSON(w, http.StatusOK, svc.Settle(r.Context(), &req.PaymentPayload, &req.PaymentRequirements))
}

func (s *Server) handleSupported(w http.ResponseWriter, r *http.Request) {
	kinds := lo.Map(s.order, func(network string, _ int) types.SupportedKind {
		return s.services[network].Supported()
	})
	writeJSON(w, http.StatusOK, types.SupportedResponse{Kinds: kinds})
}
