package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type submitEvidenceRequest struct {
	SessionID string         `json:"sessionId"`
	Data      map[string]any `json:"data"`
}

type submitEvidenceResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Age      *int   `json:"age,omitempty"`
	Provider string `json:"provider"`
}

func (s *Server) handleSubmitEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	method, ok := domain.ParseMethod(chi.URLParam(r, "method"))
	if !ok {
		writeBadRequest(ctx, w, "invalid verification method")
		return
	}
	// Re-verification and QR sessions complete through their own endpoints
	if method == domain.MethodReverification || method == domain.MethodQRCode {
		writeBadRequest(ctx, w, "invalid verification method")
		return
	}
	var req submitEvidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(ctx, w, "invalid request body")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeBadRequest(ctx, w, "invalid session id")
		return
	}

	outcome, err := s.sessionService.SubmitEvidence(ctx, sessionID, method, req.Data)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, submitEvidenceResponse{
		Success:  true,
		Verified: outcome.Verified,
		Age:      outcome.Age,
		Provider: outcome.Provider,
	})
}
