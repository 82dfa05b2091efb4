package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/passprove/verification-node/internal/core/services"
	"github.com/passprove/verification-node/internal/log"
	"github.com/passprove/verification-node/internal/repositories"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error(ctx, "encoding http response", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs, never on the wire
		log.Error(ctx, "request failed", err)
		msg = "internal server error"
	}
	writeJSON(ctx, w, status, errorResponse{Error: msg})
}

func writeBadRequest(ctx context.Context, w http.ResponseWriter, msg string) {
	writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msg})
}

// statusFromError maps service and repository errors onto http status
// classes: unknown or expired lookups are 404, state and validation problems
// are 400, everything unexpected is 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrSessionNotFound),
		errors.Is(err, repositories.ErrVerificationNotFound),
		errors.Is(err, repositories.ErrProofNotFound),
		errors.Is(err, services.ErrQRChallengeNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrShopNotFound),
		errors.Is(err, repositories.ErrCompanyNotFound),
		errors.Is(err, repositories.ErrInsufficientBalance),
		errors.Is(err, repositories.ErrSessionNotPending),
		errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrMethodMismatch),
		errors.Is(err, services.ErrMethodNotSupported),
		errors.Is(err, services.ErrSessionNotSuccessful),
		errors.Is(err, services.ErrChannelNotSupported),
		errors.Is(err, services.ErrNoPriorProofForChannel),
		errors.Is(err, services.ErrCodeExpired),
		errors.Is(err, services.ErrCodeMismatch),
		errors.Is(err, services.ErrTooManyAttempts),
		errors.Is(err, services.ErrInvalidReverifyState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
