package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type createSessionRequest struct {
	Method string         `json:"method"`
	ShopID string         `json:"shopId"`
	Data   map[string]any `json:"data"`
}

type createSessionResponse struct {
	Success        bool      `json:"success"`
	SessionID      uuid.UUID `json:"sessionId"`
	VerificationID uuid.UUID `json:"verificationId"`
	ExpiresAt      time.Time `json:"expiresAt"`
	Price          float64   `json:"price"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(ctx, w, "invalid request body")
		return
	}
	method, ok := domain.ParseMethod(req.Method)
	if !ok {
		writeBadRequest(ctx, w, "invalid verification method")
		return
	}
	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		writeBadRequest(ctx, w, "invalid shop id")
		return
	}

	created, err := s.sessionService.Create(ctx, method, shopID, req.Data, clientMeta(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, createSessionResponse{
		Success:        true,
		SessionID:      created.SessionID,
		VerificationID: created.VerificationID,
		ExpiresAt:      created.ExpiresAt,
		Price:          created.Price,
	})
}

type sessionStatusResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
	Status    string    `json:"status"`
	Verified  *bool     `json:"verified,omitempty"`
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(ctx, w, "invalid session id")
		return
	}
	info, err := s.sessionService.CheckStatus(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, sessionStatusResponse{
		SessionID: sessionID,
		Status:    string(info.Status),
		Verified:  info.Verified,
	})
}

type pricesResponse struct {
	Prices map[string]float64 `json:"prices"`
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shopID, err := uuid.Parse(r.URL.Query().Get("shopId"))
	if err != nil {
		writeBadRequest(ctx, w, "invalid shop id")
		return
	}
	prices, err := s.sessionService.Prices(ctx, shopID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make(map[string]float64, len(prices))
	for method, price := range prices {
		out[string(method)] = price
	}
	writeJSON(ctx, w, http.StatusOK, pricesResponse{Prices: out})
}

type qrChallengeResponse struct {
	Success   bool   `json:"success"`
	QRURL     string `json:"qrUrl"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

func (s *Server) handleGenerateQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(ctx, w, "invalid session id")
		return
	}
	challenge, err := s.qrService.GenerateChallenge(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, qrChallengeResponse{
		Success:   true,
		QRURL:     challenge.ChallengeURL,
		Token:     challenge.Token,
		ExpiresIn: challenge.ExpiresIn,
	})
}

type resolveQRResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
}

func (s *Server) handleResolveQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")
	sessionID, err := s.qrService.Resolve(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resolveQRResponse{SessionID: sessionID})
}
