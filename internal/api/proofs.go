package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type checkResponse struct {
	Verified  bool       `json:"verified"`
	Method    string     `json:"method,omitempty"`
	Status    string     `json:"status,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// handleCheck answers both lookup shapes: a proof token check (hash query
// param) and a session status check (sessionId query param).
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if hash := r.URL.Query().Get("hash"); hash != "" {
		check, err := s.proofService.CheckToken(ctx, hash)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, checkResponse{
			Verified:  check.Verified,
			Method:    string(check.Method),
			ExpiresAt: &check.ExpiresAt,
		})
		return
	}
	if raw := r.URL.Query().Get("sessionId"); raw != "" {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			writeBadRequest(ctx, w, "invalid session id")
			return
		}
		info, err := s.sessionService.CheckStatus(ctx, sessionID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		verified := info.Verified != nil && *info.Verified
		writeJSON(ctx, w, http.StatusOK, checkResponse{Verified: verified, Status: string(info.Status)})
		return
	}
	writeBadRequest(ctx, w, "hash or sessionId query parameter required")
}

type saveVerificationRequest struct {
	SessionID   string `json:"sessionId"`
	SaveMethod  string `json:"saveMethod"`
	ContactInfo string `json:"contactInfo"`
}

type issuedProofResponse struct {
	Success    bool      `json:"success"`
	Token      string    `json:"token"`
	SaveMethod string    `json:"saveMethod"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func (s *Server) handleSaveVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req saveVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(ctx, w, "invalid request body")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeBadRequest(ctx, w, "invalid session id")
		return
	}
	saveMethod, ok := domain.ParseSaveMethod(req.SaveMethod)
	if !ok {
		writeBadRequest(ctx, w, "invalid save method")
		return
	}

	issued, err := s.proofService.Issue(ctx, sessionID, saveMethod, req.ContactInfo)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, issuedProofResponse{
		Success:    true,
		Token:      issued.Token,
		SaveMethod: string(issued.SaveMethod),
		ExpiresAt:  issued.ExpiresAt,
	})
}

type reverifyRequest struct {
	SessionID  string `json:"sessionId"`
	Method     string `json:"method"`
	Identifier string `json:"identifier"`
}

type reverifyResponse struct {
	Success       bool       `json:"success"`
	NeedsCode     bool       `json:"needsCode"`
	Channel       string     `json:"channel"`
	CodeExpiresAt *time.Time `json:"codeExpiresAt,omitempty"`
}

func (s *Server) handleReverify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req reverifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(ctx, w, "invalid request body")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeBadRequest(ctx, w, "invalid session id")
		return
	}
	channel, ok := domain.ParseSaveMethod(req.Method)
	if !ok {
		writeBadRequest(ctx, w, "invalid re-verification channel")
		return
	}

	start, err := s.proofService.InitiateReverify(ctx, sessionID, channel, req.Identifier)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	resp := reverifyResponse{Success: true, NeedsCode: start.NeedsCode, Channel: string(start.Channel)}
	if start.NeedsCode {
		resp.CodeExpiresAt = &start.CodeExpiresAt
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

type reverifyCodeRequest struct {
	SessionID  string `json:"sessionId"`
	Method     string `json:"method"`
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

func (s *Server) handleReverifyCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req reverifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(ctx, w, "invalid request body")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeBadRequest(ctx, w, "invalid session id")
		return
	}
	channel, ok := domain.ParseSaveMethod(req.Method)
	if !ok {
		writeBadRequest(ctx, w, "invalid re-verification channel")
		return
	}
	if req.Code == "" {
		writeBadRequest(ctx, w, "verification code required")
		return
	}

	issued, err := s.proofService.VerifyCode(ctx, sessionID, channel, req.Identifier, req.Code)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, issuedProofResponse{
		Success:    true,
		Token:      issued.Token,
		SaveMethod: string(issued.SaveMethod),
		ExpiresAt:  issued.ExpiresAt,
	})
}
