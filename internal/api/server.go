// Package api is the HTTP transport of the verification node. Handlers parse
// and validate the wire shapes and delegate to the core services; no business
// rules live here.
package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/passprove/verification-node/internal/cache"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/db"
	"github.com/passprove/verification-node/internal/log"
)

// Server holds the wired services behind the HTTP surface
type Server struct {
	sessionService ports.SessionService
	proofService   ports.ProofService
	qrService      ports.QRService
	storage        *db.Storage
	cache          cache.Cache
}

// NewServer returns the HTTP server facade over the core services
func NewServer(sessionService ports.SessionService, proofService ports.ProofService, qrService ports.QRService, storage *db.Storage, c cache.Cache) *Server {
	return &Server{
		sessionService: sessionService,
		proofService:   proofService,
		qrService:      qrService,
		storage:        storage,
		cache:          c,
	}
}

// Routes mounts every endpoint on mux
func (s *Server) Routes(mux *chi.Mux) {
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	mux.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}/status", s.handleSessionStatus)
		r.Post("/sessions/{id}/qr", s.handleGenerateQR)
		r.Post("/verify/{method}", s.handleSubmitEvidence)
		r.Get("/verifications/check", s.handleCheck)
		r.Post("/verifications/save", s.handleSaveVerification)
		r.Post("/reverify", s.handleReverify)
		r.Post("/reverify/code", s.handleReverifyCode)
		r.Get("/prices", s.handlePrices)
	})
	mux.Get("/status", s.handleHealth)
	mux.Get("/qr/{token}", s.handleResolveQR)
}

type healthResponse struct {
	Status string `json:"status"`
	DB     bool   `json:"db"`
	Cache  bool   `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := healthResponse{Status: "OK", DB: true, Cache: true}
	status := http.StatusOK
	if s.storage != nil {
		if err := s.storage.Ping(ctx); err != nil {
			log.Error(ctx, "health check: database unreachable", err)
			resp.Status = "KO"
			resp.DB = false
			status = http.StatusInternalServerError
		}
	}
	if s.cache != nil {
		probe := "ok"
		if err := s.cache.Set(ctx, "passprove:health", probe, cache.ForEver); err != nil {
			resp.Cache = false
		}
	}
	writeJSON(ctx, w, status, resp)
}

// clientMeta extracts the caller network metadata stored on new sessions
func clientMeta(r *http.Request) ports.ClientMeta {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	} else {
		ip = r.RemoteAddr
		if host := strings.LastIndex(ip, ":"); host > 0 {
			ip = ip[:host]
		}
	}
	return ports.ClientMeta{IPAddress: ip, UserAgent: r.UserAgent()}
}
