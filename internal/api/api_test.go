package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passprove/verification-node/internal/api"
	"github.com/passprove/verification-node/internal/cache"
	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/core/services"
	"github.com/passprove/verification-node/internal/pricing"
	"github.com/passprove/verification-node/internal/repositories"
)

type fakeProvider struct {
	outcome *ports.EvidenceOutcome
	err     error
}

func (f *fakeProvider) Verify(_ context.Context, _ map[string]any) (*ports.EvidenceOutcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

type fakeSender struct {
	code string
}

func (f *fakeSender) SendCode(_ context.Context, _ domain.SaveMethod, _, code string) error {
	f.code = code
	return nil
}

type testServer struct {
	handler   http.Handler
	shopID    uuid.UUID
	companyID uuid.UUID
	sender    *fakeSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	companyID := uuid.New()
	shopID := uuid.New()

	verifications := repositories.NewVerificationInMemory()
	sessions := repositories.NewSessionInMemory(verifications)
	shops := repositories.NewShopInMemory()
	wallets := repositories.NewWalletInMemory()
	proofs := repositories.NewProofInMemory()
	audit := repositories.NewAuditLogInMemory()

	shops.Put(domain.Shop{
		ID:          shopID,
		CompanyID:   companyID,
		Name:        "Test Shop",
		Status:      domain.ShopStatusActive,
		PricingPlan: pricing.DefaultPlan,
		Methods:     domain.Methods(),
	})
	wallets.SetBalance(companyID, 100)

	adult := 30
	registry := ports.EvidenceProviderRegistry{
		domain.MethodBankID: &fakeProvider{outcome: &ports.EvidenceOutcome{Verified: true, Age: &adult, Provider: "bankid"}},
	}
	sender := &fakeSender{}

	billing := services.NewBilling(wallets)
	sessionService := services.NewSession(sessions, verifications, shops, audit, wallets, billing, registry, pricing.DefaultSettings())
	proofService := services.NewProof(sessions, verifications, proofs, shops, audit, billing, sender)
	qrService := services.NewQR(sessions, audit, cache.NewMemoryCache(), "https://verify.passprove.example")

	mux := chi.NewRouter()
	api.NewServer(sessionService, proofService, qrService, nil, cache.NewMemoryCache()).Routes(mux)
	return &testServer{handler: mux, shopID: shopID, companyID: companyID, sender: sender}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func (ts *testServer) createSession(t *testing.T, method string) (sessionID string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/v1/sessions", map[string]any{
		"method": method,
		"shopId": ts.shopID.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	decode(t, rec, &resp)
	return resp.SessionID
}

func TestCreateSessionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("creates a session", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/sessions", map[string]any{
			"method": "bankid",
			"shopId": ts.shopID.String(),
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Success   bool    `json:"success"`
			SessionID string  `json:"sessionId"`
			Price     float64 `json:"price"`
		}
		decode(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, 10.0, resp.Price)
		_, err := uuid.Parse(resp.SessionID)
		assert.NoError(t, err)
	})

	t.Run("rejects an unknown method", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/sessions", map[string]any{
			"method": "palmreading",
			"shopId": ts.shopID.String(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an unknown shop", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/sessions", map[string]any{
			"method": "bankid",
			"shopId": uuid.NewString(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong verb", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/sessions", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestVerifyAndStatusEndpoints(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.createSession(t, "bankid")

	rec := ts.do(t, http.MethodPost, "/v1/verify/bankid", map[string]any{
		"sessionId": sessionID,
		"data":      map[string]any{"token": "abc"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var verifyResp struct {
		Success  bool `json:"success"`
		Verified bool `json:"verified"`
		Age      *int `json:"age"`
	}
	decode(t, rec, &verifyResp)
	assert.True(t, verifyResp.Verified)
	require.NotNil(t, verifyResp.Age)
	assert.Equal(t, 30, *verifyResp.Age)

	rec = ts.do(t, http.MethodGet, "/v1/sessions/"+sessionID+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var statusResp struct {
		Status   string `json:"status"`
		Verified *bool  `json:"verified"`
	}
	decode(t, rec, &statusResp)
	assert.Equal(t, "completed", statusResp.Status)
	require.NotNil(t, statusResp.Verified)
	assert.True(t, *statusResp.Verified)

	t.Run("double submission is rejected", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/verify/bankid", map[string]any{"sessionId": sessionID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session status is 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/sessions/"+uuid.NewString()+"/status", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reverification evidence path is rejected", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/verify/reverification", map[string]any{"sessionId": sessionID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProofEndpoints(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.createSession(t, "bankid")
	rec := ts.do(t, http.MethodPost, "/v1/verify/bankid", map[string]any{"sessionId": sessionID})
	require.Equal(t, http.StatusOK, rec.Code)

	var issued struct {
		Token string `json:"token"`
	}
	rec = ts.do(t, http.MethodPost, "/v1/verifications/save", map[string]any{
		"sessionId":   sessionID,
		"saveMethod":  "email",
		"contactInfo": "user@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &issued)
	require.NotEmpty(t, issued.Token)

	t.Run("token check", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/verifications/check?hash="+issued.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Verified bool   `json:"verified"`
			Method   string `json:"method"`
		}
		decode(t, rec, &resp)
		assert.True(t, resp.Verified)
		assert.Equal(t, "email", resp.Method)
	})

	t.Run("unknown token is 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/verifications/check?hash=unknown", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("check without parameters is 400", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/verifications/check", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("full reverify flow over the wire", func(t *testing.T) {
		reverifyID := ts.createSession(t, "reverification")
		rec := ts.do(t, http.MethodPost, "/v1/reverify", map[string]any{
			"sessionId":  reverifyID,
			"method":     "email",
			"identifier": "user@example.com",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var start struct {
			NeedsCode bool `json:"needsCode"`
		}
		decode(t, rec, &start)
		require.True(t, start.NeedsCode)

		rec = ts.do(t, http.MethodPost, "/v1/reverify/code", map[string]any{
			"sessionId":  reverifyID,
			"method":     "email",
			"identifier": "user@example.com",
			"code":       ts.sender.code,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
		}
		decode(t, rec, &resp)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong code is 400", func(t *testing.T) {
		reverifyID := ts.createSession(t, "reverification")
		rec := ts.do(t, http.MethodPost, "/v1/reverify", map[string]any{
			"sessionId":  reverifyID,
			"method":     "email",
			"identifier": "user@example.com",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = ts.do(t, http.MethodPost, "/v1/reverify/code", map[string]any{
			"sessionId":  reverifyID,
			"method":     "email",
			"identifier": "user@example.com",
			"code":       "000000",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQREndpoints(t *testing.T) {
	ts := newTestServer(t)
	sessionID := ts.createSession(t, "qrcode")

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/v1/sessions/%s/qr", sessionID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var challenge struct {
		QRURL     string `json:"qrUrl"`
		Token     string `json:"token"`
		ExpiresIn int    `json:"expiresIn"`
	}
	decode(t, rec, &challenge)
	assert.Contains(t, challenge.QRURL, "/qr/"+challenge.Token)
	assert.Equal(t, 300, challenge.ExpiresIn)

	rec = ts.do(t, http.MethodGet, "/qr/"+challenge.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resolved struct {
		SessionID string `json:"sessionId"`
	}
	decode(t, rec, &resolved)
	assert.Equal(t, sessionID, resolved.SessionID)

	t.Run("unknown challenge token is 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/qr/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPricesEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/v1/prices?shopId="+ts.shopID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Prices map[string]float64 `json:"prices"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 10.0, resp.Prices["bankid"])
	assert.Equal(t, 2.0, resp.Prices["reverification"])
	assert.Len(t, resp.Prices, len(domain.Methods()))
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string `json:"status"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "OK", resp.Status)
}
