package providers

import (
	"github.com/passprove/verification-node/internal/config"
	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	client "github.com/passprove/verification-node/pkg/http"
)

// NewRegistry binds the configured external providers to their verification
// methods. Methods without a configured url are left unbound; submitting
// evidence for them is rejected by the orchestrator. The reverification and
// qrcode methods complete through their own flows and never appear here.
func NewRegistry(cfg config.Providers, c *client.Client) ports.EvidenceProviderRegistry {
	registry := ports.EvidenceProviderRegistry{}
	bind := func(method domain.Method, p config.Provider) {
		if p.URL == "" {
			return
		}
		registry[method] = NewHTTPProvider(string(method), p.URL, p.APIKey, c)
	}
	bind(domain.MethodBankID, cfg.BankID)
	bind(domain.MethodMojeID, cfg.MojeID)
	bind(domain.MethodOCR, cfg.OCR)
	bind(domain.MethodFaceScan, cfg.FaceScan)
	return registry
}
