// Package providers holds the HTTP clients for the external evidence
// verification services. Every provider speaks the same envelope: the
// evidence payload is posted as json and the answer carries a verified flag
// plus an optional age claim.
package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/passprove/verification-node/internal/core/ports"
	client "github.com/passprove/verification-node/pkg/http"
)

const verifyPath = "/verify"

type verifyRequest struct {
	Evidence map[string]any `json:"evidence"`
}

type verifyResponse struct {
	Verified bool           `json:"verified"`
	Age      *int           `json:"age,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type httpProvider struct {
	name   string
	url    string
	apiKey string
	client *client.Client
}

// NewHTTPProvider returns an evidence provider that posts the evidence to the
// given base url.
func NewHTTPProvider(name, url, apiKey string, c *client.Client) ports.EvidenceProvider {
	if c == nil {
		c = client.DefaultHTTPClientWithRetry
	}
	return &httpProvider{name: name, url: url, apiKey: apiKey, client: c}
}

func (p *httpProvider) Verify(ctx context.Context, evidence map[string]any) (*ports.EvidenceOutcome, error) {
	body, err := json.Marshal(verifyRequest{Evidence: evidence})
	if err != nil {
		return nil, fmt.Errorf("encoding %s evidence: %w", p.name, err)
	}
	resp, err := p.client.Post(ctx, p.url+verifyPath, body, map[string]string{"X-Api-Key": p.apiKey})
	if err != nil {
		return nil, fmt.Errorf("%s provider request: %w", p.name, err)
	}
	var out verifyResponse
	if err := json.Unmarshal(resp, &out); err != nil {
		return nil, fmt.Errorf("decoding %s provider response: %w", p.name, err)
	}
	return &ports.EvidenceOutcome{
		Verified: out.Verified,
		Age:      out.Age,
		Provider: p.name,
		Metadata: out.Metadata,
	}, nil
}
