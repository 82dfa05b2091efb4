// Package notifications dispatches one-time verification codes through the
// configured email and SMS gateways.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/passprove/verification-node/internal/config"
	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/log"
	client "github.com/passprove/verification-node/pkg/http"
)

type codeMessage struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

type gatewaySender struct {
	cfg    config.Notifications
	client *client.Client
}

// NewGatewaySender returns a CodeSender backed by the configured delivery
// gateways.
func NewGatewaySender(cfg config.Notifications, c *client.Client) ports.CodeSender {
	if c == nil {
		c = client.DefaultHTTPClientWithRetry
	}
	return &gatewaySender{cfg: cfg, client: c}
}

// SendCode delivers the one-time code to recipient over the given channel
func (s *gatewaySender) SendCode(ctx context.Context, channel domain.SaveMethod, recipient, code string) error {
	var url string
	msg := codeMessage{
		To:   recipient,
		From: s.cfg.Sender,
		Body: fmt.Sprintf("Your verification code is %s. It is valid for 15 minutes.", code),
	}
	switch channel {
	case domain.SaveMethodEmail:
		url = s.cfg.EmailGatewayURL
		msg.Subject = "Your verification code"
	case domain.SaveMethodPhone:
		url = s.cfg.SMSGatewayURL
	default:
		return fmt.Errorf("no delivery gateway for channel %s", channel)
	}
	if url == "" {
		return fmt.Errorf("delivery gateway for channel %s is not configured", channel)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := s.client.Post(ctx, url, body, map[string]string{"X-Api-Key": s.cfg.APIKey}); err != nil {
		return fmt.Errorf("delivering code over %s: %w", channel, err)
	}
	log.Debug(ctx, "verification code dispatched", "channel", channel)
	return nil
}
