package ports

import (
	"context"

	"github.com/passprove/verification-node/internal/core/domain"
)

// CodeSender delivers one-time verification codes over a contact channel.
// Delivery transport is an external collaborator; the core only needs the
// dispatch call.
type CodeSender interface {
	SendCode(ctx context.Context, channel domain.SaveMethod, recipient, code string) error
}
