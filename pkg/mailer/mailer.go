package mailer

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no delivery backend is available.
var ErrNotConfigured = errors.New("mailer not configured")

// Mailer delivers a single message or reports why it could not.
// Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}
