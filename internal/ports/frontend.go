package ports

import (
	"context"

	"github.com/mailrisk/phish-scorer/internal/core"
)

// EmailFrontend defines the interface for the surfaces that feed emails
// into the scoring engine
type EmailFrontend interface {
	// ProcessEmail scores one email and returns the result
	ProcessEmail(ctx context.Context, input core.EmailInput) (*core.ScoreResult, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
