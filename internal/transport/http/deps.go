package http

import (
	"context"

	"github.com/classroom-accounts/internal/application/account"
	jwtinfra "github.com/classroom-accounts/internal/infrastructure/jwt"
	"github.com/rs/zerolog"
)

// ReadinessChecker backs /v1/health-check/ready.
type ReadinessChecker interface {
	Check(ctx context.Context) error
}

// Deps holds everything the router needs. Verifier may be nil, in which case
// admin routes reject every request. A nil Readiness always reports ready.
type Deps struct {
	Accounts  account.Service
	Verifier  *jwtinfra.Verifier
	Readiness ReadinessChecker
	Logger    zerolog.Logger
}
