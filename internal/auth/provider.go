// Package auth is the boundary to the external identity system. The engine
// never issues or stores credentials; it only resolves a bearer token to a
// user via a Provider.
package auth

import (
	"context"

	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/config"
	"github.com/yourname/habittracker/internal/storage"
)

type Provider interface {
	ValidateToken(ctx context.Context, token string) (*internal.User, error)
}

// NewProvider picks the provider for the environment: development resolves
// tokens against the local user table, everything else delegates to the
// remote auth service.
func NewProvider(cfg *config.Config, users storage.UserRepository, logger internal.Logger) Provider {
	if cfg.Env == "development" || cfg.AuthServiceURL == "" {
		return NewLocalProvider(users, logger)
	}
	return NewRemoteProvider(cfg.AuthServiceURL, logger)
}
