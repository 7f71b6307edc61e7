package auth

import (
	"context"

	"github.com/yourname/habittracker/internal"
	"github.com/yourname/habittracker/internal/storage"
)

// LocalProvider resolves tokens against the user table directly. Development
// and test use only.
type LocalProvider struct {
	users  storage.UserRepository
	logger internal.Logger
}

func NewLocalProvider(users storage.UserRepository, logger internal.Logger) *LocalProvider {
	return &LocalProvider{users: users, logger: logger}
}

func (p *LocalProvider) ValidateToken(ctx context.Context, token string) (*internal.User, error) {
	user, err := p.users.GetUserByToken(ctx, token)
	if err != nil {
		p.logger.Warnf("auth: token rejected: %v", err)
		return nil, err
	}
	return user, nil
}
