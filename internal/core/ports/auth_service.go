package ports

import (
	"context"

	"github.com/nexerp/authgate/internal/core/domain"
)

// AuthService implements the credential lifecycle around the gating core:
// registration, login (token mint + session persistence), session readback,
// profile updates, and logout.
type AuthService interface {
	Register(ctx context.Context, username, password, fullName, email string, roles []string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	Session(ctx context.Context, sid string) (*domain.User, error)
	UpdateProfile(ctx context.Context, sid string, patch domain.UserPatch) (*domain.User, error)
	// Logout clears the session only when token matches the credential
	// persisted for sid.
	Logout(ctx context.Context, sid, token string) error
}
