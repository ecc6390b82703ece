package ports

import (
	"context"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type UserRepository interface {
	// Create returns domain.ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
