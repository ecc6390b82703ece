package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

type UserRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]*domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == user.Username {
			return fmt.Errorf("%w: user %q", domain.ErrAlreadyExists, user.Username)
		}
	}
	c := *user
	r.byID[user.ID] = &c
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}
