package repository

import (
	"context"

	"github.com/zerobet/api/internal/domain"
)

// UserRepository persists user accounts and their balances. The store is the
// sole authority on email uniqueness, and balance mutations resolve
// atomically so concurrent credits never lose updates.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	CreditBalance(ctx context.Context, id string, amount int64) (int64, error)
}
