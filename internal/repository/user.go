package repository

import (
	"context"

	"github.com/abeleng/shemeta/internal/domain"
)

// User defines the interface for account persistence
type User interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []string) ([]domain.User, error)
}
