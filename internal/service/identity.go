package service

import (
	"context"

	"brewhub/internal/models"
)

// IdentityLookup resolves identities from the shared users table.
// repository.UserRepository satisfies it.
type IdentityLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
}
