package users

import (
	"context"

	"fitplan/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
