package users

import (
	"context"

	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID int64) (*models.User, error)
	TouchLastActive(ctx context.Context, id string) error
}
