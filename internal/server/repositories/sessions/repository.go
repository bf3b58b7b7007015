package sessions

import (
	"context"

	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	GetByUserID(ctx context.Context, userID string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
}
