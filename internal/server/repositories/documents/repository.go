package documents

import (
	"context"

	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, document *models.Document) (*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
}
