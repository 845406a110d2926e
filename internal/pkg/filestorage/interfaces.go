package filestorage

import (
	"context"

	"github.com/yigit/cgpa/internal/app/models"
)

// ProfileFiles is a profile store kept as one JSON document per profile on
// the local filesystem. It satisfies services.ProfileStore.
type ProfileFiles interface {
	Upsert(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.Profile, int64, error)
	Delete(ctx context.Context, id string) error
}
