package entries

import (
	"context"

	"github.com/proofolio/proofolio/internal/server/models"
)

// Filter narrows entry listings. Zero values match everything.
type Filter struct {
	// Query is a case-insensitive substring over title, description and tags.
	Query string
	Type  models.EntryType
}

type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	ListByOwner(ctx context.Context, ownerID string, f Filter) ([]*models.Entry, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*models.Entry, error)
	UpdateByOwner(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) error
	ListPublic(ctx context.Context, ownerID string, f Filter) ([]*models.Entry, error)
	GetPublic(ctx context.Context, ownerID, id string) (*models.Entry, error)
	CountPublicByType(ctx context.Context, ownerID string) (map[models.EntryType]int, error)
	AppendProof(ctx context.Context, ownerID, id string, proof models.Proof) (*models.Entry, error)
	ListProofKeys(ctx context.Context) ([]string, error)
}
