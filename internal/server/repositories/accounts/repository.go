package accounts

import (
	"context"

	"github.com/proofolio/proofolio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)
}
