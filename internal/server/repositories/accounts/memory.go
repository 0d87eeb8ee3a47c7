package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/proofolio/proofolio/internal/common"
	"github.com/proofolio/proofolio/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. It enforces the same
// unique email and handle rules as the accounts table.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Account)}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		if a.Email == account.Email {
			return nil, fmt.Errorf("%w: accounts_email_key", common.ErrConflict)
		}
		if a.Handle == account.Handle {
			return nil, fmt.Errorf("%w: accounts_handle_key", common.ErrConflict)
		}
	}

	stored := *account
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	r.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Email == email })
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.ID == id })
}

func (r *MemoryRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Handle == handle })
}

func (r *MemoryRepository) find(match func(*models.Account) bool) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if match(a) {
			out := *a
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}
