package repomanager

import (
	"context"
	"database/sql"

	"github.com/proofolio/proofolio/internal/dbx"
	"github.com/proofolio/proofolio/internal/server/repositories/accounts"
	"github.com/proofolio/proofolio/internal/server/repositories/entries"
)

// MemoryDSN selects the in-memory manager instead of PostgreSQL. State is
// lost on restart; meant for local runs and tests.
const MemoryDSN = "memory"

// InMemoryRepositoryManager hands out the same process-local repositories
// for every handle. The db argument is ignored.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	entries  *entries.MemoryRepository
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		entries:  entries.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository {
	return m.accounts
}

func (m *InMemoryRepositoryManager) Entries(dbx.DBTX) entries.Repository {
	return m.entries
}
