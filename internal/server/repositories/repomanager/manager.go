package repomanager

import (
	"context"
	"database/sql"

	"github.com/proofolio/proofolio/internal/dbx"
	"github.com/proofolio/proofolio/internal/server/repositories/accounts"
	"github.com/proofolio/proofolio/internal/server/repositories/entries"
)

// RepositoryManager vends repositories bound to a handle (a pool or a
// transaction) and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Entries(db dbx.DBTX) entries.Repository
}
