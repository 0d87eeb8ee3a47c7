package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/proofolio/proofolio/internal/dbx"
	"github.com/proofolio/proofolio/internal/server/models"
	"github.com/proofolio/proofolio/internal/server/objectstore"
	"github.com/proofolio/proofolio/internal/server/repositories/accounts"
	"github.com/proofolio/proofolio/internal/server/repositories/entries"
	"github.com/proofolio/proofolio/internal/server/repositories/repomanager"
)

var errBoom = errors.New("boom")

// brokenEntries fails every call it overrides; the rest panic via the nil
// embedded interface.
type brokenEntries struct {
	entries.Repository
}

func (brokenEntries) Create(context.Context, *models.Entry) (*models.Entry, error) { return nil, errBoom }
func (brokenEntries) GetByOwner(context.Context, string, string) (*models.Entry, error) {
	return nil, errBoom
}
func (brokenEntries) ListProofKeys(context.Context) ([]string, error) { return nil, errBoom }

type brokenAccounts struct {
	accounts.Repository
}

func (brokenAccounts) GetByID(context.Context, string) (*models.Account, error)    { return nil, errBoom }
func (brokenAccounts) GetByEmail(context.Context, string) (*models.Account, error) { return nil, errBoom }

// stubManager serves fixed repositories.
type stubManager struct {
	accounts accounts.Repository
	entries  entries.Repository
}

func (m *stubManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *stubManager) Accounts(dbx.DBTX) accounts.Repository        { return m.accounts }
func (m *stubManager) Entries(dbx.DBTX) entries.Repository          { return m.entries }

var _ repomanager.RepositoryManager = (*stubManager)(nil)

type presignCall struct {
	key         string
	contentType string
	ttl         time.Duration
}

type fakePresigner struct {
	puts []presignCall
	gets []presignCall
	err  error
}

func (f *fakePresigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.puts = append(f.puts, presignCall{key: key, contentType: contentType, ttl: ttl})
	return "https://store.test/put/" + key, nil
}

func (f *fakePresigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.gets = append(f.gets, presignCall{key: key, ttl: ttl})
	return "https://store.test/get/" + key, nil
}

type fakeBucket struct {
	objects []objectstore.Object
	deleted []string
	listErr error
}

func (f *fakeBucket) List(ctx context.Context, prefix string) ([]objectstore.Object, error) {
	return f.objects, f.listErr
}

func (f *fakeBucket) Delete(ctx context.Context, keys []string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}
