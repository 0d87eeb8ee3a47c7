// Package entries stores portfolio entries, with their proofs embedded as
// JSONB, in PostgreSQL. Every owner-scoped statement filters on id and
// owner_id together, so a foreign id behaves exactly like a missing one.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/proofolio/proofolio/internal/common"
	"github.com/proofolio/proofolio/internal/dbx"
	"github.com/proofolio/proofolio/internal/server/models"
)

const columns = `id, owner_id, type, title, description, tags, visibility, date, proofs, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.Entry, error) {
	e := &models.Entry{}
	err := row.Scan(&e.ID, &e.OwnerID, &e.Type, &e.Title, &e.Description, &e.Tags,
		&e.Visibility, &e.Date, &e.Proofs, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Entry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) many(ctx context.Context, query string, args ...any) ([]*models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	query := `INSERT INTO entries (owner_id, type, title, description, tags, visibility, date)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
		 RETURNING ` + columns

	return r.one(ctx, query, entry.OwnerID, string(entry.Type), entry.Title, entry.Description,
		entry.Tags, string(entry.Visibility), entry.Date)
}

// ListByOwner returns the owner's entries, newest created first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, f Filter) ([]*models.Entry, error) {
	where, args := filterClause(f, []any{ownerID})
	query := `SELECT ` + columns + ` FROM entries
		 WHERE owner_id = $1` + where + `
		 ORDER BY created_at DESC`

	return r.many(ctx, query, args...)
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	query := `SELECT ` + columns + ` FROM entries
		 WHERE id = $1 AND owner_id = $2`

	return r.one(ctx, query, id, ownerID)
}

// UpdateByOwner replaces the editable fields in one statement; proofs and
// created_at are left alone.
func (r *PostgresRepository) UpdateByOwner(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	query := `UPDATE entries
		 SET type = $3, title = $4, description = $5, tags = $6::jsonb, visibility = $7, date = $8, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING ` + columns

	return r.one(ctx, query, entry.ID, entry.OwnerID, string(entry.Type), entry.Title, entry.Description,
		entry.Tags, string(entry.Visibility), entry.Date)
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM entries WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListPublic returns the owner's public entries ordered by date, then by
// creation time, newest first.
func (r *PostgresRepository) ListPublic(ctx context.Context, ownerID string, f Filter) ([]*models.Entry, error) {
	where, args := filterClause(f, []any{ownerID})
	query := `SELECT ` + columns + ` FROM entries
		 WHERE owner_id = $1 AND visibility = 'public'` + where + `
		 ORDER BY date DESC, created_at DESC`

	return r.many(ctx, query, args...)
}

func (r *PostgresRepository) GetPublic(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	query := `SELECT ` + columns + ` FROM entries
		 WHERE id = $1 AND owner_id = $2 AND visibility = 'public'`

	return r.one(ctx, query, id, ownerID)
}

// CountPublicByType counts all public entries of the owner per type,
// ignoring any listing filter.
func (r *PostgresRepository) CountPublicByType(ctx context.Context, ownerID string) (map[models.EntryType]int, error) {
	query := `SELECT type, count(*) FROM entries
		 WHERE owner_id = $1 AND visibility = 'public'
		 GROUP BY type`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.EntryType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts[models.EntryType(t)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return counts, nil
}

// AppendProof adds proof to the entry's proof list atomically, so two
// concurrent attaches both survive.
func (r *PostgresRepository) AppendProof(ctx context.Context, ownerID, id string, proof models.Proof) (*models.Entry, error) {
	query := `UPDATE entries
		 SET proofs = proofs || $3::jsonb, updated_at = now()
		 WHERE id = $1 AND owner_id = $2
		 RETURNING ` + columns

	return r.one(ctx, query, id, ownerID, models.Proofs{proof})
}

// ListProofKeys returns the object key of every attached proof.
func (r *PostgresRepository) ListProofKeys(ctx context.Context) ([]string, error) {
	query := `SELECT p->>'key' FROM entries, jsonb_array_elements(proofs) AS p
		 WHERE coalesce(p->>'key', '') <> ''`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return keys, nil
}

// filterClause renders f as extra AND conditions, numbering placeholders
// after the args already present.
func filterClause(f Filter, args []any) (string, []any) {
	var b strings.Builder

	if f.Type != "" {
		args = append(args, string(f.Type))
		b.WriteString(" AND type = $" + strconv.Itoa(len(args)))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := "$" + strconv.Itoa(len(args))
		b.WriteString(" AND (title ILIKE " + n + " OR description ILIKE " + n +
			" OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t WHERE t ILIKE " + n + "))")
	}

	return b.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
