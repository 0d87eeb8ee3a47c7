package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/proofolio/proofolio/internal/logging"
	"github.com/proofolio/proofolio/internal/server/objectstore"
	"github.com/proofolio/proofolio/internal/server/repositories/repomanager"
)

// ObjectLister lists and removes stored objects.
type ObjectLister interface {
	List(ctx context.Context, prefix string) ([]objectstore.Object, error)
	Delete(ctx context.Context, keys []string) error
}

// Sweeper removes proof objects no entry refers to: uploads that were never
// attached, and the files of deleted entries. Objects younger than grace are
// left alone since an upload grant for them may still be in use.
type Sweeper struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectLister
	interval    time.Duration
	grace       time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewSweeper(db *sql.DB, m repomanager.RepositoryManager, store ObjectLister, interval, grace time.Duration, logger logging.Logger) *Sweeper {
	return &Sweeper{
		db:          db,
		repomanager: m,
		store:       store,
		interval:    interval,
		grace:       grace,
		logger:      logger.With("module", "sweeper"),
		now:         time.Now,
	}
}

// Run sweeps every interval until ctx is done. A zero interval disables it.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info(ctx, "orphan sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Sweeper) pass(ctx context.Context) {
	n, err := s.Sweep(ctx)
	switch {
	case err != nil:
		s.logger.Error(ctx, "sweep failed", "error", err)
	case n > 0:
		s.logger.Info(ctx, "orphan proofs removed", "count", n)
	default:
		s.logger.Debug(ctx, "sweep found no orphan proofs")
	}
}

// Sweep runs one pass and returns the number of deleted objects.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	// objects are listed before keys are loaded; an attach that lands in
	// between is then already in the key set
	objects, err := s.store.List(ctx, ProofPrefix)
	if err != nil {
		return 0, fmt.Errorf("list objects: %w", err)
	}
	if len(objects) == 0 {
		return 0, nil
	}

	keys, err := s.repomanager.Entries(s.db).ListProofKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list proof keys: %w", err)
	}

	attached := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		attached[k] = struct{}{}
	}

	cutoff := s.now().Add(-s.grace)
	var orphans []string
	for _, o := range objects {
		if _, ok := attached[o.Key]; ok {
			continue
		}
		if o.LastModified.After(cutoff) {
			continue
		}
		orphans = append(orphans, o.Key)
	}

	if len(orphans) == 0 {
		return 0, nil
	}
	if err := s.store.Delete(ctx, orphans); err != nil {
		return 0, fmt.Errorf("delete objects: %w", err)
	}
	return len(orphans), nil
}
