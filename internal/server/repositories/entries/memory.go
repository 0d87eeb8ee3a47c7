package entries

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/proofolio/proofolio/internal/common"
	"github.com/proofolio/proofolio/internal/server/models"
)

// MemoryRepository keeps entries in process memory with the same filtering
// and ordering as PostgresRepository. Records are copied in and out.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Entry
	// seq breaks created_at ties between entries created in the same instant
	seq   map[string]int
	count int
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[string]*models.Entry),
		seq:  make(map[string]int),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func clone(e *models.Entry) *models.Entry {
	out := *e
	out.Tags = append(models.Tags{}, e.Tags...)
	out.Proofs = append(models.Proofs{}, e.Proofs...)
	return &out
}

func (r *MemoryRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := clone(entry)
	e.ID = uuid.NewString()
	e.Proofs = models.Proofs{}
	e.CreatedAt = r.now()
	e.UpdatedAt = e.CreatedAt

	r.count++
	r.byID[e.ID] = e
	r.seq[e.ID] = r.count
	return clone(e), nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID string, f Filter) ([]*models.Entry, error) {
	list := r.collect(func(e *models.Entry) bool { return e.OwnerID == ownerID && matches(e, f) })
	sort.SliceStable(list, func(i, j int) bool { return r.newer(list[i], list[j]) })
	return list, nil
}

func (r *MemoryRepository) GetByOwner(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok || e.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return clone(e), nil
}

func (r *MemoryRepository) UpdateByOwner(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[entry.ID]
	if !ok || e.OwnerID != entry.OwnerID {
		return nil, common.ErrorNotFound
	}

	e.Type = entry.Type
	e.Title = entry.Title
	e.Description = entry.Description
	e.Tags = append(models.Tags{}, entry.Tags...)
	e.Visibility = entry.Visibility
	e.Date = entry.Date
	e.UpdatedAt = r.now()
	return clone(e), nil
}

func (r *MemoryRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok || e.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	delete(r.seq, id)
	return nil
}

func (r *MemoryRepository) ListPublic(ctx context.Context, ownerID string, f Filter) ([]*models.Entry, error) {
	list := r.collect(func(e *models.Entry) bool {
		return e.OwnerID == ownerID && e.Visibility == models.VisibilityPublic && matches(e, f)
	})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return r.newer(list[i], list[j])
	})
	return list, nil
}

func (r *MemoryRepository) GetPublic(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	e, err := r.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if e.Visibility != models.VisibilityPublic {
		return nil, common.ErrorNotFound
	}
	return e, nil
}

func (r *MemoryRepository) CountPublicByType(ctx context.Context, ownerID string) (map[models.EntryType]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[models.EntryType]int)
	for _, e := range r.byID {
		if e.OwnerID == ownerID && e.Visibility == models.VisibilityPublic {
			counts[e.Type]++
		}
	}
	return counts, nil
}

func (r *MemoryRepository) AppendProof(ctx context.Context, ownerID, id string, proof models.Proof) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok || e.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	e.Proofs = append(e.Proofs, proof)
	e.UpdatedAt = r.now()
	return clone(e), nil
}

func (r *MemoryRepository) ListProofKeys(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0)
	for _, e := range r.byID {
		for _, p := range e.Proofs {
			if p.Key != "" {
				keys = append(keys, p.Key)
			}
		}
	}
	return keys, nil
}

func (r *MemoryRepository) collect(keep func(*models.Entry) bool) []*models.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*models.Entry, 0)
	for _, e := range r.byID {
		if keep(e) {
			list = append(list, clone(e))
		}
	}
	return list
}

// newer orders by creation time, then by insertion order, newest first.
func (r *MemoryRepository) newer(a, b *models.Entry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seq[a.ID] > r.seq[b.ID]
}

func matches(e *models.Entry, f Filter) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Description), q) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
