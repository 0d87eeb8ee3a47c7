package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/proofolio/proofolio/internal/common"
	"github.com/proofolio/proofolio/internal/server/models"
	entriesrepo "github.com/proofolio/proofolio/internal/server/repositories/entries"
	"github.com/proofolio/proofolio/internal/server/repositories/repomanager"
)

// DateLayout is the only accepted entry date format.
const DateLayout = "2006-01-02"

// EntryInput is the writable part of an entry, as sent by the client on
// create and on update.
type EntryInput struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Tags        TagList `json:"tags"`
	Visibility  string  `json:"visibility"`
	Date        string  `json:"date"`
}

func (in EntryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Type, validation.Required, validation.By(knownEntryType)),
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Date, validation.Required, validation.Date(DateLayout)),
	)
}

func knownEntryType(v any) error {
	s, _ := v.(string)
	if _, ok := models.ParseEntryType(s); !ok {
		return fmt.Errorf("must be one of %s", entryTypeNames())
	}
	return nil
}

func entryTypeNames() string {
	names := make([]string, len(models.EntryTypes))
	for i, t := range models.EntryTypes {
		names[i] = fmt.Sprintf("%q", string(t))
	}
	return strings.Join(names, ", ")
}

// entry validates in and builds the record it describes.
func (in EntryInput) entry(ownerID string) (*models.Entry, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Date = strings.TrimSpace(in.Date)

	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	t, _ := models.ParseEntryType(in.Type)
	return &models.Entry{
		OwnerID:     ownerID,
		Type:        t,
		Title:       in.Title,
		Description: in.Description,
		Tags:        NormalizeTags(in.Tags),
		Visibility:  models.ParseVisibility(in.Visibility),
		Date:        in.Date,
		Proofs:      models.Proofs{},
	}, nil
}

// ParseFilter builds a listing filter from the q and type query parameters.
// An empty type matches every type; an unknown one is a validation error.
func ParseFilter(q, typ string) (entriesrepo.Filter, error) {
	f := entriesrepo.Filter{Query: strings.TrimSpace(q)}
	if strings.TrimSpace(typ) != "" {
		t, ok := models.ParseEntryType(typ)
		if !ok {
			return f, fmt.Errorf("%w: type must be one of %s", common.ErrValidation, entryTypeNames())
		}
		f.Type = t
	}
	return f, nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", common.ErrInvalidID, id)
	}
	return nil
}

// PublicProfile is what a visitor sees for a handle.
type PublicProfile struct {
	Account *models.Account
	Entries []*models.Entry
	// Counts holds the number of public entries per type, ignoring the filter.
	Counts map[models.EntryType]int
}

// EntryService is the owner-scoped and the public view of entries. Every
// owner operation filters by {id, owner} inside a single statement, so a
// foreign id behaves exactly like a missing one.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: m,
	}
}

func (s *EntryService) Create(ctx context.Context, ownerID string, in EntryInput) (*models.Entry, error) {
	e, err := in.entry(ownerID)
	if err != nil {
		return nil, err
	}

	created, err := s.repomanager.Entries(s.db).Create(ctx, e)
	if err != nil {
		return nil, storeError(err)
	}
	return created, nil
}

// ListOwned returns the owner's entries, newest first.
func (s *EntryService) ListOwned(ctx context.Context, ownerID string, f entriesrepo.Filter) ([]*models.Entry, error) {
	list, err := s.repomanager.Entries(s.db).ListByOwner(ctx, ownerID, f)
	if err != nil {
		return nil, storeError(err)
	}
	return list, nil
}

func (s *EntryService) GetOwned(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	e, err := s.repomanager.Entries(s.db).GetByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, storeError(err)
	}
	return e, nil
}

// UpdateOwned replaces the writable fields of an entry. Proofs are kept.
func (s *EntryService) UpdateOwned(ctx context.Context, ownerID, id string, in EntryInput) (*models.Entry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	e, err := in.entry(ownerID)
	if err != nil {
		return nil, err
	}
	e.ID = id

	updated, err := s.repomanager.Entries(s.db).UpdateByOwner(ctx, e)
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

func (s *EntryService) DeleteOwned(ctx context.Context, ownerID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	if err := s.repomanager.Entries(s.db).DeleteByOwner(ctx, ownerID, id); err != nil {
		return storeError(err)
	}
	return nil
}

// ListPublic resolves handle and returns its public entries, latest date first.
func (s *EntryService) ListPublic(ctx context.Context, handle string, f entriesrepo.Filter) (*PublicProfile, error) {
	account, err := resolveHandle(ctx, s.repomanager.Accounts(s.db), handle)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Entries(s.db)

	list, err := repo.ListPublic(ctx, account.ID, f)
	if err != nil {
		return nil, storeError(err)
	}

	counts, err := repo.CountPublicByType(ctx, account.ID)
	if err != nil {
		return nil, storeError(err)
	}

	return &PublicProfile{Account: account, Entries: list, Counts: counts}, nil
}

// GetPublic returns one public entry of handle. Private entries are NotFound.
func (s *EntryService) GetPublic(ctx context.Context, handle, id string) (*models.Entry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	account, err := resolveHandle(ctx, s.repomanager.Accounts(s.db), handle)
	if err != nil {
		return nil, err
	}

	e, err := s.repomanager.Entries(s.db).GetPublic(ctx, account.ID, id)
	if err != nil {
		return nil, storeError(err)
	}
	return e, nil
}
