package services

import (
	"context"
	"testing"

	"github.com/proofolio/proofolio/internal/common"
	"github.com/proofolio/proofolio/internal/server/models"
	entriesrepo "github.com/proofolio/proofolio/internal/server/repositories/entries"
	"github.com/proofolio/proofolio/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const missingID = "7d1e8f2a-3b4c-4d5e-8f90-a1b2c3d4e5f6"

type fixture struct {
	m        repomanager.RepositoryManager
	accounts *AccountService
	entries  *EntryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, m := newAccountService(t)
	return &fixture{m: m, accounts: s, entries: NewEntryService(nil, m)}
}

func (f *fixture) register(t *testing.T, email string) string {
	t.Helper()
	sess, err := f.accounts.Register(context.Background(), email, "secret1")
	require.NoError(t, err)
	return sess.Account.ID
}

func validInput() EntryInput {
	return EntryInput{
		Type:        "Project",
		Title:       " T ",
		Description: "D",
		Tags:        TagList{"a", " b ", "", "c"},
		Visibility:  "public",
		Date:        "2026-01-01",
	}
}

func TestCreateThenGetOwned_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")

	created, err := f.entries.Create(ctx, owner, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := f.entries.GetOwned(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryTypeProject, got.Type)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "D", got.Description)
	assert.Equal(t, models.Tags{"a", "b", "c"}, got.Tags)
	assert.Equal(t, models.VisibilityPublic, got.Visibility)
	assert.Equal(t, "2026-01-01", got.Date)
	assert.Empty(t, got.Proofs)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "a@x.com")

	mutate := map[string]func(*EntryInput){
		"missing type":        func(in *EntryInput) { in.Type = "" },
		"unknown type":        func(in *EntryInput) { in.Type = "Essay" },
		"blank title":         func(in *EntryInput) { in.Title = "   " },
		"missing description": func(in *EntryInput) { in.Description = "" },
		"missing date":        func(in *EntryInput) { in.Date = "" },
		"bad date":            func(in *EntryInput) { in.Date = "01/02/2026" },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			fn(&in)
			_, err := f.entries.Create(context.Background(), owner, in)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestCreate_VisibilityAndTypeAliases(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "a@x.com")

	in := validInput()
	in.Type = "algorithm-note"
	in.Visibility = "Public"

	e, err := f.entries.Create(context.Background(), owner, in)
	require.NoError(t, err)
	assert.Equal(t, models.EntryTypeAlgorithmNote, e.Type)
	assert.Equal(t, models.VisibilityPrivate, e.Visibility)
}

func TestOwnerIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@x.com")
	bob := f.register(t, "bob@x.com")

	e, err := f.entries.Create(ctx, alice, validInput())
	require.NoError(t, err)

	_, err = f.entries.GetOwned(ctx, bob, e.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	in := validInput()
	in.Title = "hijacked"
	_, err = f.entries.UpdateOwned(ctx, bob, e.ID, in)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, f.entries.DeleteOwned(ctx, bob, e.ID), common.ErrorNotFound)

	got, err := f.entries.GetOwned(ctx, alice, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)

	list, err := f.entries.ListOwned(ctx, bob, entriesrepo.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvalidID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")

	_, err := f.entries.GetOwned(ctx, owner, "nope")
	assert.ErrorIs(t, err, common.ErrInvalidID)
	_, err = f.entries.UpdateOwned(ctx, owner, "nope", validInput())
	assert.ErrorIs(t, err, common.ErrInvalidID)
	assert.ErrorIs(t, f.entries.DeleteOwned(ctx, owner, "nope"), common.ErrInvalidID)
	_, err = f.entries.GetPublic(ctx, "a", "nope")
	assert.ErrorIs(t, err, common.ErrInvalidID)

	_, err = f.entries.GetOwned(ctx, owner, missingID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteOwned_SecondCallNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "a@x.com")

	e, err := f.entries.Create(ctx, owner, validInput())
	require.NoError(t, err)

	require.NoError(t, f.entries.DeleteOwned(ctx, owner, e.ID))
	assert.ErrorIs(t, f.entries.DeleteOwned(ctx, owner, e.ID), common.ErrorNotFound)
}

func TestPublicView_HidesPrivateEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "sak2@x.com")

	pub, err := f.entries.Create(ctx, owner, validInput())
	require.NoError(t, err)

	priv := validInput()
	priv.Visibility = "private"
	hidden, err := f.entries.Create(ctx, owner, priv)
	require.NoError(t, err)

	profile, err := f.entries.ListPublic(ctx, "sak2", entriesrepo.Filter{})
	require.NoError(t, err)
	assert.Equal(t, owner, profile.Account.ID)
	require.Len(t, profile.Entries, 1)
	assert.Equal(t, pub.ID, profile.Entries[0].ID)
	assert.Equal(t, 1, profile.Counts[models.EntryTypeProject])

	_, err = f.entries.GetPublic(ctx, "sak2", hidden.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err := f.entries.GetPublic(ctx, "sak2", pub.ID)
	require.NoError(t, err)
	assert.Equal(t, pub.ID, got.ID)

	// unpublish
	in := validInput()
	in.Visibility = "private"
	_, err = f.entries.UpdateOwned(ctx, owner, pub.ID, in)
	require.NoError(t, err)

	profile, err = f.entries.ListPublic(ctx, "sak2", entriesrepo.Filter{})
	require.NoError(t, err)
	assert.Empty(t, profile.Entries)
}

func TestListPublic_UnknownHandle(t *testing.T) {
	f := newFixture(t)
	f.register(t, "sak2@x.com")

	_, err := f.entries.ListPublic(context.Background(), "sak", entriesrepo.Filter{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(" vpc ", "lab")
	require.NoError(t, err)
	assert.Equal(t, entriesrepo.Filter{Query: "vpc", Type: models.EntryTypeLab}, f)

	f, err = ParseFilter("", "")
	require.NoError(t, err)
	assert.Equal(t, entriesrepo.Filter{}, f)

	_, err = ParseFilter("", "essay")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreate_StoreErrorIsInternal(t *testing.T) {
	s := NewEntryService(nil, &stubManager{entries: brokenEntries{}})

	_, err := s.Create(context.Background(), missingID, validInput())
	assert.ErrorIs(t, err, common.ErrorInternal)
}
