package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/proofolio/proofolio/internal/client/client"
	"github.com/proofolio/proofolio/internal/client/config"
	"github.com/proofolio/proofolio/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

// fakeAPI embeds API so unused methods panic if called.
type fakeAPI struct {
	API

	user *models.User
	err  error

	gotEmail, gotPassword string
	gotQ, gotType         string
	gotDraft              models.EntryDraft
	gotID                 string

	entries []models.Entry
	entry   *models.Entry
	profile *models.Profile
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (*models.User, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.user, f.err
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.user, f.err
}

func (f *fakeAPI) Logout(ctx context.Context) error { return f.err }

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) { return f.user, f.err }

func (f *fakeAPI) ListEntries(ctx context.Context, q, typ string) ([]models.Entry, error) {
	f.gotQ, f.gotType = q, typ
	return f.entries, f.err
}

func (f *fakeAPI) CreateEntry(ctx context.Context, d models.EntryDraft) (*models.Entry, error) {
	f.gotDraft = d
	return f.entry, f.err
}

func (f *fakeAPI) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	f.gotID = id
	return f.entry, f.err
}

func (f *fakeAPI) UpdateEntry(ctx context.Context, id string, d models.EntryDraft) (*models.Entry, error) {
	f.gotID, f.gotDraft = id, d
	return f.entry, f.err
}

func (f *fakeAPI) DeleteEntry(ctx context.Context, id string) error {
	f.gotID = id
	return f.err
}

func (f *fakeAPI) PublicProfile(ctx context.Context, handle, q, typ string) (*models.Profile, error) {
	f.gotID, f.gotQ, f.gotType = handle, q, typ
	return f.profile, f.err
}

type fakeProofs struct {
	calls []string
	entry *models.Entry
	paths []string
	err   error
}

func (f *fakeProofs) Attach(ctx context.Context, entryID, path string) (*models.Entry, error) {
	f.calls = append(f.calls, "attach "+entryID+" "+path)
	return f.entry, f.err
}

func (f *fakeProofs) Download(ctx context.Context, handle, entryID, dir string) ([]string, error) {
	f.calls = append(f.calls, "download "+handle+" "+entryID+" "+dir)
	return f.paths, f.err
}

func newTestApp(api API, proofs Proofs, in *bufio.Reader) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{config: cfg, api: api, proofs: proofs, reader: in, out: out}, out
}

var alice = &models.User{ID: "u1", Email: "alice@example.com", Handle: "alice"}

// ------------ tests ------------

func TestApp_RegisterAndLogin(t *testing.T) {
	stubPassword(t, "hunter22")

	api := &fakeAPI{user: alice}
	app, out := newTestApp(api, nil, readerFromLines("alice@example.com", "alice@example.com"))

	require.NoError(t, app.Register(context.Background()))
	assert.Equal(t, "alice@example.com", api.gotEmail)
	assert.Equal(t, "hunter22", api.gotPassword)
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "(alice)", app.status())
	assert.Contains(t, out.String(), `Registered as alice@example.com, public handle "alice"`)

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "(guest)", app.status())

	require.NoError(t, app.Login(context.Background()))
	assert.True(t, app.isLoggedIn())
}

func TestApp_LoginFailureKeepsGuest(t *testing.T) {
	stubPassword(t, "wrong")

	api := &fakeAPI{err: &client.APIError{Status: 401, Message: "invalid credentials"}}
	app, out := newTestApp(api, nil, readerFromLines("alice@example.com"))

	err := app.Login(context.Background())
	require.Error(t, err)
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Not logged in")
}

func TestApp_ExpiredSessionDropsUser(t *testing.T) {
	api := &fakeAPI{err: &client.APIError{Status: 401, Message: "not authenticated"}}
	app, _ := newTestApp(api, nil, readerFromLines())
	app.user = alice

	require.Error(t, app.List(context.Background(), nil))
	assert.False(t, app.isLoggedIn())
}

func TestApp_ServerUnavailable(t *testing.T) {
	api := &fakeAPI{err: fmt.Errorf("%w: connection refused", client.ErrUnavailable)}
	app, out := newTestApp(api, nil, readerFromLines())

	require.Error(t, app.Me(context.Background()))
	assert.Contains(t, out.String(), "Server unavailable")
}

func TestApp_List(t *testing.T) {
	api := &fakeAPI{entries: []models.Entry{
		{ID: "e1", Date: "2025-01-02", Type: "Project", Title: "Site", Visibility: "public"},
	}}
	app, out := newTestApp(api, nil, readerFromLines())

	require.NoError(t, app.List(context.Background(), []string{"-t", "project", "site"}))
	assert.Equal(t, "site", api.gotQ)
	assert.Equal(t, "project", api.gotType)
	assert.Contains(t, out.String(), "e1  2025-01-02  [Project] Site (public, 0 proofs)")

	api.entries = nil
	out.Reset()
	require.NoError(t, app.List(context.Background(), nil))
	assert.Equal(t, "No entries\n", out.String())
}

func TestApp_Add(t *testing.T) {
	orig := today
	today = func() string { return "2026-10-18" }
	t.Cleanup(func() { today = orig })

	api := &fakeAPI{entry: &models.Entry{ID: "new-id"}}
	in := readerFromLines(
		"Project",
		"Portfolio site",
		"Built with Go.",
		"Second line.",
		"",
		"go, web ,",
		"",
		"y",
	)
	app, out := newTestApp(api, nil, in)

	require.NoError(t, app.Add(context.Background()))
	assert.Equal(t, models.EntryDraft{
		Type:        "Project",
		Title:       "Portfolio site",
		Description: "Built with Go.\nSecond line.",
		Tags:        []string{"go", "web"},
		Visibility:  "public",
		Date:        "2026-10-18",
	}, api.gotDraft)
	assert.Contains(t, out.String(), "Created new-id")
}

func TestApp_AddDefaultsToPrivate(t *testing.T) {
	api := &fakeAPI{entry: &models.Entry{ID: "x"}}
	in := readerFromLines("dsa", "Graphs", "BFS notes", "", "", "2024-05-06", "n")
	app, _ := newTestApp(api, nil, in)

	require.NoError(t, app.Add(context.Background()))
	assert.Equal(t, "private", api.gotDraft.Visibility)
	assert.Equal(t, "2024-05-06", api.gotDraft.Date)
	assert.Equal(t, []string{}, api.gotDraft.Tags)
}

func TestApp_SetVisibilityKeepsOtherFields(t *testing.T) {
	api := &fakeAPI{entry: &models.Entry{
		ID: "e1", Type: "DSA", Title: "T", Description: "D", Tags: []string{"x"}, Visibility: "private", Date: "2024-01-01",
	}}
	app, out := newTestApp(api, nil, readerFromLines())

	require.NoError(t, app.SetVisibility(context.Background(), "e1", "public"))
	assert.Equal(t, "e1", api.gotID)
	assert.Equal(t, models.EntryDraft{
		Type: "DSA", Title: "T", Description: "D", Tags: []string{"x"}, Visibility: "public", Date: "2024-01-01",
	}, api.gotDraft)
	assert.Contains(t, out.String(), "Entry e1 is now public")
}

func TestApp_ShowAndDelete(t *testing.T) {
	api := &fakeAPI{entry: &models.Entry{
		ID: "e1", Type: "Certificate", Title: "SAA", Description: "passed", Tags: []string{"aws", "cloud"},
		Proofs: []models.Proof{{OriginalName: "cert.pdf", ContentType: "application/pdf", Size: 42}},
	}}
	app, out := newTestApp(api, nil, readerFromLines())

	require.NoError(t, app.Show(context.Background(), "e1"))
	s := out.String()
	assert.Contains(t, s, "Title:       SAA")
	assert.Contains(t, s, "Tags:        aws, cloud")
	assert.Contains(t, s, "proof: cert.pdf (application/pdf, 42 bytes)")

	out.Reset()
	require.NoError(t, app.Delete(context.Background(), "e1"))
	assert.Equal(t, "Deleted e1\n", out.String())

	api.err = &client.APIError{Status: 404, Message: "not found"}
	out.Reset()
	require.Error(t, app.Delete(context.Background(), "e1"))
	assert.Contains(t, out.String(), "Error: 404: not found")
}

func TestApp_AttachAndDownload(t *testing.T) {
	proofs := &fakeProofs{
		entry: &models.Entry{Proofs: make([]models.Proof, 2)},
		paths: []string{"downloads/alice/e1/a.pdf"},
	}
	app, out := newTestApp(&fakeAPI{}, proofs, readerFromLines())

	require.NoError(t, app.Attach(context.Background(), "e1", "a.pdf"))
	require.NoError(t, app.Download(context.Background(), "alice", "e1"))

	assert.Equal(t, []string{"attach e1 a.pdf", "download alice e1 downloads"}, proofs.calls)
	assert.Contains(t, out.String(), "entry now has 2 proofs")
	assert.Contains(t, out.String(), "Saved downloads/alice/e1/a.pdf")

	proofs.err = errors.New("disk full")
	require.Error(t, app.Attach(context.Background(), "e1", "b.pdf"))
}

func TestApp_Public(t *testing.T) {
	p := &models.Profile{
		Counts:  map[string]int{"Project": 2, "DSA": 1},
		Entries: []models.Entry{{ID: "e1", Date: "2025-01-01", Type: "Project", Title: "A", Visibility: "public"}},
	}
	p.User.Username = "alice"
	api := &fakeAPI{profile: p}
	app, out := newTestApp(api, nil, readerFromLines())

	require.NoError(t, app.Public(context.Background(), "alice", []string{"go"}))
	assert.Equal(t, "alice", api.gotID)
	assert.Equal(t, "go", api.gotQ)

	s := out.String()
	assert.Contains(t, s, "Portfolio of alice")
	assert.Contains(t, s, "  Project: 2")
	assert.Contains(t, s, "  AWS Lab: 0")
	assert.Contains(t, s, "e1  2025-01-01  [Project] A")
}
