package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/proofolio/proofolio/internal/client/client"
	"github.com/proofolio/proofolio/internal/client/config"
	"github.com/proofolio/proofolio/internal/client/models"
	"github.com/proofolio/proofolio/internal/client/services"
	"github.com/proofolio/proofolio/internal/common"
)

// API is the part of client.Client the commands use.
type API interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
	ListEntries(ctx context.Context, q, typ string) ([]models.Entry, error)
	CreateEntry(ctx context.Context, d models.EntryDraft) (*models.Entry, error)
	GetEntry(ctx context.Context, id string) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id string, d models.EntryDraft) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	PublicProfile(ctx context.Context, handle, q, typ string) (*models.Profile, error)
}

// Proofs moves proof files between disk and object storage.
type Proofs interface {
	Attach(ctx context.Context, entryID, path string) (*models.Entry, error)
	Download(ctx context.Context, handle, entryID, dir string) ([]string, error)
}

var _ API = (*client.Client)(nil)
var _ Proofs = (*services.ProofService)(nil)

type App struct {
	config *config.Config
	api    API
	proofs Proofs
	user   *models.User
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.New(c.ServerURL, c.Timeout)
	if err != nil {
		return nil, err
	}

	ps := services.NewProofService(api, api.HTTPClient())

	return &App{
		config: c,
		api:    api,
		proofs: ps,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run greets the user and serves commands from stdin until exit or EOF.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to proofolio CLI (type 'help' for commands)")
	if err := a.api.Ping(ctx); err != nil {
		log.Printf("server %s is not reachable: %v", a.config.ServerURL, err)
	}
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) status() string {
	if a.user == nil {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.user.Handle)
}

// fail reports err to the user and returns it. A rejected session drops the
// local login state.
func (a *App) fail(err error) error {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		a.user = nil
		fmt.Fprintln(a.out, "Not logged in (or the session expired). Use 'login'.")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later.")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return err
}
