package cli

import (
	"context"
	"fmt"

	"github.com/proofolio/proofolio/internal/client/models"
)

// credentials prompts for an email and a password.
func (a *App) credentials() (string, string, error) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return a.fail(err)
	}

	u, err := a.api.Register(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}
	a.signedIn(u, "Registered")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return a.fail(err)
	}

	u, err := a.api.Login(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}
	a.signedIn(u, "Logged in")
	return nil
}

func (a *App) signedIn(u *models.User, verb string) {
	a.user = u
	fmt.Fprintf(a.out, "%s as %s, public handle %q\n", verb, u.Email, u.Handle)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return a.fail(err)
	}
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.user = u
	fmt.Fprintf(a.out, "%s (handle %q, id %s)\n", u.Email, u.Handle, u.ID)
	return nil
}
