package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rehearsal/internal/client/session"
)

// Register prompts for a name, email and password, creates the account and
// stores the returned token.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	res, err := a.client.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}
	if err := a.saveSession(res); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and logged in as %s\n", res.User.Email)
	return nil
}

// Login prompts for credentials and stores the returned token.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	if err := a.saveSession(res); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", res.User.Email)
	return nil
}

// Logout forgets the stored token. Nothing is sent to the server.
func (a *App) Logout(context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status reports server reachability and the stored identity.
func (a *App) Status(ctx context.Context) error {
	if err := a.client.Health(ctx); err != nil {
		return fmt.Errorf("server %s: %w", a.config.ServerURL, err)
	}
	fmt.Fprintf(a.out, "Server %s is up\n", a.config.ServerURL)

	sess, err := a.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s since %s\n", sess.Email, sess.SavedAt.Format("2006-01-02 15:04"))
	return nil
}
