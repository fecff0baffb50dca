package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/rehearsal/internal/client/api"
	"github.com/dmitrijs2005/rehearsal/internal/client/config"
	"github.com/dmitrijs2005/rehearsal/internal/client/session"
	"github.com/dmitrijs2005/rehearsal/internal/flagx"
)

// ErrNotLoggedIn is returned by commands that need a stored session.
var ErrNotLoggedIn = errors.New("not logged in, run 'login' first")

// valueFlags are the client flags that take an argument.
var valueFlags = []string{"-s", "-f", "-t", "-c", "-config", "--config"}

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

type App struct {
	config *config.Config
	client *api.Client
	store  *session.Store
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.NewClient(c.ServerURL, c.RequestTimeout),
		store:  session.NewStore(c.SessionFile),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Run executes the command found in args (flags stripped) or, when there is
// none, starts the interactive REPL.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd := flagx.Positional(args, valueFlags)
	if len(cmd) == 0 {
		fmt.Fprintln(a.out, "Welcome to the rehearsal CLI (type 'help' for commands)")
		runREPL(ctx, a, a.status, a.reader)
		return nil
	}

	err := dispatch(ctx, a, cmd[0], cmd[1:])
	if errors.Is(err, errUnknownCommand) {
		fmt.Fprintln(a.out, usage(a.isLoggedIn()))
	}
	return err
}

func (a *App) isLoggedIn() bool {
	_, err := a.store.Load()
	return err == nil
}

func (a *App) status() string {
	sess, err := a.store.Load()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(%s)", sess.Email)
}

// authed returns a client carrying the stored bearer token.
func (a *App) authed() (*api.Client, session.Session, error) {
	sess, err := a.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil, sess, ErrNotLoggedIn
	}
	if err != nil {
		return nil, sess, err
	}
	return a.client.WithToken(sess.Token), sess, nil
}

// checkAuth drops the stored session when the server no longer accepts it.
func (a *App) checkAuth(err error) error {
	if api.StatusOf(err) != http.StatusUnauthorized {
		return err
	}
	if clearErr := a.store.Clear(); clearErr != nil {
		return errors.Join(err, clearErr)
	}
	return fmt.Errorf("session expired, please log in again: %w", err)
}

func (a *App) saveSession(res *api.AuthResult) error {
	return a.store.Save(session.Session{
		Token:     res.Token,
		UserID:    res.User.ID,
		Email:     res.User.Email,
		ServerURL: a.config.ServerURL,
	})
}
