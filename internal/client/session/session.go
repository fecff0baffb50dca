// Package session keeps the bearer token of the signed-in user on disk.
//
// The server has no notion of a session beyond the token itself, so signing
// out only removes the local file. Tokens stay valid until they expire.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/rehearsal/internal/filex"
)

var ErrNoSession = errors.New("not logged in")

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// Session is what the CLI remembers between invocations.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ServerURL string    `json:"serverUrl"`
	SavedAt   time.Time `json:"savedAt"`
}

type Store struct {
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Path() string { return s.path }

// Save replaces the stored session.
func (s *Store) Save(sess Session) error {
	if sess.Token == "" {
		return errors.New("session: empty token")
	}
	if sess.SavedAt.IsZero() {
		sess.SavedAt = s.now().UTC()
	}

	if _, err := filex.EnsureParentDir(s.path, dirMode); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	return filex.WriteFileAtomic(s.path, data, fileMode)
}

// Load returns ErrNoSession when nothing has been saved yet.
func (s *Store) Load() (Session, error) {
	var sess Session

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return sess, ErrNoSession
	}
	if err != nil {
		return sess, fmt.Errorf("session: read: %w", err)
	}

	if err := json.Unmarshal(data, &sess); err != nil {
		return sess, fmt.Errorf("session: corrupt file %s: %w", s.path, err)
	}
	if sess.Token == "" {
		return sess, ErrNoSession
	}
	return sess, nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: remove: %w", err)
	}
	return nil
}
