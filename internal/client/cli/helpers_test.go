package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/rehearsal/internal/client/api"
	"github.com/dmitrijs2005/rehearsal/internal/client/config"
	"github.com/dmitrijs2005/rehearsal/internal/client/session"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, h http.Handler) (*App, *bytes.Buffer) {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		ServerURL:      ts.URL,
		SessionFile:    filepath.Join(t.TempDir(), "session.json"),
		RequestTimeout: 5 * time.Second,
	}

	var out bytes.Buffer
	return &App{
		config: cfg,
		client: api.NewClient(cfg.ServerURL, cfg.RequestTimeout),
		store:  session.NewStore(cfg.SessionFile),
		reader: bufio.NewReader(strings.NewReader("")),
		out:    &out,
	}, &out
}

func loginAs(t *testing.T, a *App, token, email string) {
	t.Helper()
	require.NoError(t, a.store.Save(session.Session{Token: token, UserID: "u1", Email: email}))
}

// stubAnswers makes getSimpleText return answers in order.
func stubAnswers(t *testing.T, answers ...string) *[]string {
	t.Helper()
	prompts := &[]string{}
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		*prompts = append(*prompts, prompt)
		if len(answers) == 0 {
			return "", io.EOF
		}
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
	return prompts
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(string, io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func stubConfirmation(t *testing.T, yes bool) {
	t.Helper()
	orig := getConfirmation
	getConfirmation = func(*bufio.Reader, string, io.Writer) (bool, error) { return yes, nil }
	t.Cleanup(func() { getConfirmation = orig })
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func userJSON(name, email string) map[string]any {
	return map[string]any{
		"id":        "u1",
		"name":      name,
		"email":     email,
		"createdAt": "2025-01-02T03:04:05Z",
		"updatedAt": "2025-01-02T03:04:05Z",
	}
}

func authResultJSON(name, email, token string) map[string]any {
	return map[string]any{"user": userJSON(name, email), "token": token}
}
