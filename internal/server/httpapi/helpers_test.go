package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/logging"
	"github.com/dmitrijs2005/rehearsal/internal/server/auth"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/dmitrijs2005/rehearsal/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	users map[string]*models.User

	registerRes *services.AuthResult
	registerErr error
	loginRes    *services.AuthResult
	loginErr    error
	userErr     error
	currentErr  error
	updateErr   error

	lastRegister []string
	lastUpdate   models.ProfileUpdate
}

func (f *fakeUserService) Register(ctx context.Context, name, email, password string) (*services.AuthResult, error) {
	f.lastRegister = []string{name, email, password}
	return f.registerRes, f.registerErr
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeUserService) User(ctx context.Context, id string) (*models.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUserService) GetCurrentUser(ctx context.Context, id string) (*models.PublicUser, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return u.Public(), nil
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.PublicUser, error) {
	f.lastUpdate = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u := f.users[id]
	if upd.Name != "" {
		u.Name = upd.Name
	}
	return u.Public(), nil
}

type fakeBandService struct {
	roles map[string]map[string]models.Role

	membershipErr error
	createErr     error
	addErr        error

	lastAdd []string
}

func (f *fakeBandService) CreateBand(ctx context.Context, creatorID, name string) (*models.Band, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Band{ID: "b-new", Name: name, CreatedBy: creatorID}, nil
}

func (f *fakeBandService) Membership(ctx context.Context, bandID, userID string) (*models.BandMember, error) {
	if f.membershipErr != nil {
		return nil, f.membershipErr
	}
	role, ok := f.roles[bandID][userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.BandMember{BandID: bandID, UserID: userID, Role: role}, nil
}

func (f *fakeBandService) ListMembers(ctx context.Context, bandID string) ([]models.Member, error) {
	out := []models.Member{}
	for id, role := range f.roles[bandID] {
		out = append(out, models.Member{UserID: id, Role: role})
	}
	return out, nil
}

func (f *fakeBandService) AddMember(ctx context.Context, bandID, email string, role models.Role) (*models.BandMember, error) {
	f.lastAdd = []string{bandID, email, string(role)}
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &models.BandMember{BandID: bandID, UserID: "u-added", Role: role}, nil
}

type fakeImageService struct {
	res *services.ProfileImageUpload
	err error
}

func (f *fakeImageService) PresignProfileImage(ctx context.Context, userID string) (*services.ProfileImageUpload, error) {
	return f.res, f.err
}

type testEnv struct {
	api     *API
	users   *fakeUserService
	bands   *fakeBandService
	images  *fakeImageService
	tokens  *auth.TokenManager
	handler http.Handler
}

const (
	aliceID = "11111111-1111-1111-1111-111111111111"
	bobID   = "22222222-2222-2222-2222-222222222222"
	bandID  = "33333333-3333-3333-3333-333333333333"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	env := &testEnv{
		users: &fakeUserService{users: map[string]*models.User{
			aliceID: {ID: aliceID, Name: "Alice", Email: "a@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now},
			bobID:   {ID: bobID, Name: "Bob", Email: "b@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now},
		}},
		bands: &fakeBandService{roles: map[string]map[string]models.Role{
			bandID: {aliceID: models.RoleLeader, bobID: models.RoleMember},
		}},
		images: &fakeImageService{},
		tokens: auth.NewTokenManager([]byte("test-secret"), time.Hour),
	}
	env.api = NewAPI(env.users, env.bands, env.images, env.tokens, logging.Nop())
	env.handler = env.api.Routes(RouterOptions{Metrics: NewMetrics(prometheus.NewRegistry())})
	return env
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := e.tokens.Issue(userID)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[messageResponse](t, rec).Message
}
