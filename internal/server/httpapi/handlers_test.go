package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/dmitrijs2005/rehearsal/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()
	env.users.registerRes = &services.AuthResult{
		User:  &models.PublicUser{ID: "u-new", Name: "Carol", Email: "c@x.com", CreatedAt: now, UpdatedAt: now},
		Token: "signed",
	}

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", registerRequest{Name: "Carol", Email: "c@x.com", Password: "pw"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"Carol", "c@x.com", "pw"}, env.users.lastRegister)

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "signed", body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "u-new", user["id"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestRegister_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		body    string
		status  int
		message string
	}{
		{"duplicate", common.ErrUserExists, `{"name":"A","email":"a@x.com","password":"pw"}`, http.StatusBadRequest, "User already exists"},
		{"invalid", common.ErrInvalidUserData, `{"email":"a@x.com"}`, http.StatusBadRequest, "Invalid user data"},
		{"malformed", nil, `{"name":`, http.StatusBadRequest, "Malformed request body"},
		{"store down", errors.New("db down"), `{"name":"A","email":"a@x.com","password":"pw"}`, http.StatusInternalServerError, internalErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.users.registerErr = tt.err

			rec := env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, message(t, rec))
		})
	}
}

func TestRegister_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t)

	big := `{"name":"` + strings.Repeat("x", maxBodyBytes+10) + `"}`
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.users.loginRes = &services.AuthResult{User: env.users.users[aliceID].Public(), Token: "t"}

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "a@x.com", Password: "pw"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t", decodeBody[map[string]any](t, rec)["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.users.loginErr = common.ErrInvalidCredentials

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "ghost@x.com", Password: "pw"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, rec.Body.String())
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/me", env.token(t, aliceID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[models.PublicUser](t, rec)
	assert.Equal(t, aliceID, got.ID)
	assert.Equal(t, "a@x.com", got.Email)

	rec = env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_UserVanishedAfterAuth(t *testing.T) {
	env := newTestEnv(t)
	env.users.currentErr = common.ErrUserNotFound

	rec := env.do(t, http.MethodGet, "/api/auth/me", env.token(t, aliceID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", message(t, rec))
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/auth/profile", env.token(t, aliceID),
		updateProfileRequest{Name: "A2", Password: "new", ProfileImageURL: "https://img/1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A2", decodeBody[models.PublicUser](t, rec).Name)
	assert.Equal(t, models.ProfileUpdate{Name: "A2", Password: "new", ProfileImageURL: "https://img/1"}, env.users.lastUpdate)
}

func TestUpdateProfile_EmailInUse(t *testing.T) {
	env := newTestEnv(t)
	env.users.updateErr = common.ErrEmailInUse

	rec := env.do(t, http.MethodPut, "/api/auth/profile", env.token(t, bobID), updateProfileRequest{Email: "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already in use", message(t, rec))
}

func TestProfileImage(t *testing.T) {
	env := newTestEnv(t)
	env.images.res = &services.ProfileImageUpload{UploadURL: "https://s3/put?sig", ProfileImageURL: "https://s3/obj"}

	rec := env.do(t, http.MethodPost, "/api/auth/profile/image", env.token(t, aliceID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"uploadUrl":"https://s3/put?sig","profileImageUrl":"https://s3/obj"}`, rec.Body.String())

	env.images.err = common.ErrStorageDisabled
	rec = env.do(t, http.MethodPost, "/api/auth/profile/image", env.token(t, aliceID), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Image storage is not configured", message(t, rec))
}

func TestBandRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bands", env.token(t, bobID), createBandRequest{Name: "New"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, bobID, decodeBody[models.Band](t, rec).CreatedBy)

	rec = env.do(t, http.MethodGet, "/api/bands/"+bandID+"/members", env.token(t, bobID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Member](t, rec), 2)

	rec = env.do(t, http.MethodPost, "/api/bands/"+bandID+"/members", env.token(t, bobID), addMemberRequest{Email: "c@x.com"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, env.bands.lastAdd)

	rec = env.do(t, http.MethodPost, "/api/bands/"+bandID+"/members", env.token(t, aliceID), addMemberRequest{Email: "c@x.com", Role: models.RoleAdmin})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{bandID, "c@x.com", "admin"}, env.bands.lastAdd)

	env.bands.addErr = common.ErrInvalidRole
	rec = env.do(t, http.MethodPost, "/api/bands/"+bandID+"/members", env.token(t, aliceID), addMemberRequest{Email: "c@x.com", Role: "owner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid role", message(t, rec))
}

func TestBandRoutes_NonMemberForbidden(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/bands/55555555-5555-5555-5555-555555555555/members", env.token(t, aliceID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", message(t, rec))

	for _, tc := range []struct{ method, path string }{
		{http.MethodDelete, "/api/auth/login"},
		{http.MethodPost, "/api/auth/me"},
		{http.MethodGet, "/api/bands"},
		{http.MethodDelete, "/api/bands/" + bandID + "/members"},
		{http.MethodPost, "/health"},
	} {
		rec = env.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Method not allowed", message(t, rec), "%s %s", tc.method, tc.path)
	}
}
