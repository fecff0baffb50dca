package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/dbx"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/dmitrijs2005/rehearsal/internal/server/repositories/bands"
	"github.com/dmitrijs2005/rehearsal/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byID map[string]*models.User

	getByEmailErr error
	getByIDErr    error
	createErr     error
	updateErr     error
}

func newFakeUsers(seed ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range seed {
		c := *u
		f.byID[u.ID] = &c
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	c := *u
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	for id, existing := range f.byID {
		if id != u.ID && existing.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	c := *u
	c.UpdatedAt = time.Now()
	f.byID[u.ID] = &c
	out := c
	return &out, nil
}

type fakeBandsRepo struct {
	bands   map[string]*models.Band
	members map[string]map[string]models.Role

	createErr error
	addErr    error
	findErr   error
	listErr   error
}

func newFakeBands() *fakeBandsRepo {
	return &fakeBandsRepo{bands: map[string]*models.Band{}, members: map[string]map[string]models.Role{}}
}

func (f *fakeBandsRepo) Create(ctx context.Context, b *models.Band) (*models.Band, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *b
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	f.bands[c.ID] = &c
	return &c, nil
}

func (f *fakeBandsRepo) AddMember(ctx context.Context, bandID, userID string, role models.Role) (*models.BandMember, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	if f.members[bandID] == nil {
		f.members[bandID] = map[string]models.Role{}
	}
	if _, ok := f.members[bandID][userID]; ok {
		return nil, common.ErrorConflict
	}
	f.members[bandID][userID] = role
	return &models.BandMember{BandID: bandID, UserID: userID, Role: role, JoinedAt: time.Now()}, nil
}

func (f *fakeBandsRepo) FindMembership(ctx context.Context, bandID, userID string) (*models.BandMember, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	role, ok := f.members[bandID][userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.BandMember{BandID: bandID, UserID: userID, Role: role}, nil
}

func (f *fakeBandsRepo) ListMembers(ctx context.Context, bandID string) ([]models.Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Member, 0, len(f.members[bandID]))
	for id, role := range f.members[bandID] {
		out = append(out, models.Member{UserID: id, Role: role})
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	b *fakeBandsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *fakeRepoManager) Bands(db dbx.DBTX) bands.Repository          { return m.b }

type fakeTokens struct {
	n   int
	err error
}

func (f *fakeTokens) Issue(userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.n++
	return fmt.Sprintf("tok-%s-%d", userID, f.n), nil
}
