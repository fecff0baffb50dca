// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, the current-user lookup and
// profile updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/dbx"
	"github.com/dmitrijs2005/rehearsal/internal/server/auth"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/dmitrijs2005/rehearsal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenIssuer mints bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.PublicUser `json:"user"`
	Token string             `json:"token"`
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer) *UserService {
	return &UserService{db: db, repomanager: m, tokens: tokens}
}

// Register creates an account and returns it with a fresh token. A taken
// email yields common.ErrUserExists whether it is caught by the pre-check or
// by the unique index when two registrations race.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, common.ErrInvalidUserData
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrUserExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.authResult(u)
}

// Login checks credentials. Unknown email and wrong password return the same
// common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	return s.authResult(u)
}

// User loads the stored account for id. Malformed ids resolve to
// common.ErrorNotFound like absent ones.
func (s *UserService) User(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// GetCurrentUser returns the public view of the account behind userID.
func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	u, err := s.User(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u.Public(), nil
}

// UpdateProfile applies the non-empty fields of upd. The current password is
// not required. Concurrent updates are last-write-wins.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.PublicUser, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrUserNotFound
	}

	var newHash string
	if upd.Password != "" {
		h, err := auth.HashPassword(upd.Password)
		if err != nil {
			return nil, err
		}
		newHash = h
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		if upd.Email != "" && upd.Email != u.Email {
			other, err := repo.GetByEmail(ctx, upd.Email)
			switch {
			case err == nil && other.ID != u.ID:
				return common.ErrEmailInUse
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return fmt.Errorf("error searching user: %w", err)
			}
			u.Email = upd.Email
		}
		if upd.Name != "" {
			u.Name = upd.Name
		}
		if upd.ProfileImageURL != "" {
			img := upd.ProfileImageURL
			u.ProfileImageURL = &img
		}
		if newHash != "" {
			u.PasswordHash = newHash
		}

		updated, err = repo.Update(ctx, u)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrorConflict):
				return common.ErrEmailInUse
			case errors.Is(err, common.ErrorNotFound):
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error updating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated.Public(), nil
}

func (s *UserService) authResult(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &AuthResult{User: u.Public(), Token: token}, nil
}
