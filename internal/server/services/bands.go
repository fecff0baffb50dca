package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/dbx"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/dmitrijs2005/rehearsal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BandService owns band creation and the membership triples the
// authorization guards consult.
type BandService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewBandService(db *sql.DB, m repomanager.RepositoryManager) *BandService {
	return &BandService{db: db, repomanager: m}
}

// CreateBand stores a band and makes its creator the leader in one transaction.
func (s *BandService) CreateBand(ctx context.Context, creatorID, name string) (*models.Band, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrInvalidBand
	}

	var band *models.Band
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Bands(tx)

		b, err := repo.Create(ctx, &models.Band{Name: name, CreatedBy: creatorID})
		if err != nil {
			return fmt.Errorf("error creating band: %w", err)
		}
		if _, err := repo.AddMember(ctx, b.ID, creatorID, models.RoleLeader); err != nil {
			return fmt.Errorf("error adding leader: %w", err)
		}
		band = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return band, nil
}

// Membership returns the caller's membership in bandID, or
// common.ErrorNotFound when there is none.
func (s *BandService) Membership(ctx context.Context, bandID, userID string) (*models.BandMember, error) {
	if _, err := uuid.Parse(bandID); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Bands(s.db).FindMembership(ctx, bandID, userID)
}

func (s *BandService) ListMembers(ctx context.Context, bandID string) ([]models.Member, error) {
	members, err := s.repomanager.Bands(s.db).ListMembers(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	return members, nil
}

// AddMember adds the account registered under email to bandID. An empty
// role means member.
func (s *BandService) AddMember(ctx context.Context, bandID, email string, role models.Role) (*models.BandMember, error) {
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, common.ErrInvalidRole
	}
	if strings.TrimSpace(email) == "" {
		return nil, common.ErrInvalidUserData
	}

	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	m, err := s.repomanager.Bands(s.db).AddMember(ctx, bandID, u.ID, role)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrAlreadyMember
		}
		return nil, fmt.Errorf("error adding member: %w", err)
	}
	return m, nil
}
