package bands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rehearsal/internal/common"
	"github.com/dmitrijs2005/rehearsal/internal/dbx"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, band *models.Band) (*models.Band, error) {
	query :=
		`INSERT INTO bands (id, name, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	id := uuid.NewString()
	if err := r.db.QueryRowContext(ctx, query, id, band.Name, band.CreatedBy).Scan(&band.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	band.ID = id
	return band, nil
}

// AddMember inserts the (band, user, role) triple. An existing triple for the
// same band and user yields common.ErrorConflict.
func (r *PostgresRepository) AddMember(ctx context.Context, bandID, userID string, role models.Role) (*models.BandMember, error) {
	query :=
		`INSERT INTO band_members (band_id, user_id, role)
		 VALUES ($1, $2, $3)
		 RETURNING joined_at
		 `

	m := &models.BandMember{BandID: bandID, UserID: userID, Role: role}
	if err := r.db.QueryRowContext(ctx, query, bandID, userID, string(role)).Scan(&m.JoinedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) FindMembership(ctx context.Context, bandID, userID string) (*models.BandMember, error) {
	query :=
		`SELECT band_id, user_id, role, joined_at FROM band_members
		 WHERE band_id = $1 AND user_id = $2
		 `

	m := &models.BandMember{}
	var role string
	err := r.db.QueryRowContext(ctx, query, bandID, userID).Scan(&m.BandID, &m.UserID, &role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	m.Role = models.Role(role)
	return m, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, bandID string) ([]models.Member, error) {
	query :=
		`SELECT u.id, u.name, u.email, m.role, m.joined_at
		 FROM band_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.band_id = $1
		 ORDER BY m.joined_at
		 `

	rows, err := r.db.QueryContext(ctx, query, bandID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var m models.Member
		var role string
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return members, nil
}
