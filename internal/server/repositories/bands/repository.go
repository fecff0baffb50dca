// Package bands persists bands and their membership triples.
package bands

import (
	"context"

	"github.com/dmitrijs2005/rehearsal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, band *models.Band) (*models.Band, error)
	AddMember(ctx context.Context, bandID, userID string, role models.Role) (*models.BandMember, error)
	FindMembership(ctx context.Context, bandID, userID string) (*models.BandMember, error)
	ListMembers(ctx context.Context, bandID string) ([]models.Member, error)
}
