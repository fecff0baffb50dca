package httpapi

import (
	"context"

	"github.com/dmitrijs2005/rehearsal/internal/logging"
	"github.com/dmitrijs2005/rehearsal/internal/server/models"
	"github.com/dmitrijs2005/rehearsal/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	User(ctx context.Context, id string) (*models.User, error)
	GetCurrentUser(ctx context.Context, userID string) (*models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.PublicUser, error)
}

type BandService interface {
	CreateBand(ctx context.Context, creatorID, name string) (*models.Band, error)
	Membership(ctx context.Context, bandID, userID string) (*models.BandMember, error)
	ListMembers(ctx context.Context, bandID string) ([]models.Member, error)
	AddMember(ctx context.Context, bandID, email string, role models.Role) (*models.BandMember, error)
}

type ImageService interface {
	PresignProfileImage(ctx context.Context, userID string) (*services.ProfileImageUpload, error)
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// API bundles the handler dependencies.
type API struct {
	users  UserService
	bands  BandService
	images ImageService
	tokens TokenVerifier
	log    logging.Logger
}

func NewAPI(users UserService, bands BandService, images ImageService, tokens TokenVerifier, log logging.Logger) *API {
	return &API{users: users, bands: bands, images: images, tokens: tokens, log: log}
}
