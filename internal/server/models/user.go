// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	ProfileImageURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PublicUser is the client-facing projection of User.
type PublicUser struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Public strips secrets from u.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ProfileUpdate holds the fields a user may change. Empty strings leave the
// stored value untouched.
type ProfileUpdate struct {
	Name            string
	Email           string
	Password        string
	ProfileImageURL string
}
