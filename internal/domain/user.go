package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID                     `json:"_id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string                        `json:"name" gorm:"not null"`
	Email        string                        `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string                        `json:"-" gorm:"not null"`
	Movies       datatypes.JSONSlice[uuid.UUID] `json:"movies" gorm:"not null;default:'[]'"`
	TvShows      datatypes.JSONSlice[uuid.UUID] `json:"tvShows" gorm:"not null;default:'[]'"`
	Games        datatypes.JSONSlice[uuid.UUID] `json:"games" gorm:"not null;default:'[]'"`
	CreatedAt    time.Time                     `json:"createdAt"`
	UpdatedAt    time.Time                     `json:"updatedAt"`
}

// NewUser returns a user with empty reference lists.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Movies:       datatypes.JSONSlice[uuid.UUID]{},
		TvShows:      datatypes.JSONSlice[uuid.UUID]{},
		Games:        datatypes.JSONSlice[uuid.UUID]{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Refs returns the user's reference list for the given variant.
func (u *User) Refs(v Variant) []uuid.UUID {
	switch v {
	case VariantMovie:
		return u.Movies
	case VariantTvShow:
		return u.TvShows
	case VariantGame:
		return u.Games
	}
	return nil
}

// Identity returns the request-scoped view of the user. It never carries the
// password hash.
func (u *User) Identity() Identity {
	return Identity{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Movies:  cloneRefs(u.Movies),
		TvShows: cloneRefs(u.TvShows),
		Games:   cloneRefs(u.Games),
	}
}

// Identity is the authenticated user attached to a request by the session
// middleware and passed explicitly into the tracking operations.
type Identity struct {
	ID      uuid.UUID   `json:"_id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Movies  []uuid.UUID `json:"movies"`
	TvShows []uuid.UUID `json:"tvShows"`
	Games   []uuid.UUID `json:"games"`
}

func cloneRefs(refs []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(refs))
	copy(out, refs)
	return out
}

// RevokedToken marks a session token as logged out until it would have
// expired on its own.
type RevokedToken struct {
	TokenHash string    `json:"-" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}
