package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/google/uuid"
)

// Storage-independent errors. Backends translate their driver errors into
// these so services never import a driver.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TrackedItemRepository stores the per-variant item collections together
// with the owning user's reference lists.
type TrackedItemRepository interface {
	// ListByIDs returns the items of the variant whose id is in ids. Unknown
	// ids are skipped; order is unspecified.
	ListByIDs(ctx context.Context, variant domain.Variant, ids []uuid.UUID) ([]*domain.TrackedItem, error)
	// FindByCatalogID returns the oldest item among ids carrying catalogID.
	FindByCatalogID(ctx context.Context, variant domain.Variant, ids []uuid.UUID, catalogID string) (*domain.TrackedItem, error)
	GetByID(ctx context.Context, variant domain.Variant, id uuid.UUID) (*domain.TrackedItem, error)
	// Track inserts the item and appends its id to the owner's reference list.
	Track(ctx context.Context, item *domain.TrackedItem) error
	// Untrack removes the item id from the owner's reference list and deletes
	// the item.
	Untrack(ctx context.Context, item *domain.TrackedItem) error
	// UpdateDetails overwrites rating, status and notes; nil fields are unset.
	UpdateDetails(ctx context.Context, variant domain.Variant, id uuid.UUID, details domain.ItemDetails) error
}

type RevokedTokenRepository interface {
	Revoke(ctx context.Context, token *domain.RevokedToken) error
	IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type Repositories struct {
	User         UserRepository
	TrackedItem  TrackedItemRepository
	RevokedToken RevokedTokenRepository
}
