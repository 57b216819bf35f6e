package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrackedItem is one catalog entry a user tracks. Movies, tv shows and games
// share this shape but live in separate collections; Variant says which.
type TrackedItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null"`
	Variant   Variant   `gorm:"-"`
	CatalogID string    `gorm:"not null"`
	Rating    *float64
	Status    *Status
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTrackedItem returns an item with only the catalog id set.
func NewTrackedItem(v Variant, ownerID uuid.UUID, catalogID string) *TrackedItem {
	now := time.Now()
	return &TrackedItem{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Variant:   v,
		CatalogID: catalogID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ItemDetails is the user-editable part of a tracked item. A nil field is
// stored as unset.
type ItemDetails struct {
	Rating *float64
	Status *Status
	Notes  *string
}

// Details returns the current user-editable fields.
func (i *TrackedItem) Details() ItemDetails {
	return ItemDetails{Rating: i.Rating, Status: i.Status, Notes: i.Notes}
}
