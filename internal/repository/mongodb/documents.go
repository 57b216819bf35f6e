package mongodb

import (
	"time"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type userDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	Movies    []string  `bson:"movies"`
	TvShows   []string  `bson:"tvShows"`
	Games     []string  `bson:"games"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type itemDocument struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"ownerId"`
	CatalogID string    `bson:"catalogId"`
	Rating    *float64  `bson:"rating,omitempty"`
	Status    *string   `bson:"status,omitempty"`
	Notes     *string   `bson:"notes,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func fromUser(u *domain.User) userDocument {
	return userDocument{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Movies:    idStrings(u.Movies),
		TvShows:   idStrings(u.TvShows),
		Games:     idStrings(u.Games),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d userDocument) toDomain() *domain.User {
	id, _ := uuid.Parse(d.ID)
	return &domain.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Movies:       parseIDs(d.Movies),
		TvShows:      parseIDs(d.TvShows),
		Games:        parseIDs(d.Games),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func fromItem(i *domain.TrackedItem) itemDocument {
	doc := itemDocument{
		ID:        i.ID.String(),
		OwnerID:   i.OwnerID.String(),
		CatalogID: i.CatalogID,
		Rating:    i.Rating,
		Notes:     i.Notes,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
	if i.Status != nil {
		s := string(*i.Status)
		doc.Status = &s
	}
	return doc
}

func (d itemDocument) toDomain(v domain.Variant) *domain.TrackedItem {
	id, _ := uuid.Parse(d.ID)
	ownerID, _ := uuid.Parse(d.OwnerID)
	item := &domain.TrackedItem{
		ID:        id,
		OwnerID:   ownerID,
		Variant:   v,
		CatalogID: d.CatalogID,
		Rating:    d.Rating,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Status != nil {
		s := domain.Status(*d.Status)
		item.Status = &s
	}
	return item
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// parseIDs drops malformed ids rather than failing the whole document.
func parseIDs(ids []string) datatypes.JSONSlice[uuid.UUID] {
	out := make(datatypes.JSONSlice[uuid.UUID], 0, len(ids))
	for _, s := range ids {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
