package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type trackedItemRepository struct {
	db *gorm.DB
}

func NewTrackedItemRepository(db *gorm.DB) *trackedItemRepository {
	return &trackedItemRepository{db: db}
}

func (r *trackedItemRepository) ListByIDs(ctx context.Context, variant domain.Variant, ids []uuid.UUID) ([]*domain.TrackedItem, error) {
	if len(ids) == 0 {
		return []*domain.TrackedItem{}, nil
	}

	var items []*domain.TrackedItem
	err := r.db.WithContext(ctx).
		Table(tableFor(variant)).
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return withVariant(items, variant), nil
}

func (r *trackedItemRepository) FindByCatalogID(ctx context.Context, variant domain.Variant, ids []uuid.UUID, catalogID string) (*domain.TrackedItem, error) {
	if len(ids) == 0 {
		return nil, repository.ErrNotFound
	}

	var items []*domain.TrackedItem
	err := r.db.WithContext(ctx).
		Table(tableFor(variant)).
		Where("id IN ? AND catalog_id = ?", ids, catalogID).
		Order("created_at, id").
		Limit(1).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, repository.ErrNotFound
	}
	return withVariant(items, variant)[0], nil
}

func (r *trackedItemRepository) GetByID(ctx context.Context, variant domain.Variant, id uuid.UUID) (*domain.TrackedItem, error) {
	var item domain.TrackedItem
	err := r.db.WithContext(ctx).
		Table(tableFor(variant)).
		Where("id = ?", id).
		Take(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	item.Variant = variant
	return &item, nil
}

func (r *trackedItemRepository) Track(ctx context.Context, item *domain.TrackedItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(tableFor(item.Variant)).Create(item).Error; err != nil {
			return translate(err)
		}

		column := refColumn(item.Variant)
		res := tx.Model(&domain.User{}).
			Where("id = ?", item.OwnerID).
			Updates(map[string]interface{}{
				column:       gorm.Expr(column+" || to_jsonb(?::text)", item.ID.String()),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("push %s reference: %w", item.Variant, res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *trackedItemRepository) Untrack(ctx context.Context, item *domain.TrackedItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		column := refColumn(item.Variant)
		res := tx.Model(&domain.User{}).
			Where("id = ?", item.OwnerID).
			Updates(map[string]interface{}{
				column:       gorm.Expr(column+" - ?::text", item.ID.String()),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("pull %s reference: %w", item.Variant, res.Error)
		}

		res = tx.Table(tableFor(item.Variant)).
			Where("id = ?", item.ID).
			Delete(&domain.TrackedItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *trackedItemRepository) UpdateDetails(ctx context.Context, variant domain.Variant, id uuid.UUID, details domain.ItemDetails) error {
	updates := map[string]interface{}{
		"rating":     nil,
		"status":     nil,
		"notes":      nil,
		"updated_at": time.Now(),
	}
	if details.Rating != nil {
		updates["rating"] = *details.Rating
	}
	if details.Status != nil {
		updates["status"] = string(*details.Status)
	}
	if details.Notes != nil {
		updates["notes"] = *details.Notes
	}

	res := r.db.WithContext(ctx).
		Table(tableFor(variant)).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func withVariant(items []*domain.TrackedItem, variant domain.Variant) []*domain.TrackedItem {
	for _, item := range items {
		item.Variant = variant
	}
	return items
}
