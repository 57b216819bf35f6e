package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/metrics"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrItemExists    = errors.New("item already tracked")
	ErrItemNotFound  = errors.New("item not tracked")
	ErrInvalidStatus = domain.ErrInvalidStatus
)

// TrackingService manages one variant's tracked items for the calling user.
// One instance exists per variant.
type TrackingService struct {
	variant  domain.Variant
	userRepo repository.UserRepository
	itemRepo repository.TrackedItemRepository
}

func NewTrackingService(variant domain.Variant, userRepo repository.UserRepository, itemRepo repository.TrackedItemRepository) *TrackingService {
	return &TrackingService{
		variant:  variant,
		userRepo: userRepo,
		itemRepo: itemRepo,
	}
}

func (s *TrackingService) Variant() domain.Variant {
	return s.variant
}

// UpdateInput carries the new details of an item. The update overwrites all
// three fields; a nil value clears the field.
type UpdateInput struct {
	Rating *float64 `json:"rating"`
	Status *string  `json:"status"`
	Notes  *string  `json:"notes"`
}

// refs reads the caller's current reference list from the store rather than
// the identity snapshot, so writes made earlier in the request are visible.
func (s *TrackingService) refs(ctx context.Context, identity domain.Identity) (uuid.UUID, []uuid.UUID, error) {
	user, err := s.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, nil, ErrUserNotFound
		}
		return uuid.Nil, nil, fmt.Errorf("load user: %w", err)
	}
	return user.ID, user.Refs(s.variant), nil
}

// List expands the reference list into items, keeping reference order.
// References whose item no longer exists are skipped.
func (s *TrackingService) List(ctx context.Context, identity domain.Identity, page *Pagination) ([]*domain.TrackedItem, error) {
	_, refs, err := s.refs(ctx, identity)
	if err != nil {
		return nil, err
	}

	found, err := s.itemRepo.ListByIDs(ctx, s.variant, refs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.variant, err)
	}

	byID := make(map[uuid.UUID]*domain.TrackedItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	items := make([]*domain.TrackedItem, 0, len(refs))
	for _, id := range refs {
		if item, ok := byID[id]; ok {
			items = append(items, item)
		}
	}

	return Paginate(items, page), nil
}

// Get returns the caller's item for catalogID.
func (s *TrackingService) Get(ctx context.Context, identity domain.Identity, catalogID string) (*domain.TrackedItem, error) {
	_, refs, err := s.refs(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, refs, catalogID)
}

func (s *TrackingService) find(ctx context.Context, refs []uuid.UUID, catalogID string) (*domain.TrackedItem, error) {
	if len(refs) == 0 {
		return nil, ErrItemNotFound
	}
	item, err := s.itemRepo.FindByCatalogID(ctx, s.variant, refs, catalogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("find %s: %w", s.variant, err)
	}
	return item, nil
}

// IsTracking reports whether the caller tracks catalogID.
func (s *TrackingService) IsTracking(ctx context.Context, identity domain.Identity, catalogID string) (bool, error) {
	_, err := s.Get(ctx, identity, catalogID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrItemNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Add starts tracking catalogID with no rating, status or notes.
func (s *TrackingService) Add(ctx context.Context, identity domain.Identity, catalogID string) (*domain.TrackedItem, error) {
	ownerID, refs, err := s.refs(ctx, identity)
	if err != nil {
		return nil, err
	}

	if _, err := s.find(ctx, refs, catalogID); err == nil {
		return nil, ErrItemExists
	} else if !errors.Is(err, ErrItemNotFound) {
		return nil, err
	}

	item := domain.NewTrackedItem(s.variant, ownerID, catalogID)
	if err := s.itemRepo.Track(ctx, item); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrItemExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("track %s: %w", s.variant, err)
	}

	metrics.RecordMutation(s.variant.String(), "add")
	return item, nil
}

// Update overwrites the details of the caller's item and returns the stored
// result.
func (s *TrackingService) Update(ctx context.Context, identity domain.Identity, catalogID string, input UpdateInput) (*domain.TrackedItem, error) {
	_, refs, err := s.refs(ctx, identity)
	if err != nil {
		return nil, err
	}

	item, err := s.find(ctx, refs, catalogID)
	if err != nil {
		return nil, err
	}

	details := domain.ItemDetails{Rating: input.Rating, Notes: input.Notes}
	if input.Status != nil {
		status := domain.Status(*input.Status)
		if !s.variant.AllowsStatus(status) {
			return nil, ErrInvalidStatus
		}
		details.Status = &status
	}

	if err := s.itemRepo.UpdateDetails(ctx, s.variant, item.ID, details); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("update %s: %w", s.variant, err)
	}

	updated, err := s.itemRepo.GetByID(ctx, s.variant, item.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("reload %s: %w", s.variant, err)
	}

	metrics.RecordMutation(s.variant.String(), "update")
	return updated, nil
}

// Delete stops tracking catalogID.
func (s *TrackingService) Delete(ctx context.Context, identity domain.Identity, catalogID string) error {
	_, refs, err := s.refs(ctx, identity)
	if err != nil {
		return err
	}

	item, err := s.find(ctx, refs, catalogID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Untrack(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("untrack %s: %w", s.variant, err)
	}

	metrics.RecordMutation(s.variant.String(), "delete")
	return nil
}
