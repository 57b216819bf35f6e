package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/logging"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TrackedItemRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

func NewTrackedItemRepository(db *mongo.Database) *TrackedItemRepository {
	return &TrackedItemRepository{db: db, users: db.Collection(usersCollection)}
}

func (r *TrackedItemRepository) items(v domain.Variant) *mongo.Collection {
	return r.db.Collection(collectionFor(v))
}

func (r *TrackedItemRepository) ListByIDs(ctx context.Context, variant domain.Variant, ids []uuid.UUID) ([]*domain.TrackedItem, error) {
	if len(ids) == 0 {
		return []*domain.TrackedItem{}, nil
	}

	cursor, err := r.items(variant).Find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]*domain.TrackedItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain(variant))
	}
	return items, nil
}

func (r *TrackedItemRepository) FindByCatalogID(ctx context.Context, variant domain.Variant, ids []uuid.UUID, catalogID string) (*domain.TrackedItem, error) {
	if len(ids) == 0 {
		return nil, repository.ErrNotFound
	}

	filter := bson.M{
		"_id":       bson.M{"$in": idStrings(ids)},
		"catalogId": catalogID,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	var doc itemDocument
	if err := r.items(variant).FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(variant), nil
}

func (r *TrackedItemRepository) GetByID(ctx context.Context, variant domain.Variant, id uuid.UUID) (*domain.TrackedItem, error) {
	var doc itemDocument
	if err := r.items(variant).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toDomain(variant), nil
}

// Track inserts the item and pushes its id onto the owner. If the push fails
// the inserted item is removed again so no orphan is left behind.
func (r *TrackedItemRepository) Track(ctx context.Context, item *domain.TrackedItem) error {
	if _, err := r.items(item.Variant).InsertOne(ctx, fromItem(item)); err != nil {
		return translate(err)
	}

	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": item.OwnerID.String()},
		bson.M{
			"$push": bson.M{refField(item.Variant): item.ID.String()},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err == nil && res.MatchedCount == 0 {
		err = repository.ErrNotFound
	}
	if err != nil {
		r.compensate(item)
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("push %s reference: %w", item.Variant, err)
	}
	return nil
}

// compensate runs on a fresh context: the request context may be the reason
// the push failed.
func (r *TrackedItemRepository) compensate(item *domain.TrackedItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.items(item.Variant).DeleteOne(ctx, bson.M{"_id": item.ID.String()}); err != nil {
		logging.Error().Err(err).
			Str("variant", item.Variant.String()).
			Str("item_id", item.ID.String()).
			Msg("failed to remove orphaned tracked item")
	}
}

func (r *TrackedItemRepository) Untrack(ctx context.Context, item *domain.TrackedItem) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": item.OwnerID.String()},
		bson.M{
			"$pull": bson.M{refField(item.Variant): item.ID.String()},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("pull %s reference: %w", item.Variant, err)
	}

	res, err := r.items(item.Variant).DeleteOne(ctx, bson.M{"_id": item.ID.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TrackedItemRepository) UpdateDetails(ctx context.Context, variant domain.Variant, id uuid.UUID, details domain.ItemDetails) error {
	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}

	if details.Rating != nil {
		set["rating"] = *details.Rating
	} else {
		unset["rating"] = ""
	}
	if details.Status != nil {
		set["status"] = string(*details.Status)
	} else {
		unset["status"] = ""
	}
	if details.Notes != nil {
		set["notes"] = *details.Notes
	} else {
		unset["notes"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.items(variant).UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
