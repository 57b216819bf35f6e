// Package mongodb stores users, tracked items and revoked tokens in MongoDB.
// A user document holds one array of item ids per variant and every variant
// has its own collection.
//
// MongoDB only offers multi-document transactions on replica sets, so the
// two-step writes use unique indexes plus compensating deletes instead.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	revokedTokensCollection = "revokedtokens"
)

type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewConnection connects, pings and makes sure the indexes exist.
func NewConnection(ctx context.Context, uri, name string) (*Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	d := &Database{client: client, db: client.Database(name)}
	if err := d.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return d, nil
}

// EnsureIndexes creates the unique email index, the unique (owner, catalog id)
// index on every item collection and the TTL index on revoked tokens.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	for _, v := range domain.AllVariants {
		_, err := d.db.Collection(collectionFor(v)).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "catalogId", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("%s index: %w", collectionFor(v), err)
		}
	}

	_, err = d.db.Collection(revokedTokensCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("revoked tokens index: %w", err)
	}
	return nil
}

func (d *Database) DB() *mongo.Database {
	return d.db
}

func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func NewRepositories(d *Database) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(d.db),
		TrackedItem:  NewTrackedItemRepository(d.db),
		RevokedToken: NewRevokedTokenRepository(d.db),
	}
}

func collectionFor(v domain.Variant) string {
	switch v {
	case domain.VariantMovie:
		return "movies"
	case domain.VariantTvShow:
		return "tvshows"
	case domain.VariantGame:
		return "games"
	}
	return ""
}

// refField is the user document array holding references of the variant.
func refField(v domain.Variant) string {
	return v.ListKey()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}
