package mongodb

import (
	"context"
	"time"

	"github.com/dom/media-tracker/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RevokedTokenRepository struct {
	tokens *mongo.Collection
}

func NewRevokedTokenRepository(db *mongo.Database) *RevokedTokenRepository {
	return &RevokedTokenRepository{tokens: db.Collection(revokedTokensCollection)}
}

func (r *RevokedTokenRepository) Revoke(ctx context.Context, token *domain.RevokedToken) error {
	_, err := r.tokens.UpdateOne(ctx,
		bson.M{"_id": token.TokenHash},
		bson.M{"$setOnInsert": bson.M{
			"userId":    token.UserID.String(),
			"expiresAt": token.ExpiresAt,
			"createdAt": token.CreatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	n, err := r.tokens.CountDocuments(ctx, bson.M{
		"_id":       tokenHash,
		"expiresAt": bson.M{"$gt": now},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteExpired complements the TTL index, whose monitor only runs once a
// minute.
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.tokens.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": before}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
