package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/identity-store/internal/core/domain"
)

// EnsureAccountIndexes creates the lookup indexes the account scans rely on.
func EnsureAccountIndexes(ctx context.Context, col *mongo.Collection) error {
	return ensureIndexes(ctx, col, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: domain.FieldNormalizedUserName, Value: 1}},
			Options: options.Index().SetName("normalized_user_name"),
		},
		{
			Keys:    bson.D{{Key: domain.FieldNormalizedEmail, Value: 1}},
			Options: options.Index().SetName("normalized_email").SetSparse(true),
		},
		{
			Keys: bson.D{
				{Key: domain.FieldLogins + "." + domain.FieldLoginProvider, Value: 1},
				{Key: domain.FieldLogins + "." + domain.FieldLoginProviderKey, Value: 1},
			},
			Options: options.Index().SetName("logins"),
		},
		{
			Keys: bson.D{
				{Key: domain.FieldClaims + "." + domain.FieldClaimType, Value: 1},
				{Key: domain.FieldClaims + "." + domain.FieldClaimValue, Value: 1},
			},
			Options: options.Index().SetName("claims"),
		},
		{
			Keys:    bson.D{{Key: domain.FieldRoles, Value: 1}},
			Options: options.Index().SetName("roles"),
		},
	})
}

// EnsureRoleIndexes creates the name index for role lookups.
func EnsureRoleIndexes(ctx context.Context, col *mongo.Collection) error {
	return ensureIndexes(ctx, col, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: domain.FieldNormalizedName, Value: 1}},
			Options: options.Index().SetName("normalized_name"),
		},
	})
}

func ensureIndexes(ctx context.Context, col *mongo.Collection, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo create indexes on %s: %w", col.Name(), err)
	}
	return nil
}
