// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureShops(ctx, db); err != nil {
		problems = append(problems, "shops: "+err.Error())
	}
	if err := ensureShopMemberships(ctx, db); err != nil {
		problems = append(problems, "shop_memberships: "+err.Error())
	}
	if err := ensureInventoryItems(ctx, db); err != nil {
		problems = append(problems, "inventory_items: "+err.Error())
	}
	if err := ensureBookings(ctx, db); err != nil {
		problems = append(problems, "bookings: "+err.Error())
	}
	if err := ensureInvites(ctx, db); err != nil {
		problems = append(problems, "invites: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameUnique(a, b *bool) bool {
	av, bv := false, false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	existing := map[string]existingIndex{} // key signature -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
	}

	var errs []string
	for _, m := range desired {
		var wantUnique *bool
		if m.Options != nil {
			wantUnique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if sameUnique(wantUnique, ex.Unique) {
				continue
			}
			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), sig, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): create failed: %v", coll.Name(), sig, err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("keys", sig),
			zap.Bool("unique", wantUnique != nil && *wantUnique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Per-collection index sets                                                  */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetName("uniq_email_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("name_ci"),
		},
	})
}

func ensureShops(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("shops"), []mongo.IndexModel{
		{
			// Shop names are unique per owner, not globally.
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_owner_name").SetUnique(true),
		},
	})
}

func ensureShopMemberships(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("shop_memberships"), []mongo.IndexModel{
		{
			// One membership per user per shop; the role is a scalar on it.
			Keys:    bson.D{{Key: "shop_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_shop_user").SetUnique(true),
		},
		{
			// Per-request membership list load for the session principal.
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("user_created"),
		},
	})
}

func ensureInventoryItems(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("inventory_items"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shop_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_shop_item_name").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "shop_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("shop_active"),
		},
	})
}

func ensureBookings(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("bookings"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shop_id", Value: 1}, {Key: "starts_at", Value: 1}},
			Options: options.Index().SetName("shop_starts"),
		},
	})
}

func ensureInvites(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("invites"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("uniq_token").SetUnique(true),
		},
		{
			// One open invite per email per shop. Accepted invites drop out
			// of the partial index so the address can be re-invited later.
			Keys: bson.D{{Key: "shop_id", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().
				SetName("uniq_pending_email").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"accepted_at": bson.M{"$exists": false}}),
		},
	})
}
