// AngelaMos | 2026
// repository_mongo.go

package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

const usersCollection = "users"

// userDocument keeps the field names of the existing users collection, so
// accounts created by earlier deployments (bcrypt hash under "password") load
// unchanged. Those documents carry no deletedAt at all; backfillLegacy gives
// them an explicit null so the live-email index covers them.
type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
	DeletedAt    *time.Time         `bson:"deletedAt"`
}

func (d *userDocument) toUser() User {
	role, err := core.ParseRole(d.Role)
	if err != nil {
		role = core.Role(d.Role)
	}

	return User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		DeletedAt:    d.DeletedAt,
	}
}

type mongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository returns the Mongo-backed store and makes sure the email
// index exists. Uniqueness only covers live accounts.
func NewMongoRepository(
	ctx context.Context,
	db *mongo.Database,
) (Repository, error) {
	collection := db.Collection(usersCollection)

	if err := backfillLegacy(ctx, collection); err != nil {
		return nil, err
	}

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_live_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"deletedAt": bson.M{"$type": "null"},
			}),
	})
	if err != nil {
		return nil, fmt.Errorf("create users index: %w", err)
	}

	return &mongoRepository{collection: collection}, nil
}

// backfillLegacy normalizes documents written before soft delete existed:
// a missing deletedAt becomes null and emails are lower-cased, matching what
// Create stores. Two legacy accounts differing only in email case make the
// index build fail afterwards.
func backfillLegacy(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.UpdateMany(ctx,
		bson.M{"deletedAt": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"deletedAt": nil}},
	)
	if err != nil {
		return fmt.Errorf("backfill users deletedAt: %w", err)
	}

	_, err = collection.UpdateMany(ctx,
		bson.M{
			"email": bson.M{"$type": "string"},
			"$expr": bson.M{"$ne": bson.A{"$email", bson.M{"$toLower": "$email"}}},
		},
		mongo.Pipeline{
			{{Key: "$set", Value: bson.D{
				{Key: "email", Value: bson.D{{Key: "$toLower", Value: "$email"}}},
			}}},
		},
	)
	if err != nil {
		return fmt.Errorf("backfill users email case: %w", err)
	}

	return nil
}

func liveFilter(extra bson.M) bson.M {
	filter := bson.M{"deletedAt": nil}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

func (r *mongoRepository) Create(ctx context.Context, user *User) error {
	_, err := r.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	case !errors.Is(err, core.ErrNotFound):
		return fmt.Errorf("create user: %w", err)
	}

	now := time.Now().UTC()
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role.String(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if core.IsMongoDuplicateKey(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *mongoRepository) findOne(
	ctx context.Context,
	op string,
	filter bson.M,
) (*User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, liveFilter(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := doc.toUser()
	return &user, nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := core.ObjectIDFromString(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return r.findOne(ctx, "get user", bson.M{"_id": oid})
}

func (r *mongoRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.findOne(ctx, "get user by email", bson.M{"email": email})
}

func (r *mongoRepository) GetByIDs(
	ctx context.Context,
	ids []string,
) ([]User, error) {
	oids := core.ObjectIDsFromStrings(ids)
	if len(oids) == 0 {
		return []User{}, nil
	}

	return r.find(ctx, "get users by ids",
		liveFilter(bson.M{"_id": bson.M{"$in": oids}}))
}

func (r *mongoRepository) find(
	ctx context.Context,
	op string,
	filter bson.M,
) ([]User, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := make([]User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toUser())
	}
	return users, nil
}

func (r *mongoRepository) Update(ctx context.Context, user *User) error {
	oid, err := core.ObjectIDFromString(user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		liveFilter(bson.M{"_id": oid}),
		bson.M{"$set": bson.M{
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role.String(),
			"updatedAt": now,
		}},
	)
	if err != nil {
		if core.IsMongoDuplicateKey(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	user.UpdatedAt = now
	return nil
}

func (r *mongoRepository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.setFields(ctx, "update password", id, bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now().UTC(),
	})
}

func (r *mongoRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return r.setFields(ctx, "delete user", id, bson.M{
		"deletedAt": now,
		"updatedAt": now,
	})
}

func (r *mongoRepository) setFields(
	ctx context.Context,
	op, id string,
	fields bson.M,
) error {
	oid, err := core.ObjectIDFromString(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.collection.UpdateOne(ctx,
		liveFilter(bson.M{"_id": oid}),
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *mongoRepository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, error) {
	filter := liveFilter(nil)

	if params.Search != "" {
		pattern := primitive.Regex{
			Pattern: regexp.QuoteMeta(params.Search),
			Options: "i",
		}
		filter["$or"] = bson.A{
			bson.M{"email": pattern},
			bson.M{"name": pattern},
		}
	}

	if params.Role != "" {
		filter["role"] = params.Role.String()
	}

	return r.find(ctx, "list users", filter)
}

func (r *mongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, liveFilter(nil))
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(n), nil
}
