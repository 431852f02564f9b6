// AngelaMos | 2026
// repository_mongo.go

package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

const formsCollection = "forms"

type formDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Fields      []Field            `bson:"fields"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *formDocument) toForm() Form {
	form := Form{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Fields:      Fields(d.Fields),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if form.Fields == nil {
		form.Fields = Fields{}
	}
	if !d.CreatedBy.IsZero() {
		form.CreatedBy = d.CreatedBy.Hex()
	}
	// documents written before timestamps existed
	if form.CreatedAt.IsZero() {
		form.CreatedAt = d.ID.Timestamp()
	}
	return form
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{collection: db.Collection(formsCollection)}
}

func (r *mongoRepository) Create(ctx context.Context, form *Form) error {
	creator, err := core.ObjectIDFromString(form.CreatedBy)
	if err != nil {
		return fmt.Errorf("create form: creator: %w", core.ErrInvalidInput)
	}

	now := time.Now().UTC()
	doc := formDocument{
		ID:          primitive.NewObjectID(),
		Title:       form.Title,
		Description: form.Description,
		Fields:      form.Fields,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create form: %w", err)
	}

	form.ID = doc.ID.Hex()
	form.CreatedAt = now
	form.UpdatedAt = now
	return nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*Form, error) {
	oid, err := core.ObjectIDFromString(id)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}

	var doc formDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get form: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}

	form := doc.toForm()
	return &form, nil
}

func (r *mongoRepository) List(ctx context.Context) ([]Form, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}

	var docs []formDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}

	forms := make([]Form, 0, len(docs))
	for i := range docs {
		forms = append(forms, docs[i].toForm())
	}
	return forms, nil
}

func (r *mongoRepository) Update(ctx context.Context, form *Form) error {
	oid, err := core.ObjectIDFromString(form.ID)
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"title":       form.Title,
			"description": form.Description,
			"fields":      []Field(form.Fields),
			"updatedAt":   now,
		}},
	)
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update form: %w", core.ErrNotFound)
	}

	form.UpdatedAt = now
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := core.ObjectIDFromString(id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete form: %w", core.ErrNotFound)
	}

	return nil
}

func (r *mongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count forms: %w", err)
	}
	return int(n), nil
}
