// AngelaMos | 2026
// repository_mongo.go

package submission

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carterperez-dev/templates/forms-backend/internal/core"
)

const submissionsCollection = "submissions"

type submissionDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FormID      primitive.ObjectID `bson:"formId"`
	UserID      primitive.ObjectID `bson:"userId"`
	Responses   map[string]Answer  `bson:"responses"`
	SubmittedAt time.Time          `bson:"submittedAt"`
}

// toSubmission resolves the stored references to canonical string ids.
func (d *submissionDocument) toSubmission() Submission {
	responses := Responses(d.Responses)
	if responses == nil {
		responses = Responses{}
	}

	s := Submission{
		ID:          d.ID.Hex(),
		FormID:      d.FormID.Hex(),
		Responses:   responses,
		SubmittedAt: d.SubmittedAt,
	}
	if !d.UserID.IsZero() {
		s.UserID = d.UserID.Hex()
	}
	return s
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(
	ctx context.Context,
	db *mongo.Database,
) (Repository, error) {
	collection := db.Collection(submissionsCollection)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "formId", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("form_submissions"),
	})
	if err != nil {
		return nil, fmt.Errorf("create submissions index: %w", err)
	}

	return &mongoRepository{collection: collection}, nil
}

func (r *mongoRepository) Create(ctx context.Context, s *Submission) error {
	formID, err := core.ObjectIDFromString(s.FormID)
	if err != nil {
		return fmt.Errorf("create submission: form: %w", err)
	}
	userID, err := core.ObjectIDFromString(s.UserID)
	if err != nil {
		return fmt.Errorf("create submission: user: %w", err)
	}

	doc := submissionDocument{
		ID:          primitive.NewObjectID(),
		FormID:      formID,
		UserID:      userID,
		Responses:   s.Responses,
		SubmittedAt: time.Now().UTC(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	s.ID = doc.ID.Hex()
	s.SubmittedAt = doc.SubmittedAt
	return nil
}

func (r *mongoRepository) ListByForm(
	ctx context.Context,
	formID string,
) ([]Submission, error) {
	oid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return []Submission{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"formId": oid},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	var docs []submissionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	submissions := make([]Submission, 0, len(docs))
	for i := range docs {
		submissions = append(submissions, docs[i].toSubmission())
	}
	return submissions, nil
}

func (r *mongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return int(n), nil
}
