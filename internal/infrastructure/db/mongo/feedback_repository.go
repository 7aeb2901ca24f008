package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

const collectionFeedback = "feedback"

type FeedbackRepository struct {
	col *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{col: db.Collection(collectionFeedback)}
}

// Create inserts a feedback item. The unique (author, resource) index reports
// a concurrent duplicate as ErrAlreadyExists.
func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, f); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var f domain.Feedback
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return &f, nil
}

func (r *FeedbackRepository) ExistsByAuthorAndResource(ctx context.Context, authorSubjectID, resourceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{
		"author_subject_id": authorSubjectID,
		"resource_id":       resourceID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count feedback: %w", err)
	}
	return n > 0, nil
}

func (r *FeedbackRepository) Update(ctx context.Context, f *domain.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": f.ID}, f)
	if err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FeedbackRepository) List(ctx context.Context, f ports.FeedbackFilter) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.AuthorSubjectID != "" {
		filter["author_subject_id"] = f.AuthorSubjectID
	}
	switch {
	case f.ResourceID != "":
		filter["resource_id"] = f.ResourceID
	case f.ResourceIDs != nil:
		filter["resource_id"] = bson.M{"$in": f.ResourceIDs}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Feedback
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	return out, nil
}

// AverageScore averages the scores of ACTIVE feedback on resourceID in a
// single aggregation round trip.
func (r *FeedbackRepository) AverageScore(ctx context.Context, resourceID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "resource_id", Value: resourceID},
			{Key: "status", Value: domain.FeedbackActive},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$score"}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("average score: %w", err)
	}
	defer cursor.Close(ctx)

	var row struct {
		Avg float64 `bson:"avg"`
	}
	if !cursor.Next(ctx) {
		return 0.0, cursor.Err()
	}
	if err := cursor.Decode(&row); err != nil {
		return 0, fmt.Errorf("decode average score: %w", err)
	}
	return row.Avg, nil
}

// EnsureIndexes creates the indexes of the feedback collection, including the
// unique (author, resource) pair.
func (r *FeedbackRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author_subject_id", Value: 1}, {Key: "resource_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "resource_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
