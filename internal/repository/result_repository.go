package repository

import (
	"context"
	"errors"

	"exam-service/internal/models"
	"exam-service/internal/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection("results")}
}

// EnsureIndexes creates the unique (examId, userId) index that enforces
// the one-result-per-attempt invariant at the storage layer.
func (r *ResultRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "examId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	res, err := r.Col.InsertOne(ctx, result)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return service.E(service.ErrConflict, "result already exists for this exam and user")
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		result.ID = oid.Hex()
	}
	return nil
}

func (r *ResultRepository) FindByID(ctx context.Context, id string) (*models.Result, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var result models.Result
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *ResultRepository) FindByUser(ctx context.Context, userID string) ([]models.Result, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *ResultRepository) FindByExam(ctx context.Context, examID string) ([]models.Result, error) {
	return r.find(ctx, bson.M{"examId": examID})
}

func (r *ResultRepository) find(ctx context.Context, filter bson.M) ([]models.Result, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var results []models.Result
	for cur.Next(ctx) {
		var result models.Result
		if err := cur.Decode(&result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, cur.Err()
}

func (r *ResultRepository) Exists(ctx context.Context, examID, userID string) (bool, error) {
	err := r.Col.FindOne(ctx, bson.M{"examId": examID, "userId": userID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *ResultRepository) ExamIDsForUser(ctx context.Context, userID string) (map[string]bool, error) {
	opts := options.Find().SetProjection(bson.M{"examId": 1})
	cur, err := r.Col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	attempted := make(map[string]bool)
	for cur.Next(ctx) {
		var doc struct {
			ExamID string `bson:"examId"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		attempted[doc.ExamID] = true
	}
	return attempted, cur.Err()
}

func (r *ResultRepository) DeleteByExam(ctx context.Context, examID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"examId": examID})
	return err
}
