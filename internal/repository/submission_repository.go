package repository

import (
	"context"
	"errors"

	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubmissionRepository struct {
	Col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{Col: db.Collection("submissions")}
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var submission models.Submission
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}

// StartOrResume is a single conditional write: it returns the in-progress
// submission for (exam, user) and inserts proto only when none exists, so
// two concurrent starts converge on the same document.
func (r *SubmissionRepository) StartOrResume(ctx context.Context, proto *models.Submission) (*models.Submission, bool, error) {
	objID, err := primitive.ObjectIDFromHex(proto.ID)
	if err != nil {
		return nil, false, err
	}

	filter := bson.M{
		"examId": proto.ExamID,
		"userId": proto.UserID,
		"status": models.SubmissionInProgress,
	}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":       objID,
		"examId":    proto.ExamID,
		"userId":    proto.UserID,
		"startTime": proto.StartTime,
		"status":    proto.Status,
		"createdAt": proto.CreatedAt,
		"updatedAt": proto.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var submission models.Submission
	if err := r.Col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&submission); err != nil {
		return nil, false, err
	}
	return &submission, submission.ID == proto.ID, nil
}

func (r *SubmissionRepository) Replace(ctx context.Context, submission *models.Submission) error {
	objID, err := primitive.ObjectIDFromHex(submission.ID)
	if err != nil {
		return err
	}
	update := bson.M{
		"answers":            submission.Answers,
		"totalMarksObtained": submission.TotalMarksObtained,
		"percentage":         submission.Percentage,
		"isPassed":           submission.IsPassed,
		"endTime":            submission.EndTime,
		"status":             submission.Status,
		"updatedAt":          submission.UpdatedAt,
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	return err
}

func (r *SubmissionRepository) DeleteByExam(ctx context.Context, examID string) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"examId": examID})
	return err
}
