package repository

import (
	"context"
	"errors"

	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ExamRepository struct {
	Col *mongo.Collection
}

func NewExamRepository(db *mongo.Database) *ExamRepository {
	return &ExamRepository{Col: db.Collection("exams")}
}

func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	res, err := r.Col.InsertOne(ctx, exam)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		exam.ID = oid.Hex()
	}
	return nil
}

func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var exam models.Exam
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&exam)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) FindAll(ctx context.Context, publishedOnly bool) ([]models.Exam, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["isPublished"] = true
	}
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var exams []models.Exam
	for cur.Next(ctx) {
		var exam models.Exam
		if err := cur.Decode(&exam); err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}
	return exams, cur.Err()
}

func (r *ExamRepository) Replace(ctx context.Context, exam *models.Exam) error {
	objID, err := primitive.ObjectIDFromHex(exam.ID)
	if err != nil {
		return err
	}
	update := bson.M{
		"title":        exam.Title,
		"description":  exam.Description,
		"duration":     exam.Duration,
		"totalMarks":   exam.TotalMarks,
		"passingMarks": exam.PassingMarks,
		"questions":    exam.Questions,
		"isPublished":  exam.IsPublished,
		"startDate":    exam.StartDate,
		"endDate":      exam.EndDate,
		"updatedAt":    exam.UpdatedAt,
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	return err
}

func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Col.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}
