package service

import (
	"context"

	"exam-service/internal/models"
)

// ExamStore is the persistence surface for exam authoring and listing.
// Find methods return nil without error when nothing matches.
type ExamStore interface {
	Create(ctx context.Context, exam *models.Exam) error
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	FindAll(ctx context.Context, publishedOnly bool) ([]models.Exam, error)
	Replace(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id string) error
}

// SubmissionStore persists attempts.
type SubmissionStore interface {
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	// StartOrResume atomically returns the in-progress submission for
	// (exam, user), inserting proto when none exists. The bool reports
	// whether proto was inserted.
	StartOrResume(ctx context.Context, proto *models.Submission) (*models.Submission, bool, error)
	Replace(ctx context.Context, submission *models.Submission) error
	DeleteByExam(ctx context.Context, examID string) error
}

// ResultStore persists graded results. Create must fail with ErrConflict
// when a result for the same (exam, user) pair already exists.
type ResultStore interface {
	Create(ctx context.Context, result *models.Result) error
	FindByID(ctx context.Context, id string) (*models.Result, error)
	FindByUser(ctx context.Context, userID string) ([]models.Result, error)
	FindByExam(ctx context.Context, examID string) ([]models.Result, error)
	Exists(ctx context.Context, examID, userID string) (bool, error)
	ExamIDsForUser(ctx context.Context, userID string) (map[string]bool, error)
	DeleteByExam(ctx context.Context, examID string) error
}
