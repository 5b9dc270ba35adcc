package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exam-service/internal/event"
	"exam-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttemptService drives the per-(exam, user) state machine:
// not-started -> in-progress -> submitted. Once a result exists the pair
// is terminal and no further submission may be created.
type AttemptService struct {
	exams       ExamStore
	submissions SubmissionStore
	results     ResultStore
	publisher   *event.Publisher
	now         func() time.Time
}

func NewAttemptService(exams ExamStore, submissions SubmissionStore, results ResultStore, publisher *event.Publisher) *AttemptService {
	return &AttemptService{
		exams:       exams,
		submissions: submissions,
		results:     results,
		publisher:   publisher,
		now:         time.Now,
	}
}

// StartOutcome is what a taking user gets back from Start.
type StartOutcome struct {
	Submission *models.Submission
	Exam       models.ExamTakerView
	Resumed    bool
}

// Start creates the in-progress submission for (exam, caller), or returns
// the existing one unchanged. The single upsert in the store makes
// concurrent starts converge on one submission.
func (s *AttemptService) Start(ctx context.Context, examID string, identity models.Identity) (*StartOutcome, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("find exam: %w", err)
	}
	if exam == nil {
		return nil, E(ErrNotFound, "Exam not found")
	}
	if !exam.IsPublished {
		return nil, E(ErrValidation, "Exam is not published yet")
	}

	attempted, err := s.results.Exists(ctx, examID, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("check existing result: %w", err)
	}
	if attempted {
		return nil, E(ErrConflict, "Exam already attempted")
	}

	now := s.now()
	proto := &models.Submission{
		ID:        primitive.NewObjectID().Hex(),
		ExamID:    examID,
		UserID:    identity.UserID,
		StartTime: now,
		Status:    models.SubmissionInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	submission, created, err := s.submissions.StartOrResume(ctx, proto)
	if err != nil {
		return nil, fmt.Errorf("start submission: %w", err)
	}

	if created {
		_ = s.publisher.Publish("attempt.started", map[string]any{
			"examId":       examID,
			"userId":       identity.UserID,
			"submissionId": submission.ID,
		})
	}

	return &StartOutcome{
		Submission: submission,
		Exam:       exam.TakerView(),
		Resumed:    !created,
	}, nil
}

// Submit grades the answers, finalizes the submission, and materializes
// the result. The elapsed-time check mirrors the client countdown: a late
// submission is still graded, the check only forces the submitted status.
func (s *AttemptService) Submit(ctx context.Context, submissionID string, identity models.Identity, answers []models.AnswerInput) (*models.Submission, *models.Result, error) {
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, nil, fmt.Errorf("find submission: %w", err)
	}
	if submission == nil {
		return nil, nil, E(ErrNotFound, "Submission not found")
	}
	if submission.UserID != identity.UserID {
		return nil, nil, E(ErrForbidden, "Not authorized to submit this exam")
	}
	if submission.Status != models.SubmissionInProgress {
		return nil, nil, E(ErrConflict, "Submission has already been submitted")
	}

	exam, err := s.exams.FindByID(ctx, submission.ExamID)
	if err != nil {
		return nil, nil, fmt.Errorf("find exam: %w", err)
	}
	if exam == nil {
		return nil, nil, E(ErrNotFound, "Exam not found")
	}

	now := s.now()
	if now.Sub(submission.StartTime) > time.Duration(exam.Duration)*time.Minute {
		submission.Status = models.SubmissionSubmitted
	}

	graded, totalObtained := models.GradeAnswers(exam, answers)
	percentage := float64(totalObtained) / float64(exam.TotalMarks) * 100
	isPassed := totalObtained >= exam.PassingMarks

	submission.Answers = graded
	submission.TotalMarksObtained = totalObtained
	submission.Percentage = percentage
	submission.IsPassed = isPassed
	submission.EndTime = &now
	submission.Status = models.SubmissionSubmitted
	submission.UpdatedAt = now
	if err := s.submissions.Replace(ctx, submission); err != nil {
		return nil, nil, fmt.Errorf("save submission: %w", err)
	}

	resultStatus := models.ResultFail
	if isPassed {
		resultStatus = models.ResultPass
	}
	result := &models.Result{
		ExamID:        submission.ExamID,
		UserID:        submission.UserID,
		SubmissionID:  submission.ID,
		TotalMarks:    exam.TotalMarks,
		MarksObtained: totalObtained,
		Percentage:    percentage,
		Grade:         models.LetterGrade(percentage),
		IsPassed:      isPassed,
		AttemptNumber: 1,
		ResultStatus:  resultStatus,
		CreatedAt:     now,
	}
	if err := s.results.Create(ctx, result); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, nil, E(ErrConflict, "Exam already attempted")
		}
		return nil, nil, fmt.Errorf("create result: %w", err)
	}

	_ = s.publisher.Publish("attempt.submitted", map[string]any{
		"submissionId": submission.ID,
		"examId":       submission.ExamID,
		"userId":       submission.UserID,
	})
	_ = s.publisher.Publish("result.created", map[string]any{
		"resultId": result.ID,
		"isPassed": result.IsPassed,
	})

	return submission, result, nil
}
