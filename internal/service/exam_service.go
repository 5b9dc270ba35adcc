package service

import (
	"context"
	"fmt"
	"time"

	"exam-service/internal/event"
	"exam-service/internal/models"

	"github.com/google/uuid"
)

type ExamService struct {
	exams       ExamStore
	submissions SubmissionStore
	results     ResultStore
	publisher   *event.Publisher
}

func NewExamService(exams ExamStore, submissions SubmissionStore, results ResultStore, publisher *event.Publisher) *ExamService {
	return &ExamService{
		exams:       exams,
		submissions: submissions,
		results:     results,
		publisher:   publisher,
	}
}

type CreateExamInput struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Duration     int               `json:"duration"`
	TotalMarks   int               `json:"totalMarks"`
	PassingMarks int               `json:"passingMarks"`
	Questions    []models.Question `json:"questions"`
	StartDate    *time.Time        `json:"startDate"`
	EndDate      *time.Time        `json:"endDate"`
	IsPublished  *bool             `json:"isPublished"`
}

// UpdateExamInput is a partial patch; nil fields are left untouched.
type UpdateExamInput struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Duration     *int               `json:"duration"`
	TotalMarks   *int               `json:"totalMarks"`
	PassingMarks *int               `json:"passingMarks"`
	Questions    *[]models.Question `json:"questions"`
	StartDate    *time.Time         `json:"startDate"`
	EndDate      *time.Time         `json:"endDate"`
	IsPublished  *bool              `json:"isPublished"`
}

func validateExamFields(title string, duration, totalMarks, passingMarks int) error {
	if title == "" || duration <= 0 || totalMarks <= 0 || passingMarks <= 0 {
		return E(ErrValidation, "Please provide all required fields")
	}
	return nil
}

// Create persists a new exam owned by the caller. Publication defaults to
// true unless the input says otherwise.
func (s *ExamService) Create(ctx context.Context, identity models.Identity, in CreateExamInput) (*models.Exam, error) {
	if err := validateExamFields(in.Title, in.Duration, in.TotalMarks, in.PassingMarks); err != nil {
		return nil, err
	}

	isPublished := true
	if in.IsPublished != nil {
		isPublished = *in.IsPublished
	}

	now := time.Now()
	exam := &models.Exam{
		Title:        in.Title,
		Description:  in.Description,
		Duration:     in.Duration,
		TotalMarks:   in.TotalMarks,
		PassingMarks: in.PassingMarks,
		Questions:    withQuestionIDs(in.Questions),
		CreatedBy:    identity.UserID,
		IsPublished:  isPublished,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	_ = s.publisher.Publish("exam.created", map[string]any{
		"examId":    exam.ID,
		"createdBy": identity.UserID,
	})

	return exam, nil
}

// withQuestionIDs assigns ids to embedded questions that arrived without
// one, so answers can reference them.
func withQuestionIDs(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	copy(out, questions)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
		if out[i].QuestionType == "" {
			out[i].QuestionType = models.QuestionMCQ
		}
	}
	return out
}

// Get fetches one exam. No publish check is applied; discovery is only
// gated at attempt start.
func (s *ExamService) Get(ctx context.Context, id string) (*models.Exam, error) {
	exam, err := s.exams.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find exam: %w", err)
	}
	if exam == nil {
		return nil, E(ErrNotFound, "Exam not found")
	}
	return exam, nil
}

// ListForAdmin returns every exam.
func (s *ExamService) ListForAdmin(ctx context.Context) ([]models.Exam, error) {
	return s.exams.FindAll(ctx, false)
}

// ListForUser returns published exams, each annotated with whether the
// caller has already produced a result for it.
func (s *ExamService) ListForUser(ctx context.Context, userID string) ([]models.ExamWithAttempt, error) {
	exams, err := s.exams.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	attempted, err := s.results.ExamIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load attempted exams: %w", err)
	}

	annotated := make([]models.ExamWithAttempt, 0, len(exams))
	for _, exam := range exams {
		annotated = append(annotated, models.ExamWithAttempt{
			Exam:         exam,
			HasAttempted: attempted[exam.ID],
		})
	}
	return annotated, nil
}

// Update applies a partial patch after an ownership check and re-validates
// the field constraints.
func (s *ExamService) Update(ctx context.Context, id string, identity models.Identity, in UpdateExamInput) (*models.Exam, error) {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.CanModifyExam(exam) {
		return nil, E(ErrForbidden, "Not authorized to update this exam")
	}

	if in.Title != nil {
		exam.Title = *in.Title
	}
	if in.Description != nil {
		exam.Description = *in.Description
	}
	if in.Duration != nil {
		exam.Duration = *in.Duration
	}
	if in.TotalMarks != nil {
		exam.TotalMarks = *in.TotalMarks
	}
	if in.PassingMarks != nil {
		exam.PassingMarks = *in.PassingMarks
	}
	if in.Questions != nil {
		exam.Questions = withQuestionIDs(*in.Questions)
	}
	if in.StartDate != nil {
		exam.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		exam.EndDate = in.EndDate
	}
	if in.IsPublished != nil {
		exam.IsPublished = *in.IsPublished
	}

	if err := validateExamFields(exam.Title, exam.Duration, exam.TotalMarks, exam.PassingMarks); err != nil {
		return nil, err
	}

	exam.UpdatedAt = time.Now()
	if err := s.exams.Replace(ctx, exam); err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}

	_ = s.publisher.Publish("exam.updated", map[string]any{"examId": exam.ID})

	return exam, nil
}

// Delete removes the exam together with its submissions and results.
func (s *ExamService) Delete(ctx context.Context, id string, identity models.Identity) error {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !identity.CanModifyExam(exam) {
		return E(ErrForbidden, "Not authorized to delete this exam")
	}

	if err := s.exams.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if err := s.submissions.DeleteByExam(ctx, id); err != nil {
		return fmt.Errorf("delete exam submissions: %w", err)
	}
	if err := s.results.DeleteByExam(ctx, id); err != nil {
		return fmt.Errorf("delete exam results: %w", err)
	}

	_ = s.publisher.Publish("exam.deleted", map[string]any{"examId": id})

	return nil
}

// TogglePublish flips the publish flag and reports which way it went.
func (s *ExamService) TogglePublish(ctx context.Context, id string) (*models.Exam, string, error) {
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	exam.IsPublished = !exam.IsPublished
	exam.UpdatedAt = time.Now()
	if err := s.exams.Replace(ctx, exam); err != nil {
		return nil, "", fmt.Errorf("toggle publish: %w", err)
	}

	message := "Exam unpublished successfully"
	if exam.IsPublished {
		message = "Exam published successfully"
	}

	_ = s.publisher.Publish("exam.publish_toggled", map[string]any{
		"examId":      exam.ID,
		"isPublished": exam.IsPublished,
	})

	return exam, message, nil
}
