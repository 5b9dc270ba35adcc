package service

import (
	"context"
	"fmt"

	"exam-service/internal/models"
)

type ResultService struct {
	results ResultStore
	exams   ExamStore
	users   UserStore
}

func NewResultService(results ResultStore, exams ExamStore, users UserStore) *ResultService {
	return &ResultService{results: results, exams: exams, users: users}
}

// Get returns one result with its exam and user summaries attached.
// Only the owning user or an admin may read it.
func (s *ResultService) Get(ctx context.Context, resultID string, identity models.Identity) (*models.ResultView, error) {
	result, err := s.results.FindByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("find result: %w", err)
	}
	if result == nil {
		return nil, E(ErrNotFound, "Result not found")
	}
	if !identity.CanViewResult(result) {
		return nil, E(ErrForbidden, "Not authorized to view this result")
	}

	view := s.buildView(ctx, *result, true)
	return &view, nil
}

// ListForUser returns the caller's results, newest first, with exam
// summaries attached.
func (s *ResultService) ListForUser(ctx context.Context, userID string) ([]models.ResultView, error) {
	results, err := s.results.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	views := make([]models.ResultView, 0, len(results))
	for _, r := range results {
		views = append(views, s.buildView(ctx, r, false))
	}
	return views, nil
}

// ListForExam returns every result for an exam, newest first, with user
// and exam summaries attached. Used for the admin grade book.
func (s *ResultService) ListForExam(ctx context.Context, examID string) ([]models.ResultView, error) {
	results, err := s.results.FindByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list exam results: %w", err)
	}
	views := make([]models.ResultView, 0, len(results))
	for _, r := range results {
		views = append(views, s.buildView(ctx, r, true))
	}
	return views, nil
}

// buildView attaches exam and (optionally) user summaries. Lookups that
// fail leave the summary nil rather than failing the whole listing; the
// referenced record may have been deleted.
func (s *ResultService) buildView(ctx context.Context, result models.Result, withUser bool) models.ResultView {
	view := models.ResultView{Result: result}

	if exam, err := s.exams.FindByID(ctx, result.ExamID); err == nil && exam != nil {
		view.Exam = &models.ExamSummary{
			ID:           exam.ID,
			Title:        exam.Title,
			TotalMarks:   exam.TotalMarks,
			PassingMarks: exam.PassingMarks,
		}
	}
	if withUser {
		if user, err := s.users.FindByID(ctx, result.UserID); err == nil && user != nil {
			view.User = &models.UserSummary{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
			}
		}
	}
	return view
}
