package service

import (
	"context"
	"strconv"
	"sync"

	"exam-service/internal/models"
)

// In-memory stores backing the service tests. They honor the same
// contracts as the Mongo repositories: find methods return nil when
// nothing matches, result creation conflicts on a duplicate pair.

type fakeExamStore struct {
	mu    sync.Mutex
	seq   int
	exams map[string]models.Exam
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{exams: make(map[string]models.Exam)}
}

func (s *fakeExamStore) Create(_ context.Context, exam *models.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exam.ID == "" {
		s.seq++
		exam.ID = "exam" + strconv.Itoa(s.seq)
	}
	s.exams[exam.ID] = *exam
	return nil
}

func (s *fakeExamStore) FindByID(_ context.Context, id string) (*models.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exam, ok := s.exams[id]
	if !ok {
		return nil, nil
	}
	return &exam, nil
}

func (s *fakeExamStore) FindAll(_ context.Context, publishedOnly bool) ([]models.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Exam
	for _, exam := range s.exams {
		if publishedOnly && !exam.IsPublished {
			continue
		}
		out = append(out, exam)
	}
	return out, nil
}

func (s *fakeExamStore) Replace(_ context.Context, exam *models.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exams[exam.ID] = *exam
	return nil
}

func (s *fakeExamStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.exams, id)
	return nil
}

type fakeSubmissionStore struct {
	mu          sync.Mutex
	submissions map[string]models.Submission
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{submissions: make(map[string]models.Submission)}
}

func (s *fakeSubmissionStore) FindByID(_ context.Context, id string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s *fakeSubmissionStore) StartOrResume(_ context.Context, proto *models.Submission) (*models.Submission, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.submissions {
		if sub.ExamID == proto.ExamID && sub.UserID == proto.UserID && sub.Status == models.SubmissionInProgress {
			existing := sub
			return &existing, false, nil
		}
	}
	s.submissions[proto.ID] = *proto
	created := *proto
	return &created, true, nil
}

func (s *fakeSubmissionStore) Replace(_ context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[submission.ID] = *submission
	return nil
}

func (s *fakeSubmissionStore) DeleteByExam(_ context.Context, examID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sub := range s.submissions {
		if sub.ExamID == examID {
			delete(s.submissions, id)
		}
	}
	return nil
}

type fakeResultStore struct {
	mu      sync.Mutex
	seq     int
	results map[string]models.Result
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{results: make(map[string]models.Result)}
}

func (s *fakeResultStore) Create(_ context.Context, result *models.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.ExamID == result.ExamID && r.UserID == result.UserID {
			return E(ErrConflict, "Result already exists for this exam")
		}
	}
	if result.ID == "" {
		s.seq++
		result.ID = "result" + strconv.Itoa(s.seq)
	}
	s.results[result.ID] = *result
	return nil
}

func (s *fakeResultStore) FindByID(_ context.Context, id string) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *fakeResultStore) FindByUser(_ context.Context, userID string) ([]models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Result
	for _, r := range s.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeResultStore) FindByExam(_ context.Context, examID string) ([]models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Result
	for _, r := range s.results {
		if r.ExamID == examID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeResultStore) Exists(_ context.Context, examID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.ExamID == examID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeResultStore) ExamIDsForUser(_ context.Context, userID string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool)
	for _, r := range s.results {
		if r.UserID == userID {
			out[r.ExamID] = true
		}
	}
	return out, nil
}

func (s *fakeResultStore) DeleteByExam(_ context.Context, examID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.results {
		if r.ExamID == examID {
			delete(s.results, id)
		}
	}
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	seq   int
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		s.seq++
		user.ID = "user" + strconv.Itoa(s.seq)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string, role models.Role) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email && u.Role == role {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
