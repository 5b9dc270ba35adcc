package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"exam-service/internal/middleware"
	"exam-service/internal/models"
	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

// In-memory stores so the full HTTP surface can be exercised without a
// running MongoDB.

type memExams struct {
	seq   int
	exams map[string]models.Exam
}

func (s *memExams) Create(_ context.Context, exam *models.Exam) error {
	s.seq++
	exam.ID = "exam" + strconv.Itoa(s.seq)
	s.exams[exam.ID] = *exam
	return nil
}

func (s *memExams) FindByID(_ context.Context, id string) (*models.Exam, error) {
	exam, ok := s.exams[id]
	if !ok {
		return nil, nil
	}
	return &exam, nil
}

func (s *memExams) FindAll(_ context.Context, publishedOnly bool) ([]models.Exam, error) {
	var out []models.Exam
	for _, exam := range s.exams {
		if publishedOnly && !exam.IsPublished {
			continue
		}
		out = append(out, exam)
	}
	return out, nil
}

func (s *memExams) Replace(_ context.Context, exam *models.Exam) error {
	s.exams[exam.ID] = *exam
	return nil
}

func (s *memExams) Delete(_ context.Context, id string) error {
	delete(s.exams, id)
	return nil
}

type memSubmissions struct {
	submissions map[string]models.Submission
}

func (s *memSubmissions) FindByID(_ context.Context, id string) (*models.Submission, error) {
	sub, ok := s.submissions[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s *memSubmissions) StartOrResume(_ context.Context, proto *models.Submission) (*models.Submission, bool, error) {
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

func (s *memSubmissions) Replace(_ context.Context, submission *models.Submission) error {
	s.submissions[submission.ID] = *submission
	return nil
}

func (s *memSubmissions) DeleteByExam(_ context.Context, examID string) error {
	for id, sub := range s.submissions {
		if sub.ExamID == examID {
			delete(s.submissions, id)
		}
	}
	return nil
}

type memResults struct {
	seq     int
	results map[string]models.Result
}

func (s *memResults) Create(_ context.Context, result *models.Result) error {
	for _, r := range s.results {
		if r.ExamID == result.ExamID && r.UserID == result.UserID {
			return service.E(service.ErrConflict, "Result already exists for this exam")
		}
	}
	s.seq++
	result.ID = "result" + strconv.Itoa(s.seq)
	s.results[result.ID] = *result
	return nil
}

func (s *memResults) FindByID(_ context.Context, id string) (*models.Result, error) {
	r, ok := s.results[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *memResults) FindByUser(_ context.Context, userID string) ([]models.Result, error) {
	var out []models.Result
	for _, r := range s.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memResults) FindByExam(_ context.Context, examID string) ([]models.Result, error) {
	var out []models.Result
	for _, r := range s.results {
		if r.ExamID == examID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memResults) Exists(_ context.Context, examID, userID string) (bool, error) {
	for _, r := range s.results {
		if r.ExamID == examID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memResults) ExamIDsForUser(_ context.Context, userID string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, r := range s.results {
		if r.UserID == userID {
			out[r.ExamID] = true
		}
	}
	return out, nil
}

func (s *memResults) DeleteByExam(_ context.Context, examID string) error {
	for id, r := range s.results {
		if r.ExamID == examID {
			delete(s.results, id)
		}
	}
	return nil
}

type memUsers struct {
	seq   int
	users map[string]models.User
}

func (s *memUsers) Create(_ context.Context, user *models.User) error {
	s.seq++
	user.ID = "user" + strconv.Itoa(s.seq)
	s.users[user.ID] = *user
	return nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string, role models.Role) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email && u.Role == role {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (s *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// newTestRouter assembles the same route tree the server runs.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := &memUsers{users: make(map[string]models.User)}
	exams := &memExams{exams: make(map[string]models.Exam)}
	submissions := &memSubmissions{submissions: make(map[string]models.Submission)}
	results := &memResults{results: make(map[string]models.Result)}

	jwtService := service.NewJWTService("test-secret", 1)
	authHandler := NewAuthHandler(service.NewAuthService(users, jwtService, nil))
	examHandler := NewExamHandler(service.NewExamService(exams, submissions, results, nil))
	attemptHandler := NewAttemptHandler(service.NewAttemptService(exams, submissions, results, nil))
	resultHandler := NewResultHandler(service.NewResultService(results, exams, users))

	authRequired := middleware.Auth(jwtService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	userOnly := middleware.RequireRole(models.RoleUser)

	r := gin.New()

	auth := r.Group("/api/auth")
	auth.POST("/signup", authHandler.UserSignup)
	auth.POST("/login", authHandler.UserLogin)
	auth.POST("/admin/signup", authHandler.AdminSignup)
	auth.POST("/admin/login", authHandler.AdminLogin)
	auth.GET("/logout", authHandler.Logout)
	auth.GET("/me", authRequired, authHandler.Me)

	r.GET("/api/exam/:id", examHandler.GetExam)

	exam := r.Group("/api/exam", authRequired)
	exam.POST("/", adminOnly, examHandler.CreateExam)
	exam.GET("/", examHandler.ListExams)
	exam.PUT("/:id", adminOnly, examHandler.UpdateExam)
	exam.DELETE("/:id", adminOnly, examHandler.DeleteExam)
	exam.PUT("/:id/publish", adminOnly, examHandler.TogglePublish)
	exam.POST("/:id/start", userOnly, attemptHandler.StartExam)
	exam.POST("/submission/:submissionId", userOnly, attemptHandler.SubmitExam)
	exam.GET("/result/my-results", userOnly, resultHandler.MyResults)
	exam.GET("/result/:resultId", resultHandler.GetResult)
	exam.GET("/:id/results", adminOnly, resultHandler.ExamResults)

	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func TestExamLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter()

	// Admin registers and authors an exam.
	w, body := doJSON(t, router, http.MethodPost, "/api/auth/admin/signup", "", gin.H{
		"email":           "admin@example.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("admin register status = %d body %v", w.Code, body)
	}
	adminToken, _ := body["token"].(string)
	if adminToken == "" {
		t.Fatal("no admin token in response")
	}

	w, body = doJSON(t, router, http.MethodPost, "/api/exam/", adminToken, gin.H{
		"title":        "Go Basics",
		"duration":     30,
		"totalMarks":   10,
		"passingMarks": 5,
		"questions": []gin.H{
			{"questionText": "What declares a constant?", "questionType": "mcq", "marks": 5, "options": []string{"const", "var"}, "correctAnswer": "const"},
			{"questionText": "What starts a goroutine?", "questionType": "mcq", "marks": 5, "options": []string{"go", "run"}, "correctAnswer": "go"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create exam status = %d body %v", w.Code, body)
	}
	examID := body["exam"].(map[string]any)["id"].(string)

	// A user registers and sees the exam.
	w, body = doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":            "Alex",
		"email":           "alex@example.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d body %v", w.Code, body)
	}
	userToken := body["token"].(string)

	w, body = doJSON(t, router, http.MethodGet, "/api/exam/", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d body %v", w.Code, body)
	}
	if body["count"].(float64) != 1 {
		t.Fatalf("count = %v, want 1", body["count"])
	}
	listed := body["exams"].([]any)[0].(map[string]any)
	if listed["hasAttempted"].(bool) {
		t.Error("fresh user should not have attempted")
	}

	// Start the attempt. The sanitized exam must not leak correct answers.
	w, body = doJSON(t, router, http.MethodPost, "/api/exam/"+examID+"/start", userToken, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("start status = %d body %v", w.Code, body)
	}
	submissionID := body["submission"].(map[string]any)["id"].(string)
	questions := body["exam"].(map[string]any)["questions"].([]any)
	var answers []gin.H
	for i, raw := range questions {
		q := raw.(map[string]any)
		if _, leaked := q["correctAnswer"]; leaked {
			t.Error("correctAnswer leaked to taker")
		}
		answer := "const"
		if i == 1 {
			answer = "run" // wrong on purpose
		}
		answers = append(answers, gin.H{"questionId": q["id"], "userAnswer": answer})
	}

	// Starting again resumes the same submission.
	w, body = doJSON(t, router, http.MethodPost, "/api/exam/"+examID+"/start", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("restart status = %d body %v", w.Code, body)
	}
	if body["submission"].(map[string]any)["id"].(string) != submissionID {
		t.Error("restart produced a different submission")
	}

	// Submit and check the graded result.
	w, body = doJSON(t, router, http.MethodPost, "/api/exam/submission/"+submissionID, userToken, gin.H{
		"answers": answers,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d body %v", w.Code, body)
	}
	result := body["result"].(map[string]any)
	if result["marksObtained"].(float64) != 5 {
		t.Errorf("marksObtained = %v, want 5", result["marksObtained"])
	}
	if !result["isPassed"].(bool) {
		t.Error("5 of 10 with passing 5 should pass")
	}

	// The pair is now terminal.
	w, _ = doJSON(t, router, http.MethodPost, "/api/exam/"+examID+"/start", userToken, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("start after result status = %d, want 409", w.Code)
	}
	w, _ = doJSON(t, router, http.MethodPost, "/api/exam/submission/"+submissionID, userToken, gin.H{"answers": answers})
	if w.Code != http.StatusConflict {
		t.Errorf("double submit status = %d, want 409", w.Code)
	}

	// Both sides can read the result.
	w, body = doJSON(t, router, http.MethodGet, "/api/exam/result/my-results", userToken, nil)
	if w.Code != http.StatusOK || body["count"].(float64) != 1 {
		t.Fatalf("my-results status = %d body %v", w.Code, body)
	}
	w, body = doJSON(t, router, http.MethodGet, "/api/exam/"+examID+"/results", adminToken, nil)
	if w.Code != http.StatusOK || body["count"].(float64) != 1 {
		t.Fatalf("exam results status = %d body %v", w.Code, body)
	}

	// And the listing now flags the attempt.
	_, body = doJSON(t, router, http.MethodGet, "/api/exam/", userToken, nil)
	if !body["exams"].([]any)[0].(map[string]any)["hasAttempted"].(bool) {
		t.Error("hasAttempted should be true after submitting")
	}
}

func TestRouteAuthorization(t *testing.T) {
	router := newTestRouter()

	_, body := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Alex", "email": "alex@example.com", "password": "secret123", "confirmPassword": "secret123",
	})
	userToken := body["token"].(string)

	w, _ := doJSON(t, router, http.MethodPost, "/api/exam/", userToken, gin.H{
		"title": "Nope", "duration": 10, "totalMarks": 5, "passingMarks": 3,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("user create exam status = %d, want 403", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/exam/", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list status = %d, want 401", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alex@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}
}

func TestUnpublishedExamCannotBeStarted(t *testing.T) {
	router := newTestRouter()

	_, body := doJSON(t, router, http.MethodPost, "/api/auth/admin/signup", "", gin.H{
		"email": "admin@example.com", "password": "secret123", "confirmPassword": "secret123",
	})
	adminToken := body["token"].(string)

	_, body = doJSON(t, router, http.MethodPost, "/api/exam/", adminToken, gin.H{
		"title": "Draft", "duration": 10, "totalMarks": 5, "passingMarks": 3, "isPublished": false,
	})
	examID := body["exam"].(map[string]any)["id"].(string)

	_, body = doJSON(t, router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Alex", "email": "alex@example.com", "password": "secret123", "confirmPassword": "secret123",
	})
	userToken := body["token"].(string)

	w, body := doJSON(t, router, http.MethodPost, "/api/exam/"+examID+"/start", userToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("start draft status = %d body %v", w.Code, body)
	}
	if body["message"] != "Exam is not published yet" {
		t.Errorf("message = %v", body["message"])
	}

	// The detail route stays open even for drafts.
	w, body = doJSON(t, router, http.MethodGet, "/api/exam/"+examID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous detail status = %d body %v", w.Code, body)
	}
	if body["exam"].(map[string]any)["title"] != "Draft" {
		t.Errorf("detail payload = %v", body["exam"])
	}

	// Publish, then the start goes through.
	w, _ = doJSON(t, router, http.MethodPut, "/api/exam/"+examID+"/publish", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", w.Code)
	}
	w, _ = doJSON(t, router, http.MethodPost, "/api/exam/"+examID+"/start", userToken, nil)
	if w.Code != http.StatusCreated {
		t.Errorf("start published status = %d, want 201", w.Code)
	}
}
