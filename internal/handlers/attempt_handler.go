package handlers

import (
	"net/http"

	"exam-service/internal/middleware"
	"exam-service/internal/models"
	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptStarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_attempt_starts_total",
			Help: "Total number of exam attempt starts",
		},
		[]string{"status"},
	)

	attemptSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_attempt_submissions_total",
			Help: "Total number of exam submissions",
		},
		[]string{"status"},
	)
)

type AttemptHandler struct {
	Service *service.AttemptService
}

func NewAttemptHandler(s *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// StartExam creates or resumes the caller's attempt. The exam payload is
// sanitized: correct answers never leave the server here.
func (h *AttemptHandler) StartExam(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
		return
	}

	outcome, err := h.Service.Start(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		attemptStarts.WithLabelValues("failure").Inc()
		respondError(c, err)
		return
	}
	attemptStarts.WithLabelValues("success").Inc()

	if outcome.Resumed {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Continuing existing submission",
			"submission": outcome.Submission,
			"exam":       outcome.Exam,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Exam started successfully",
		"submission": outcome.Submission,
		"exam":       outcome.Exam,
	})
}

func (h *AttemptHandler) SubmitExam(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
		return
	}

	var in struct {
		Answers []models.AnswerInput `json:"answers"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	submission, result, err := h.Service.Submit(c.Request.Context(), c.Param("submissionId"), identity, in.Answers)
	if err != nil {
		attemptSubmissions.WithLabelValues("failure").Inc()
		respondError(c, err)
		return
	}
	attemptSubmissions.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Exam submitted successfully",
		"submission": submission,
		"result":     result,
	})
}
