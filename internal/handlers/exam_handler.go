package handlers

import (
	"net/http"

	"exam-service/internal/middleware"
	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	Service *service.ExamService
}

func NewExamHandler(s *service.ExamService) *ExamHandler {
	return &ExamHandler{Service: s}
}

func (h *ExamHandler) CreateExam(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
		return
	}

	var in service.CreateExamInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	exam, err := h.Service.Create(c.Request.Context(), identity, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Exam created successfully",
		"exam":    exam,
	})
}

// ListExams is role-filtered: admins see everything, users see published
// exams annotated with hasAttempted.
func (h *ExamHandler) ListExams(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
		return
	}

	if identity.IsAdmin() {
		exams, err := h.Service.ListForAdmin(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(exams), "exams": exams})
		return
	}

	exams, err := h.Service.ListForUser(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(exams), "exams": exams})
}

func (h *ExamHandler) GetExam(c *gin.Context) {
	exam, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "exam": exam})
}

func (h *ExamHandler) UpdateExam(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
		return
	}

	var in service.UpdateExamInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	exam, err := h.Service.Update(c.Request.Context(), c.Param("id"), identity, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Exam updated successfully",
		"exam":    exam,
	})
}

func (h *ExamHandler) DeleteExam(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), c.Param("id"), identity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Exam deleted successfully"})
}

func (h *ExamHandler) TogglePublish(c *gin.Context) {
	exam, message, err := h.Service.TogglePublish(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "exam": exam})
}
