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
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status", "role"},
	)

	registrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_registration_attempts_total",
			Help: "Total number of registration attempts",
		},
		[]string{"status", "role"},
	)
)

type AuthHandler struct {
	Service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{Service: s}
}

func (h *AuthHandler) UserSignup(c *gin.Context) {
	h.signup(c, models.RoleUser)
}

func (h *AuthHandler) AdminSignup(c *gin.Context) {
	h.signup(c, models.RoleAdmin)
}

func (h *AuthHandler) signup(c *gin.Context, role models.Role) {
	var in service.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		registrationAttempts.WithLabelValues("failure", string(role)).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	user, token, err := h.Service.Signup(c.Request.Context(), in, role)
	if err != nil {
		registrationAttempts.WithLabelValues("failure", string(role)).Inc()
		respondError(c, err)
		return
	}
	registrationAttempts.WithLabelValues("success", string(role)).Inc()

	if role == models.RoleAdmin {
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Admin created successfully",
			"token":   token,
			"admin":   accountPayload(user),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    accountPayload(user),
	})
}

func (h *AuthHandler) UserLogin(c *gin.Context) {
	h.login(c, models.RoleUser)
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin)
}

func (h *AuthHandler) login(c *gin.Context, role models.Role) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		loginAttempts.WithLabelValues("failure", string(role)).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	user, token, err := h.Service.Login(c.Request.Context(), in.Email, in.Password, role)
	if err != nil {
		loginAttempts.WithLabelValues("failure", string(role)).Inc()
		respondError(c, err)
		return
	}
	loginAttempts.WithLabelValues("success", string(role)).Inc()

	if role == models.RoleAdmin {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Admin logged in successfully",
			"token":   token,
			"admin":   accountPayload(user),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User logged in successfully",
		"token":   token,
		"user":    accountPayload(user),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
		return
	}
	user, err := h.Service.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Logout is a stateless acknowledgement; tokens expire on their own.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func accountPayload(user *models.User) gin.H {
	payload := gin.H{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}
	if user.Name != "" {
		payload["name"] = user.Name
	}
	return payload
}
