package service

import (
	"context"
	"fmt"
	"time"

	"exam-service/internal/event"
	"exam-service/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string, role models.Role) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type AuthService struct {
	users     UserStore
	jwt       *JWTService
	publisher *event.Publisher
}

func NewAuthService(users UserStore, jwt *JWTService, publisher *event.Publisher) *AuthService {
	return &AuthService{users: users, jwt: jwt, publisher: publisher}
}

type SignupInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Signup registers an account with the given role and returns it together
// with a signed token. Admin signup omits the name, user signup requires it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, role models.Role) (*models.User, string, error) {
	if in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, "", E(ErrValidation, "All fields are required")
	}
	if role == models.RoleUser && in.Name == "" {
		return nil, "", E(ErrValidation, "All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", E(ErrValidation, "Passwords do not match")
	}

	existing, err := s.users.FindByEmail(ctx, in.Email, role)
	if err != nil {
		return nil, "", fmt.Errorf("check existing account: %w", err)
	}
	if existing != nil {
		return nil, "", E(ErrValidation, "Account already exists with this email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create account: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	_ = s.publisher.Publish("user.registered", map[string]any{
		"userId": user.ID,
		"role":   user.Role,
	})

	return user, token, nil
}

// Login checks credentials for the given role and returns the account with
// a signed token. The error message never reveals which part was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string, role models.Role) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", E(ErrValidation, "Please provide email and password")
	}

	user, err := s.users.FindByEmail(ctx, email, role)
	if err != nil {
		return nil, "", fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		return nil, "", E(ErrUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", E(ErrUnauthorized, "Invalid credentials")
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the caller's own account record.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if user == nil {
		return nil, E(ErrNotFound, "User not found")
	}
	return user, nil
}
