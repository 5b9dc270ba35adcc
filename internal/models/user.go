package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of access levels a token can carry.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account record. Admin accounts live in the same collection
// with RoleAdmin; the role tag in the token decides route access.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Identity is the authenticated caller, extracted once by the auth
// middleware and passed explicitly into every lifecycle operation.
type Identity struct {
	UserID string
	Role   Role
}

func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// CanModifyExam reports whether the caller may update or delete the exam:
// the owning creator, or any admin.
func (id Identity) CanModifyExam(exam *Exam) bool {
	return id.IsAdmin() || exam.CreatedBy == id.UserID
}

// CanViewResult reports whether the caller may read the result: the user
// who produced it, or any admin.
func (id Identity) CanViewResult(result *Result) bool {
	return id.IsAdmin() || result.UserID == id.UserID
}

// Claims is the JWT payload: subject id plus role tag.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
