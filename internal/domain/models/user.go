package models

import "time"

// Role is the caller's capability set.
type Role string

const (
	RoleStudent  Role = "student"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleReviewer || r == RoleAdmin
}

// User is the profile stored next to the identity account.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	RollNumber string    `json:"roll_number,omitempty"`
	Role       Role      `json:"role"`
	MentorID   string    `json:"mentor_id,omitempty"`
	ClassID    string    `json:"class_id,omitempty"`
	IsPaid     bool      `json:"is_paid"`
	CreatedAt  time.Time `json:"created_at"`
}

// Class groups students of one department.
type Class struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
