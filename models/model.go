package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the authorization tier of a user account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Status is the per-user completion marker for an assignment.
type Status string

const (
	StatusDone    Status = "done"
	StatusPending Status = "pending"
)

// ValidStatus reports whether s is one of the allowed status values.
func ValidStatus(s Status) bool {
	return s == StatusDone || s == StatusPending
}

// DeadlineLayout is the accepted format for assignment deadlines.
const DeadlineLayout = "2006-01-02 15:04"

type User struct {
	gorm.Model
	Username string `gorm:"size:80;not null;unique" json:"username"`
	Password string `gorm:"size:120;not null" json:"-"` // bcrypt hash
	Role     Role   `gorm:"size:20;not null;default:student" json:"role"`
}

type Assignment struct {
	gorm.Model
	Title       string `gorm:"size:120;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Deadline    string `gorm:"size:50;not null" json:"deadline"`
}

// HomeworkStatus holds one row per (user, assignment) pair; the composite
// unique index makes the upsert atomic under concurrent requests.
type HomeworkStatus struct {
	gorm.Model
	UserID       uint       `gorm:"not null;uniqueIndex:idx_user_assignment"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_user_assignment"`
	Status       Status     `gorm:"size:20;not null"`
	User         User       `gorm:"foreignKey:UserID"`
	Assignment   Assignment `gorm:"foreignKey:AssignmentID"`
}

// Session binds a browser cookie token to an authenticated user.
type Session struct {
	Token     string `gorm:"size:36;primaryKey"`
	UserID    uint   `gorm:"not null"`
	User      User   `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type AssignmentForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	Deadline    string `form:"deadline" binding:"required"`
}

type LeaderboardEntry struct {
	Username  string
	Completed int
}
