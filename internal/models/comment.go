package models

import "time"

// MomentComment is a comment left on a moment (PostgreSQL).
type MomentComment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MomentID  string    `json:"moment_id" gorm:"size:64;index"`
	UserID    string    `json:"user_id" gorm:"size:64;index"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Content string `json:"content" validate:"required,max=1000"`
}
