package models

import "time"

// Report statuses. A report leaves "pending" exactly once; the transition
// fires the report-resolution notifier.
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// Reportable target kinds.
const (
	ReportTargetSong    = "song"
	ReportTargetUser    = "user"
	ReportTargetMoment  = "moment"
	ReportTargetComment = "comment"
)

// Report is a moderation report filed by a user against a song, user, moment
// or comment.
type Report struct {
	ID         string    `json:"id" gorm:"primaryKey;size:64"`
	ReporterID string    `json:"reporter_id" gorm:"size:64;index"`
	TargetID   string    `json:"target_id" gorm:"size:64"`
	TargetType string    `json:"target_type" gorm:"size:20"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status" gorm:"size:20;default:pending;index"`
	ResolverID *string   `json:"resolver_id" gorm:"size:64"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateReportRequest struct {
	ReporterID string `json:"reporter_id" validate:"required"`
	TargetID   string `json:"target_id" validate:"required"`
	TargetType string `json:"target_type" validate:"required,oneof=song user moment comment"`
	Reason     string `json:"reason" validate:"required,max=500"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved rejected"`
}
