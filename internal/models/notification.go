package models

import "time"

// Notification event types. Chat is push-only and never persisted.
const (
	NotificationTypeFollow  = "follow"
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeChat    = "chat"
	NotificationTypeSystem  = "system"
)

// Notification represents one row in the recipient's notification feed
// (PostgreSQL). A row may aggregate several actions on the same object:
// ActionCount tracks how many, and ActorID always holds the most recent actor.
type Notification struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	RecipientID    string    `json:"recipient_id" gorm:"size:64;index"`
	ActorID        string    `json:"actor_id" gorm:"size:64;index"`
	SourceObjectID *string   `json:"source_object_id" gorm:"size:64;index"`
	Type           string    `json:"type" gorm:"size:20;index"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ActionCount    int       `json:"action_count" gorm:"default:1"`
	IsRead         bool      `json:"is_read" gorm:"default:false;index"`
	ProviderPushID *string   `json:"provider_push_id"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"index"`
}

// IsValidNotificationType reports whether t is a known notification event type.
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeFollow, NotificationTypeLike, NotificationTypeComment, NotificationTypeChat, NotificationTypeSystem:
		return true
	}
	return false
}

type FollowRequest struct {
	FollowerID  string `json:"follower_id" validate:"required"`
	FollowingID string `json:"following_id" validate:"required"`
}

type TriggerRequest struct {
	ActorID        string  `json:"actor_id" validate:"required"`
	ReceiverID     string  `json:"receiver_id" validate:"required"`
	SourceObjectID *string `json:"source_object_id"`
	Type           string  `json:"type" validate:"required"`
}

type ChatNotificationRequest struct {
	SenderID       string `json:"sender_id" validate:"required"`
	ReceiverID     string `json:"receiver_id" validate:"required"`
	MessageContent string `json:"message_content" validate:"required"`
}
