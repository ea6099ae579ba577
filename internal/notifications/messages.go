package notifications

import (
	"fmt"

	"github.com/lienquan/karahub/backend/internal/models"
)

// TitleFor returns the push/feed title for an event type.
func TitleFor(eventType string) string {
	switch eventType {
	case models.NotificationTypeFollow:
		return "New follower"
	case models.NotificationTypeLike:
		return "New like"
	case models.NotificationTypeComment:
		return "New comment"
	case models.NotificationTypeSystem:
		return "Report update"
	default:
		return "New activity"
	}
}

func verbFor(eventType string) string {
	switch eventType {
	case models.NotificationTypeLike:
		return "liked"
	case models.NotificationTypeComment:
		return "commented on"
	default:
		return "reacted to"
	}
}

// BuildMessage composes the human-readable notification body. count is the
// total number of actions folded into the record; actorName is the most
// recent actor.
func BuildMessage(actorName, eventType string, count int) string {
	if eventType == models.NotificationTypeFollow {
		if count <= 1 {
			return fmt.Sprintf("%s started following you.", actorName)
		}
		return fmt.Sprintf("%s and %d %s started following you.", actorName, count-1, otherWord(count-1))
	}

	if count <= 1 {
		return fmt.Sprintf("%s %s your post.", actorName, verbFor(eventType))
	}
	return fmt.Sprintf("%s and %d %s %s your post.", actorName, count-1, otherWord(count-1), verbFor(eventType))
}

func otherWord(n int) string {
	if n == 1 {
		return "other"
	}
	return "others"
}
