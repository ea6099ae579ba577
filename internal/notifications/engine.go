package notifications

import (
	"time"

	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// DefaultMergeWindow bounds how long a burst of activity on one object keeps
// coalescing into a single unread notification.
const DefaultMergeWindow = time.Hour

// Result reports what Trigger did with an event.
type Result string

const (
	ResultCreated Result = "created"
	ResultMerged  Result = "merged"
	ResultIgnored Result = "ignored"
)

// Engine is the notification state machine: it decides whether an inbound
// social event creates a fresh notification plus a push, or merges into an
// existing unread one with no push. It also owns follow retraction and the
// one-shot report notifier.
//
// Concurrency note: two simultaneous triggers for the same slot may both miss
// the merge target and both insert. That race is accepted; the store does not
// serialize per-slot access.
type Engine struct {
	store    repositories.NotificationRepository
	follows  repositories.FollowRepository
	push     PushGateway
	resolver *Resolver
	labeler  TargetLabeler
	window   time.Duration
	now      func() time.Time
}

// NewEngine creates an Engine. A non-positive window falls back to
// DefaultMergeWindow. labeler may be nil when the report notifier is unused.
func NewEngine(store repositories.NotificationRepository, follows repositories.FollowRepository, push PushGateway, resolver *Resolver, labeler TargetLabeler, window time.Duration) *Engine {
	if window <= 0 {
		window = DefaultMergeWindow
	}
	return &Engine{
		store:    store,
		follows:  follows,
		push:     push,
		resolver: resolver,
		labeler:  labeler,
		window:   window,
		now:      time.Now,
	}
}

// Trigger processes one inbound social event for the slot
// (recipientID, sourceObjectID, eventType).
//
// Self-actions are ignored. When an unread notification for the slot exists
// within the merge window, the event folds into it and no push is sent.
// Otherwise the push goes out first (failure tolerated) and a fresh record is
// inserted carrying the provider's push ID. Only a store-write failure is
// returned as an error.
func (e *Engine) Trigger(actorID, recipientID string, sourceObjectID *string, eventType string) (Result, error) {
	if actorID == recipientID {
		return ResultIgnored, nil
	}

	actorName := e.resolver.ResolveDisplayName(actorID)

	windowStart := e.now().Add(-e.window)
	target, err := e.store.FindMergeTarget(recipientID, sourceObjectID, eventType, windowStart)
	if err != nil {
		// Degrade to the create path; a lookup failure must not drop the event.
		logrus.WithError(err).WithFields(logrus.Fields{
			"recipient_id": recipientID,
			"type":         eventType,
		}).Error("merge target lookup failed, falling back to create")
		target = nil
	}

	if target != nil {
		newCount := target.ActionCount + 1
		message := BuildMessage(actorName, eventType, newCount)
		if err := e.store.UpdateMerge(target.ID, actorID, newCount, message); err != nil {
			return "", err
		}
		return ResultMerged, nil
	}

	message := BuildMessage(actorName, eventType, 1)
	_, err = e.createAndSend(recipientID, actorID, sourceObjectID, eventType, TitleFor(eventType), message)
	if err != nil {
		return "", err
	}
	return ResultCreated, nil
}

// MarkRead closes the record's merge slot. Marking an already-read record is
// a no-op.
func (e *Engine) MarkRead(id uint) error {
	return e.store.MarkRead(id)
}

// createAndSend is the shared create path: push first, then the store write.
// The returned record carries the provider push ID when dispatch succeeded.
func (e *Engine) createAndSend(recipientID, actorID string, sourceObjectID *string, eventType, title, message string) (*models.Notification, error) {
	data := map[string]string{
		"click_action": "FLUTTER_NOTIFICATION_CLICK",
		"type":         eventType,
	}
	if sourceObjectID != nil {
		data["source_object_id"] = *sourceObjectID
	}

	var providerID *string
	if result := e.push.Send([]string{recipientID}, title, message, data); result != nil {
		providerID = &result.ProviderID
	}

	now := e.now()
	notification := &models.Notification{
		RecipientID:    recipientID,
		ActorID:        actorID,
		SourceObjectID: sourceObjectID,
		Type:           eventType,
		Title:          title,
		Message:        message,
		ActionCount:    1,
		IsRead:         false,
		ProviderPushID: providerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.store.Insert(notification); err != nil {
		return nil, err
	}
	return notification, nil
}
