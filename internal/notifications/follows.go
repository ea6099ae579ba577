package notifications

import (
	"errors"

	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

// Follow inserts the follower -> following edge and fires the follow
// notification. A duplicate follow short-circuits with alreadyFollowing=true
// and does not re-trigger the notification.
func (e *Engine) Follow(followerID, followingID string) (alreadyFollowing bool, err error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	exists, err := e.follows.IsFollowing(followerID, followingID)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	if err := e.follows.CreateFollow(&models.Follow{FollowerID: followerID, FollowingID: followingID}); err != nil {
		return false, err
	}

	// Follow notifications have no source object; the slot is keyed by the
	// recipient alone.
	if _, err := e.Trigger(followerID, followingID, nil, models.NotificationTypeFollow); err != nil {
		// The edge is in place; the missing notification is logged, not fatal.
		logrus.WithError(err).WithFields(logrus.Fields{
			"follower_id":  followerID,
			"following_id": followingID,
		}).Error("follow notification failed")
	}
	return false, nil
}

// Unfollow removes the edge and retracts the follow notification it produced:
// the record is deleted and, when a push was dispatched for it, the provider
// is asked to withdraw it. Every step past the edge delete is best-effort.
func (e *Engine) Unfollow(followerID, followingID string) error {
	if err := e.follows.DeleteFollow(followerID, followingID); err != nil {
		return err
	}

	notification, err := e.store.FindFollowNotification(followingID, followerID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"follower_id":  followerID,
			"following_id": followingID,
		}).Warn("follow notification lookup failed during unfollow")
		return nil
	}
	if notification == nil {
		return nil
	}

	if err := e.store.Delete(notification.ID); err != nil {
		logrus.WithError(err).WithField("notification_id", notification.ID).
			Warn("failed to delete follow notification during unfollow")
		return nil
	}

	if notification.ProviderPushID != nil {
		e.push.Cancel(*notification.ProviderPushID)
	}
	return nil
}
