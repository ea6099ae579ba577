package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	unreadCountTTL       = 5 * time.Minute
	unreadCountKeyPrefix = "notif:unread:"
)

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	// FindMergeTarget returns the single unread notification for the
	// (recipient, source object, type) slot created at or after windowStart,
	// or nil when no eligible row exists.
	FindMergeTarget(recipientID string, sourceObjectID *string, eventType string, windowStart time.Time) (*models.Notification, error)
	Insert(notification *models.Notification) error
	UpdateMerge(id uint, actorID string, actionCount int, message string) error
	MarkRead(id uint) error
	Delete(id uint) error
	ListByRecipient(recipientID string, limit int) ([]models.Notification, error)
	// FindFollowNotification looks up a follow notification by recipient and
	// actor regardless of read state or age, for unfollow retraction.
	FindFollowNotification(recipientID, actorID string) (*models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type postgresNotificationRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewPostgresNotificationRepository creates a notification repository backed
// by PostgreSQL with a Redis unread-count cache. The redis client may be nil;
// counts then always hit the database.
func NewPostgresNotificationRepository(db *gorm.DB, redisClient *redis.Client) NotificationRepository {
	return &postgresNotificationRepository{db: db, redis: redisClient}
}

func (r *postgresNotificationRepository) FindMergeTarget(recipientID string, sourceObjectID *string, eventType string, windowStart time.Time) (*models.Notification, error) {
	var notification models.Notification
	q := r.db.Where("recipient_id = ? AND type = ? AND is_read = false AND created_at >= ?", recipientID, eventType, windowStart)
	if sourceObjectID == nil {
		q = q.Where("source_object_id IS NULL")
	} else {
		q = q.Where("source_object_id = ?", *sourceObjectID)
	}
	if err := q.Order("created_at DESC").First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) Insert(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return err
	}
	r.invalidateUnreadCount(notification.RecipientID)
	return nil
}

func (r *postgresNotificationRepository) UpdateMerge(id uint, actorID string, actionCount int, message string) error {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return err
	}
	if err := r.db.Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"actor_id":     actorID,
		"action_count": actionCount,
		"message":      message,
		"updated_at":   time.Now(),
	}).Error; err != nil {
		return err
	}
	r.invalidateUnreadCount(notification.RecipientID)
	return nil
}

func (r *postgresNotificationRepository) MarkRead(id uint) error {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}
	if err := r.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error; err != nil {
		return err
	}
	r.invalidateUnreadCount(notification.RecipientID)
	return nil
}

func (r *postgresNotificationRepository) Delete(id uint) error {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := r.db.Delete(&models.Notification{}, id).Error; err != nil {
		return err
	}
	r.invalidateUnreadCount(notification.RecipientID)
	return nil
}

func (r *postgresNotificationRepository) ListByRecipient(recipientID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) FindFollowNotification(recipientID, actorID string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Where("recipient_id = ? AND actor_id = ? AND type = ?", recipientID, actorID, models.NotificationTypeFollow).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	cacheKey := unreadCountKeyPrefix + recipientID
	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, cacheKey).Int64(); err == nil {
			return cached, nil
		}
	}

	var count int64
	if err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	if r.redis != nil {
		if err := r.redis.Set(ctx, cacheKey, count, unreadCountTTL).Err(); err != nil {
			logrus.WithError(err).Warn("failed to cache unread notification count")
		}
	}
	return count, nil
}

func (r *postgresNotificationRepository) invalidateUnreadCount(recipientID string) {
	if r.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.redis.Del(ctx, unreadCountKeyPrefix+recipientID).Err(); err != nil {
		logrus.WithError(err).WithField("recipient_id", recipientID).
			Warn("failed to invalidate unread count cache")
	}
}
