package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/notifications"
	"github.com/lienquan/karahub/backend/internal/repositories"
	"gorm.io/gorm"
)

const notificationFeedLimit = 50

// NotificationHandler is the thin HTTP adapter over the notification engine
// and store. All merge/dedup decisions live in the engine.
type NotificationHandler struct {
	engine                 *notifications.Engine
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(engine *notifications.Engine, notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		engine:                 engine,
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.POST("/notifications/follow", h.Follow)
	g.POST("/notifications/unfollow", h.Unfollow)
	g.POST("/notifications/trigger", h.Trigger)
	g.POST("/notifications/chat", h.Chat)
	g.GET("/notifications/:userId", h.GetNotifications)
	g.GET("/notifications/:userId/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read/:id", h.MarkAsRead)
}

// Follow creates the follow edge and fires the follow notification.
func (h *NotificationHandler) Follow(c echo.Context) error {
	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	alreadyFollowing, err := h.engine.Follow(req.FollowerID, req.FollowingID)
	if err != nil {
		if err == notifications.ErrSelfFollow {
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if alreadyFollowing {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Already following"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Followed"})
}

// Unfollow removes the follow edge and retracts its notification and push.
func (h *NotificationHandler) Unfollow(c echo.Context) error {
	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.engine.Unfollow(req.FollowerID, req.FollowingID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Unfollowed"})
}

// Trigger feeds one social event into the merge engine and reports whether it
// created a fresh notification, merged into an existing one, or was ignored.
func (h *NotificationHandler) Trigger(c echo.Context) error {
	var req models.TriggerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !models.IsValidNotificationType(req.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown notification type")
	}
	// Chat pings have their own endpoint and system notices are reserved for
	// the report-resolution path.
	switch req.Type {
	case models.NotificationTypeChat, models.NotificationTypeSystem:
		return echo.NewHTTPError(http.StatusBadRequest, "type must be one of: follow, like, comment")
	}

	result, err := h.engine.Trigger(req.ActorID, req.ReceiverID, req.SourceObjectID, req.Type)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": string(result)})
}

// Chat dispatches an ephemeral chat push; nothing is persisted.
func (h *NotificationHandler) Chat(c echo.Context) error {
	var req models.ChatNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.engine.SendChatPing(req.SenderID, req.ReceiverID, req.MessageContent)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Chat notification sent"})
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(notificationList []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notificationList))
	userCache := make(map[string]models.UserCompact)

	for i, n := range notificationList {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := userCache[n.ActorID]; ok {
			enriched[i].Actor = actor
		} else {
			user, err := h.userRepository.GetUserByID(n.ActorID)
			if err == nil {
				compact := user.ToCompact()
				userCache[n.ActorID] = compact
				enriched[i].Actor = compact
			}
		}
	}
	return enriched
}

// GetNotifications returns the recipient's feed, newest first, capped at 50.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing user ID")
	}

	notificationList, err := h.notificationRepository.ListByRecipient(userID, notificationFeedLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": h.enrichNotifications(notificationList),
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing user ID")
	}

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// MarkAsRead marks a notification as read; repeating it is a no-op.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.engine.MarkRead(uint(notifID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
