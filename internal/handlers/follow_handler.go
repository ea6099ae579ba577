package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/repositories"
)

// FollowHandler exposes the follow graph: who follows whom, and how many.
type FollowHandler struct {
	followRepository repositories.FollowRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository) *FollowHandler {
	return &FollowHandler{followRepository: followRepo}
}

// RegisterFollowRoutes registers follow graph routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/follow-stats", h.GetFollowStats)
}

// GetFollowers returns the users following the given user.
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	users, err := h.followRepository.GetFollowers(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": toCompactList(users)}})
}

// GetFollowing returns the users the given user follows.
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	users, err := h.followRepository.GetFollowing(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": toCompactList(users)}})
}

// GetFollowStats returns follower and following counts for a profile page.
func (h *FollowHandler) GetFollowStats(c echo.Context) error {
	userID := c.Param("id")
	followers, err := h.followRepository.GetFollowersCount(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	following, err := h.followRepository.GetFollowingCount(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"followers": followers, "following": following},
	})
}

func toCompactList(users []models.User) []models.UserCompact {
	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return compact
}
