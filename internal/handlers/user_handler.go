package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/repositories"
	"gorm.io/gorm"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/users", h.CreateProfile)
	g.GET("/users/:id", h.GetProfile)
	g.GET("/users/search", h.SearchUsers)
}

// RegisterAdminUserRoutes registers admin user routes
func (h *UserHandler) RegisterAdminUserRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.GET("/users/find", h.FindByEmail)
	g.POST("/users/:id/lock", h.SetUserLock)
	g.DELETE("/users/:id", h.DeleteUser)
}

type createProfileRequest struct {
	ID       string `json:"id" validate:"required"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

// CreateProfile mirrors an identity-provider account into the local profile
// table.
func (h *UserHandler) CreateProfile(c echo.Context) error {
	var req createProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &models.User{
		ID:        req.ID,
		FullName:  req.FullName,
		Username:  req.Username,
		Email:     req.Email,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": user.ToCompact()})
}

// GetProfile returns a user's public profile snippet.
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user.ToCompact()})
}

// SearchUsers searches profiles by name or username.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": compact}})
}

// ListUsers returns every profile for the admin console, newest first.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepository.ListUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}

type setUserLockRequest struct {
	Locked bool `json:"locked"`
}

// SetUserLock locks or unlocks an account. Locked accounts are rejected by the
// auth middleware on their next request.
func (h *UserHandler) SetUserLock(c echo.Context) error {
	var req setUserLockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userRepository.GetUserByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user.IsLocked = req.Locked
	user.UpdatedAt = time.Now()
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	action := "unlocked"
	if req.Locked {
		action = "locked"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Account " + action})
}

// DeleteUser removes a profile. Admins cannot delete themselves here, and
// cannot delete other admins.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	targetID := c.Param("id")
	if targetID == getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot delete your own account here")
	}

	target, err := h.userRepository.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if target.Role == models.RoleAdmin && getUserRoleFromContext(c) == models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another admin account")
	}

	if err := h.userRepository.DeleteUser(targetID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User deleted"})
}

// FindByEmail is a direct indexed lookup used by admin cleanup flows.
func (h *UserHandler) FindByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing email")
	}

	user, err := h.userRepository.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}
