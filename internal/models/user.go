package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role values carried on the authenticated principal.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the identity provider's profile data locally so notification
// text and feed decoration never require a remote call.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"` // external auth UID
	FullName  string    `json:"full_name"`
	Username  string    `json:"username" gorm:"uniqueIndex"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role" gorm:"size:20;default:user"`
	IsLocked  bool      `json:"is_locked" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCompact is the actor snippet attached to notification feed entries.
type UserCompact struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// ToCompact strips a user down to the fields safe to embed in feeds.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		FullName:  u.FullName,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsLocked bool   `json:"is_locked"`
	jwt.RegisteredClaims
}
