package notifications

import (
	"strings"

	"github.com/lienquan/karahub/backend/internal/models"
)

// FallbackActorName is used whenever a display name cannot be resolved.
const FallbackActorName = "Someone"

const maxActorNameLength = 30

// UserLookup is the slice of the user repository the resolver needs.
type UserLookup interface {
	GetUserByID(id string) (*models.User, error)
}

// Resolver produces display names safe to embed in notification text.
type Resolver struct {
	users UserLookup
}

// NewResolver creates a Resolver over the given user lookup.
func NewResolver(users UserLookup) *Resolver {
	return &Resolver{users: users}
}

// ResolveDisplayName returns a sanitized display name for the user, preferring
// full name over username. It never fails; any lookup error yields the
// fallback name.
func (r *Resolver) ResolveDisplayName(userID string) string {
	user, err := r.users.GetUserByID(userID)
	if err != nil || user == nil {
		return FallbackActorName
	}

	raw := user.FullName
	if raw == "" {
		raw = user.Username
	}
	return SafeActorName(raw)
}

// SafeActorName sanitizes a raw display name: control characters are stripped,
// whitespace runs collapse to a single space, and names longer than 30
// characters are cut to 27 plus an ellipsis. Empty results fall back to the
// generic name.
func SafeActorName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}

	name := strings.Join(strings.Fields(b.String()), " ")
	if name == "" {
		return FallbackActorName
	}

	if len([]rune(name)) > maxActorNameLength {
		name = string([]rune(name)[:maxActorNameLength-3]) + "..."
	}
	return name
}
