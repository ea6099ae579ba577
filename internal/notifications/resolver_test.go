package notifications

import (
	"testing"

	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSafeActorName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain name", "Minh Anh", "Minh Anh"},
		{"control characters stripped", "Minh\x00\x1fAnh\x7f", "MinhAnh"},
		{"whitespace collapsed and trimmed", "  Minh \t\n  Anh  ", "Minh Anh"},
		{"empty falls back", "", FallbackActorName},
		{"whitespace only falls back", " \t\n ", FallbackActorName},
		{"control chars only falls back", "\x01\x02\x03", FallbackActorName},
		{"exactly thirty kept", "123456789012345678901234567890", "123456789012345678901234567890"},
		{"over thirty truncated to twenty-seven plus ellipsis", "1234567890123456789012345678901", "123456789012345678901234567..."},
		{"unicode name preserved", "Trần Thị Ngọc Bích", "Trần Thị Ngọc Bích"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeActorName(tt.raw))
		})
	}
}

func TestResolveDisplayName(t *testing.T) {
	users := &fakeUsers{users: map[string]*models.User{
		"full":     {ID: "full", FullName: "Minh Anh", Username: "minhanh"},
		"username": {ID: "username", Username: "minhanh"},
		"blank":    {ID: "blank"},
	}}
	r := NewResolver(users)

	t.Run("prefers full name", func(t *testing.T) {
		assert.Equal(t, "Minh Anh", r.ResolveDisplayName("full"))
	})

	t.Run("falls back to username", func(t *testing.T) {
		assert.Equal(t, "minhanh", r.ResolveDisplayName("username"))
	})

	t.Run("falls back to placeholder when both empty", func(t *testing.T) {
		assert.Equal(t, FallbackActorName, r.ResolveDisplayName("blank"))
	})

	t.Run("never fails on lookup error", func(t *testing.T) {
		assert.Equal(t, FallbackActorName, r.ResolveDisplayName("missing"))
	})
}
