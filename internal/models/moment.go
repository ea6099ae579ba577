package models

import "time"

// Moment is a user's karaoke post (MongoDB). Likes and comments on a moment
// are what the merge engine coalesces.
type Moment struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	SongID      string    `json:"song_id,omitempty" bson:"song_id,omitempty"`
	Description string    `json:"description" bson:"description"`
	MediaURL    string    `json:"media_url" bson:"media_url"`
	LikesCount  int64     `json:"likes_count" bson:"likes_count"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
