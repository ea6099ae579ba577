package models

import "time"

// Follow is a directed follower -> following edge. The pair is unique; the
// edge's existence is its only state.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"size:64;index;uniqueIndex:idx_follower_following"`
	FollowingID string    `json:"following_id" gorm:"size:64;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
