package models

import "time"

// Song is a catalog entry. Audio and cover assets live in object storage;
// only their public URLs are kept here.
type Song struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Title     string    `json:"title" gorm:"index"`
	Artist    string    `json:"artist"`
	Genre     string    `json:"genre" gorm:"size:50"`
	Lyrics    string    `json:"lyrics"`
	AudioURL  string    `json:"audio_url"`
	CoverURL  string    `json:"cover_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateSongRequest struct {
	Title  string `json:"title" validate:"required,max=200"`
	Artist string `json:"artist" validate:"required,max=100"`
	Genre  string `json:"genre" validate:"omitempty,max=50"`
	Lyrics string `json:"lyrics"`
}

type UpdateSongRequest struct {
	Title  string `json:"title" validate:"omitempty,max=200"`
	Artist string `json:"artist" validate:"omitempty,max=100"`
	Genre  string `json:"genre" validate:"omitempty,max=50"`
	Lyrics string `json:"lyrics"`
}
