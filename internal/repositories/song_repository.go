package repositories

import (
	"github.com/lienquan/karahub/backend/internal/models"
	"gorm.io/gorm"
)

// SongRepository defines the interface for song catalog operations
type SongRepository interface {
	CreateSong(song *models.Song) error
	GetSongByID(id string) (*models.Song, error)
	ListSongs(page, limit int) ([]models.Song, int64, error)
	UpdateSong(song *models.Song) error
	DeleteSong(id string) error
}

type postgresSongRepository struct {
	db *gorm.DB
}

// NewPostgresSongRepository creates a new song repository for PostgreSQL
func NewPostgresSongRepository(db *gorm.DB) SongRepository {
	return &postgresSongRepository{db: db}
}

func (r *postgresSongRepository) CreateSong(song *models.Song) error {
	return r.db.Create(song).Error
}

func (r *postgresSongRepository) GetSongByID(id string) (*models.Song, error) {
	var song models.Song
	if err := r.db.Where("id = ?", id).First(&song).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *postgresSongRepository) ListSongs(page, limit int) ([]models.Song, int64, error) {
	var songs []models.Song
	var total int64

	r.db.Model(&models.Song{}).Count(&total)

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&songs).Error

	return songs, total, err
}

func (r *postgresSongRepository) UpdateSong(song *models.Song) error {
	return r.db.Save(song).Error
}

func (r *postgresSongRepository) DeleteSong(id string) error {
	return r.db.Delete(&models.Song{}, "id = ?", id).Error
}
