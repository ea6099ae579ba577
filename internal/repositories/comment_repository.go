package repositories

import (
	"github.com/lienquan/karahub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for moment comment operations
type CommentRepository interface {
	CreateComment(comment *models.MomentComment) error
	GetCommentByID(id uint) (*models.MomentComment, error)
	GetCommentsByMomentID(momentID string, limit int) ([]models.MomentComment, error)
	DeleteComment(id uint) error
}

type postgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new comment repository for PostgreSQL
func NewPostgresCommentRepository(db *gorm.DB) CommentRepository {
	return &postgresCommentRepository{db: db}
}

func (r *postgresCommentRepository) CreateComment(comment *models.MomentComment) error {
	return r.db.Create(comment).Error
}

func (r *postgresCommentRepository) GetCommentByID(id uint) (*models.MomentComment, error) {
	var comment models.MomentComment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *postgresCommentRepository) GetCommentsByMomentID(momentID string, limit int) ([]models.MomentComment, error) {
	var comments []models.MomentComment
	err := r.db.Where("moment_id = ?", momentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *postgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Delete(&models.MomentComment{}, id).Error
}
