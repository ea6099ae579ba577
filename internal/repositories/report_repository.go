package repositories

import (
	"time"

	"github.com/lienquan/karahub/backend/internal/models"
	"gorm.io/gorm"
)

// ReportRepository defines the interface for moderation report operations
type ReportRepository interface {
	CreateReport(report *models.Report) error
	GetReportByID(id string) (*models.Report, error)
	// UpdateStatus sets the status and resolver and returns the updated row.
	UpdateStatus(id, status, resolverID string) (*models.Report, error)
	CountPending() (int64, error)
	ListByStatus(status string, limit int) ([]models.Report, error)
}

type postgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a new report repository for PostgreSQL
func NewPostgresReportRepository(db *gorm.DB) ReportRepository {
	return &postgresReportRepository{db: db}
}

func (r *postgresReportRepository) CreateReport(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *postgresReportRepository) GetReportByID(id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *postgresReportRepository) UpdateStatus(id, status, resolverID string) (*models.Report, error) {
	var report models.Report
	if err := r.db.Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	report.Status = status
	report.ResolverID = &resolverID
	report.UpdatedAt = time.Now()
	if err := r.db.Save(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *postgresReportRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending).Count(&count).Error
	return count, err
}

func (r *postgresReportRepository) ListByStatus(status string, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}
