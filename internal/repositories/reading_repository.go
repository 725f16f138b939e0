package repositories

import (
	"errors"
	"time"

	"aquabot-ai/internal/models"

	"gorm.io/gorm"
)

type ReadingRepository interface {
	CreateBatch(readings []*models.WaterReading) error
	FindByEquipmentID(equipmentID string, since time.Time, limit int) ([]*models.WaterReading, error)
	FindLatestByParameter(equipmentID, parameter string) (*models.WaterReading, error)
}

type readingRepository struct {
	db *gorm.DB
}

func NewReadingRepository(db *gorm.DB) ReadingRepository {
	return &readingRepository{db: db}
}

func (r *readingRepository) CreateBatch(readings []*models.WaterReading) error {
	if len(readings) == 0 {
		return nil
	}
	return r.db.Create(&readings).Error
}

func (r *readingRepository) FindByEquipmentID(equipmentID string, since time.Time, limit int) ([]*models.WaterReading, error) {
	var readings []*models.WaterReading
	err := r.db.
		Where("equipment_id = ? AND measured_at >= ?", equipmentID, since).
		Order("measured_at DESC").
		Limit(limit).
		Find(&readings).Error
	return readings, err
}

func (r *readingRepository) FindLatestByParameter(equipmentID, parameter string) (*models.WaterReading, error) {
	var reading models.WaterReading
	err := r.db.
		Where("equipment_id = ? AND parameter = ?", equipmentID, parameter).
		Order("measured_at DESC").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}
