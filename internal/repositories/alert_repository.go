package repositories

import (
	"errors"

	"aquabot-ai/internal/models"

	"gorm.io/gorm"
)

var ErrAlertNotFound = errors.New("alert not found")

type AlertRepository interface {
	Create(alert *models.Alert) error
	FindActiveByUserID(userID string, limit int) ([]*models.Alert, error)
	FindByEquipmentID(equipmentID string, limit int) ([]*models.Alert, error)
	Resolve(userID string, id uint) error
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

func (r *alertRepository) FindActiveByUserID(userID string, limit int) ([]*models.Alert, error) {
	var alerts []*models.Alert
	err := r.db.
		Where("user_id = ? AND resolved = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepository) FindByEquipmentID(equipmentID string, limit int) ([]*models.Alert, error) {
	var alerts []*models.Alert
	err := r.db.
		Where("equipment_id = ?", equipmentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

// Resolve marks the alert resolved only when it belongs to userID.
func (r *alertRepository) Resolve(userID string, id uint) error {
	result := r.db.Model(&models.Alert{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("resolved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}
