package models

import "time"

// WaterReading is one measurement fetched from the IoT water meter API.
type WaterReading struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EquipmentID string    `gorm:"index;size:64" json:"equipment_id"`
	MeterID     string    `gorm:"index;size:64" json:"meter_id"`
	Parameter   string    `gorm:"size:32" json:"parameter"`
	Value       float64   `json:"value"`
	Unit        string    `gorm:"size:16" json:"unit"`
	MeasuredAt  time.Time `gorm:"index" json:"measured_at"`
	CreatedAt   time.Time `json:"created_at"`
}
