package models

import "time"

// Alert is a water-quality or equipment alert row in the SQL store.
type Alert struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"index;size:64" json:"user_id"`
	EquipmentID string    `gorm:"index;size:64" json:"equipment_id"`
	Parameter   string    `gorm:"size:32" json:"parameter"` // ph, hardness, turbidity, chlorine...
	Severity    string    `gorm:"size:16" json:"severity"`  // info, warning, critical
	Message     string    `json:"message"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
	Resolved    bool      `gorm:"index" json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
