package dtos

type CreateAlertRequest struct {
	EquipmentID string  `json:"equipment_id" binding:"required"`
	Parameter   string  `json:"parameter" binding:"required"`
	Severity    string  `json:"severity" binding:"required,oneof=info warning critical"`
	Message     string  `json:"message" binding:"required"`
	Value       float64 `json:"value"`
	Threshold   float64 `json:"threshold"`
}

type TelemetrySyncRequest struct {
	EquipmentID string `json:"equipment_id" binding:"required"`
	MeterID     string `json:"meter_id"`
}
