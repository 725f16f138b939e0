package dtos

type EquipmentListRequest struct {
	Query  string `form:"query"`
	Status string `form:"status"`
}

type CreateEquipmentRequest struct {
	Name         string  `json:"name" binding:"required"`
	Model        string  `json:"model"`
	SerialNumber string  `json:"serial_number"`
	Location     string  `json:"location"`
	Status       string  `json:"status"`
	InstalledAt  *string `json:"installed_at,omitempty"`
}

type UpdateEquipmentRequest struct {
	Name     *string `json:"name,omitempty"`
	Model    *string `json:"model,omitempty"`
	Location *string `json:"location,omitempty"`
	Status   *string `json:"status,omitempty"`
}
