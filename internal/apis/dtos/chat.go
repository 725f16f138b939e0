package dtos

import "time"

// ChatContentBlock mirrors the provider-neutral message block: plain
// text or a base64-encoded image.
type ChatContentBlock struct {
	Type      string `json:"type" binding:"required,oneof=text image"`
	Text      string `json:"text,omitempty"`
	ImageData string `json:"image_data,omitempty"` // base64
	MediaType string `json:"media_type,omitempty"`
}

type ChatRequest struct {
	Blocks      []ChatContentBlock `json:"blocks" binding:"required,min=1,dive"`
	Provider    string             `json:"provider,omitempty"`
	EquipmentID *string            `json:"equipment_id,omitempty"`
}

type ChatResponse struct {
	SessionID  string   `json:"session_id"`
	Reply      string   `json:"reply"`
	Provider   string   `json:"provider"`
	ToolsUsed  []string `json:"tools_used,omitempty"`
	TokensUsed int      `json:"tokens_used"`
	Truncated  bool     `json:"truncated,omitempty"`
}

type SessionResponse struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title"`
	EquipmentID *string   `json:"equipment_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int64             `json:"total"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ToolsUsed []string  `json:"tools_used,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageListResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
	Total    int64                 `json:"total"`
}
