package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChatMessage is the persisted form of one chat turn. Image content is
// replaced with a placeholder before the row is written; tool calls and
// results are never persisted.
type ChatMessage struct {
	SessionID primitive.ObjectID `bson:"session_id" json:"session_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"` // 'user' or 'assistant'
	Content   string             `bson:"content" json:"content"`
	ToolsUsed []string           `bson:"tools_used,omitempty" json:"tools_used,omitempty"`
	Base      `bson:",inline"`
}

func NewChatMessage(sessionID, userID primitive.ObjectID, role, content string, toolsUsed []string) *ChatMessage {
	return &ChatMessage{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		ToolsUsed: toolsUsed,
		Base:      NewBase(),
	}
}
