package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ChatSession groups a user's messages. A session is reused while the
// user keeps talking within the continuity window and is never deleted
// by the chat subsystem.
type ChatSession struct {
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title       *string            `bson:"title,omitempty" json:"title,omitempty"`
	EquipmentID *string            `bson:"equipment_id,omitempty" json:"equipment_id,omitempty"`
	Base        `bson:",inline"`
}

func NewChatSession(userID primitive.ObjectID, equipmentID *string) *ChatSession {
	return &ChatSession{
		UserID:      userID,
		EquipmentID: equipmentID,
		Base:        NewBase(),
	}
}
