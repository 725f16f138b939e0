package repositories

import (
	"context"

	"aquabot-ai/internal/models"
	"aquabot-ai/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepository interface {
	Create(message *models.ChatMessage) error
	FindRecentByUserID(userID primitive.ObjectID, limit int) ([]*models.ChatMessage, error)
	FindBySessionID(sessionID primitive.ObjectID, page, pageSize int) ([]*models.ChatMessage, int64, error)
	DeleteBySessionID(sessionID primitive.ObjectID) error
}

type messageRepository struct {
	messageCollection *mongo.Collection
}

func NewMessageRepository(mongoClient *mongodb.MongoDBClient) MessageRepository {
	return &messageRepository{
		messageCollection: mongoClient.GetCollectionByName("chatMessages"),
	}
}

func (r *messageRepository) Create(message *models.ChatMessage) error {
	_, err := r.messageCollection.InsertOne(context.Background(), message)
	return err
}

// FindRecentByUserID returns the user's last messages across sessions,
// newest first. Callers that need chronological order reverse it.
func (r *messageRepository) FindRecentByUserID(userID primitive.ObjectID, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.messageCollection.Find(context.Background(), filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.Background())

	err = cursor.All(context.Background(), &messages)
	return messages, err
}

func (r *messageRepository) FindBySessionID(sessionID primitive.ObjectID, page, pageSize int) ([]*models.ChatMessage, int64, error) {
	var messages []*models.ChatMessage
	filter := bson.M{"session_id": sessionID}

	total, err := r.messageCollection.CountDocuments(context.Background(), filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((page - 1) * pageSize)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(pageSize))

	cursor, err := r.messageCollection.Find(context.Background(), filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(context.Background())

	err = cursor.All(context.Background(), &messages)
	return messages, total, err
}

func (r *messageRepository) DeleteBySessionID(sessionID primitive.ObjectID) error {
	_, err := r.messageCollection.DeleteMany(context.Background(), bson.M{"session_id": sessionID})
	return err
}
