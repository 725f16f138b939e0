package repositories

import (
	"context"
	"time"

	"aquabot-ai/internal/models"
	"aquabot-ai/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository interface {
	Create(session *models.ChatSession) error
	FindByID(id primitive.ObjectID) (*models.ChatSession, error)
	FindLatestByUserID(userID primitive.ObjectID) (*models.ChatSession, error)
	FindByUserID(userID primitive.ObjectID, page, pageSize int) ([]*models.ChatSession, int64, error)
	SetTitleIfEmpty(id primitive.ObjectID, title string) error
	Touch(id primitive.ObjectID) error
	Delete(id primitive.ObjectID) error
}

type sessionRepository struct {
	sessionCollection *mongo.Collection
}

func NewSessionRepository(mongoClient *mongodb.MongoDBClient) SessionRepository {
	return &sessionRepository{
		sessionCollection: mongoClient.GetCollectionByName("chatSessions"),
	}
}

func (r *sessionRepository) Create(session *models.ChatSession) error {
	_, err := r.sessionCollection.InsertOne(context.Background(), session)
	return err
}

func (r *sessionRepository) FindByID(id primitive.ObjectID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.sessionCollection.FindOne(context.Background(), bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindLatestByUserID returns the user's most recently touched session,
// or nil when the user has none.
func (r *sessionRepository) FindLatestByUserID(userID primitive.ObjectID) (*models.ChatSession, error) {
	filter := bson.M{"user_id": userID}
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	var session models.ChatSession
	err := r.sessionCollection.FindOne(context.Background(), filter, opts).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByUserID(userID primitive.ObjectID, page, pageSize int) ([]*models.ChatSession, int64, error) {
	var sessions []*models.ChatSession
	filter := bson.M{"user_id": userID}

	total, err := r.sessionCollection.CountDocuments(context.Background(), filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((page - 1) * pageSize)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(pageSize)).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.sessionCollection.Find(context.Background(), filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(context.Background())

	err = cursor.All(context.Background(), &sessions)
	return sessions, total, err
}

// SetTitleIfEmpty writes the title only when none is set yet. The
// filter makes the first write win, concurrent writers lose quietly.
func (r *sessionRepository) SetTitleIfEmpty(id primitive.ObjectID, title string) error {
	filter := bson.M{"_id": id, "title": nil}
	update := bson.M{"$set": bson.M{"title": title, "updated_at": time.Now()}}
	_, err := r.sessionCollection.UpdateOne(context.Background(), filter, update)
	return err
}

func (r *sessionRepository) Touch(id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
	_, err := r.sessionCollection.UpdateOne(context.Background(), filter, update)
	return err
}

func (r *sessionRepository) Delete(id primitive.ObjectID) error {
	_, err := r.sessionCollection.DeleteOne(context.Background(), bson.M{"_id": id})
	return err
}
