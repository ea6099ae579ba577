package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lienquan/karahub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MomentRepository defines the interface for moment data operations
type MomentRepository interface {
	CreateMoment(ctx context.Context, moment *models.Moment) error
	GetMomentByID(ctx context.Context, id string) (*models.Moment, error)
	GetMomentsByUserID(ctx context.Context, userID string, skip, limit int64) ([]models.Moment, error)
	DeleteMoment(ctx context.Context, id string) error
	IncrementLikesCount(ctx context.Context, momentID string) error
	DecrementLikesCount(ctx context.Context, momentID string) error
}

// MongoMomentRepository implements MomentRepository for MongoDB
type MongoMomentRepository struct {
	collection *mongo.Collection
}

// NewMongoMomentRepository creates a new MongoMomentRepository
func NewMongoMomentRepository(db *mongo.Database) *MongoMomentRepository {
	return &MongoMomentRepository{collection: db.Collection("moments")}
}

// CreateMoment creates a new moment in MongoDB
func (r *MongoMomentRepository) CreateMoment(ctx context.Context, moment *models.Moment) error {
	if moment.ID == "" {
		moment.ID = uuid.NewString()
	}
	moment.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, moment)
	return err
}

// GetMomentByID retrieves a moment by ID from MongoDB
func (r *MongoMomentRepository) GetMomentByID(ctx context.Context, id string) (*models.Moment, error) {
	var moment models.Moment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&moment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("moment not found")
		}
		return nil, err
	}
	return &moment, nil
}

// GetMomentsByUserID retrieves moments posted by a specific user
func (r *MongoMomentRepository) GetMomentsByUserID(ctx context.Context, userID string, skip, limit int64) ([]models.Moment, error) {
	var moments []models.Moment
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &moments); err != nil {
		return nil, err
	}
	return moments, nil
}

// DeleteMoment deletes a moment by ID from MongoDB
func (r *MongoMomentRepository) DeleteMoment(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("moment not found")
	}
	return nil
}

// IncrementLikesCount increments the likes count of a moment
func (r *MongoMomentRepository) IncrementLikesCount(ctx context.Context, momentID string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": momentID}, bson.M{"$inc": bson.M{"likes_count": 1}})
	return err
}

// DecrementLikesCount decrements the likes count of a moment
func (r *MongoMomentRepository) DecrementLikesCount(ctx context.Context, momentID string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": momentID, "likes_count": bson.M{"$gt": 0}}, bson.M{"$inc": bson.M{"likes_count": -1}})
	return err
}
