package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clipstream/backend/internal/models"
)

// TweetRepository provides MongoDB-backed persistence for tweets.
type TweetRepository struct {
	collection *mongo.Collection
}

// NewTweetRepository constructs a tweet repository over the given database.
func NewTweetRepository(database *mongo.Database) *TweetRepository {
	return &TweetRepository{collection: database.Collection(TweetsCollection)}
}

// Create stores a new tweet.
func (r *TweetRepository) Create(ctx context.Context, tweet models.Tweet) (models.Tweet, error) {
	now := time.Now().UTC()
	tweet.ID = primitive.NewObjectID()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, tweet); err != nil {
		return models.Tweet{}, wrapWriteErr("insert tweet", err)
	}
	return tweet, nil
}

// FindByID fetches a tweet by id.
func (r *TweetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Tweet, error) {
	var tweet models.Tweet
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tweet); err != nil {
		return models.Tweet{}, wrapReadErr("select tweet by id", err)
	}
	return tweet, nil
}

// UpdateContent replaces the tweet body and returns the updated record.
func (r *TweetRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Tweet, error) {
	var tweet models.Tweet
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tweet)
	if err != nil {
		return models.Tweet{}, wrapReadErr("update tweet", err)
	}
	return tweet, nil
}

// Delete removes the tweet.
func (r *TweetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapWriteErr("delete tweet", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
