package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clipstream/backend/internal/models"
)

// LikeTarget identifies which kind of entity a like points at. The value is
// also the document field the target id is stored under.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// LikeRepository provides MongoDB-backed persistence for likes.
type LikeRepository struct {
	collection *mongo.Collection
}

// NewLikeRepository constructs a like repository over the given database.
func NewLikeRepository(database *mongo.Database) *LikeRepository {
	return &LikeRepository{collection: database.Collection(LikesCollection)}
}

// FindByTarget fetches the like a user placed on the given target, if any.
func (r *LikeRepository) FindByTarget(ctx context.Context, target LikeTarget, targetID, userID primitive.ObjectID) (models.Like, error) {
	filter := bson.M{
		string(target): targetID,
		"likedBy":      userID,
	}

	var like models.Like
	if err := r.collection.FindOne(ctx, filter).Decode(&like); err != nil {
		return models.Like{}, wrapReadErr("select like", err)
	}
	return like, nil
}

// Create inserts a like for the given target. The partial unique index on
// (likedBy, target) turns a racing duplicate insert into ErrConflict.
func (r *LikeRepository) Create(ctx context.Context, target LikeTarget, targetID, userID primitive.ObjectID) (models.Like, error) {
	like := models.Like{
		ID:        primitive.NewObjectID(),
		LikedBy:   userID,
		CreatedAt: time.Now().UTC(),
	}
	switch target {
	case LikeTargetVideo:
		like.Video = &targetID
	case LikeTargetComment:
		like.Comment = &targetID
	case LikeTargetTweet:
		like.Tweet = &targetID
	}

	if _, err := r.collection.InsertOne(ctx, like); err != nil {
		return models.Like{}, wrapWriteErr("insert like", err)
	}
	return like, nil
}

// Delete removes a like record by id.
func (r *LikeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapWriteErr("delete like", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
