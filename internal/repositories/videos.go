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

// VideoRepository provides MongoDB-backed persistence for videos.
type VideoRepository struct {
	collection *mongo.Collection
}

// NewVideoRepository constructs a video repository over the given database.
func NewVideoRepository(database *mongo.Database) *VideoRepository {
	return &VideoRepository{collection: database.Collection(VideosCollection)}
}

// Create stores a new video record.
func (r *VideoRepository) Create(ctx context.Context, video models.Video) (models.Video, error) {
	now := time.Now().UTC()
	video.ID = primitive.NewObjectID()
	video.CreatedAt = now
	video.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, video); err != nil {
		return models.Video{}, wrapWriteErr("insert video", err)
	}
	return video, nil
}

// FindByID fetches a video by id.
func (r *VideoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Video, error) {
	var video models.Video
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return models.Video{}, wrapReadErr("select video by id", err)
	}
	return video, nil
}

// IncrementViews bumps the view counter atomically and returns the updated
// record.
func (r *VideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (models.Video, error) {
	var video models.Video
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&video)
	if err != nil {
		return models.Video{}, wrapReadErr("increment video views", err)
	}
	return video, nil
}

// Update applies the provided fields and returns the updated record.
func (r *VideoRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.Video, error) {
	fields["updatedAt"] = time.Now().UTC()

	var video models.Video
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&video)
	if err != nil {
		return models.Video{}, wrapReadErr("update video", err)
	}
	return video, nil
}

// SetPublished flips the publish flag to the given value.
func (r *VideoRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (models.Video, error) {
	return r.Update(ctx, id, bson.M{"isPublished": published})
}

// Delete removes the video record.
func (r *VideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapWriteErr("delete video", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
