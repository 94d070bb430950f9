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

// CommentRepository provides MongoDB-backed persistence for comments.
type CommentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository constructs a comment repository over the given database.
func NewCommentRepository(database *mongo.Database) *CommentRepository {
	return &CommentRepository{collection: database.Collection(CommentsCollection)}
}

// Create stores a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		return models.Comment{}, wrapWriteErr("insert comment", err)
	}
	return comment, nil
}

// FindByID fetches a comment by id.
func (r *CommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return models.Comment{}, wrapReadErr("select comment by id", err)
	}
	return comment, nil
}

// UpdateContent replaces the comment body and returns the updated record.
func (r *CommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		return models.Comment{}, wrapReadErr("update comment", err)
	}
	return comment, nil
}

// Delete removes the comment.
func (r *CommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapWriteErr("delete comment", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
