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

// PlaylistRepository provides MongoDB-backed persistence for playlists.
type PlaylistRepository struct {
	collection *mongo.Collection
}

// NewPlaylistRepository constructs a playlist repository over the given database.
func NewPlaylistRepository(database *mongo.Database) *PlaylistRepository {
	return &PlaylistRepository{collection: database.Collection(PlaylistsCollection)}
}

// Create stores a new playlist.
func (r *PlaylistRepository) Create(ctx context.Context, playlist models.Playlist) (models.Playlist, error) {
	now := time.Now().UTC()
	playlist.ID = primitive.NewObjectID()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}

	if _, err := r.collection.InsertOne(ctx, playlist); err != nil {
		return models.Playlist{}, wrapWriteErr("insert playlist", err)
	}
	return playlist, nil
}

// FindByID fetches a playlist by id.
func (r *PlaylistRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Playlist, error) {
	var playlist models.Playlist
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist); err != nil {
		return models.Playlist{}, wrapReadErr("select playlist by id", err)
	}
	return playlist, nil
}

// ListByOwner returns all playlists owned by the user, newest first.
func (r *PlaylistRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Playlist, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"owner": owner},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, wrapReadErr("query playlists by owner", err)
	}

	playlists := []models.Playlist{}
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, wrapReadErr("decode playlists", err)
	}
	return playlists, nil
}

// UpdateDetails replaces name and description, returning the updated record.
func (r *PlaylistRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (models.Playlist, error) {
	var playlist models.Playlist
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "description": description, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		return models.Playlist{}, wrapReadErr("update playlist", err)
	}
	return playlist, nil
}

// AddVideo appends the video if not already present ($addToSet keeps the
// list deduplicated; a duplicate add is a silent no-op).
func (r *PlaylistRepository) AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (models.Playlist, error) {
	var playlist models.Playlist
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"videos": videoID}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		return models.Playlist{}, wrapReadErr("add video to playlist", err)
	}
	return playlist, nil
}

// RemoveVideo pulls the video from the list; removing an absent video
// succeeds silently.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (models.Playlist, error) {
	var playlist models.Playlist
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"videos": videoID}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		return models.Playlist{}, wrapReadErr("remove video from playlist", err)
	}
	return playlist, nil
}

// Delete removes the playlist.
func (r *PlaylistRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapWriteErr("delete playlist", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
