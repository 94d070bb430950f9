package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names used across repositories and the view builder.
const (
	UsersCollection         = "users"
	VideosCollection        = "videos"
	CommentsCollection      = "comments"
	TweetsCollection        = "tweets"
	LikesCollection         = "likes"
	PlaylistsCollection     = "playlists"
	SubscriptionsCollection = "subscriptions"
)

// wrapWriteErr normalises driver write errors into repository sentinels.
func wrapWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

// wrapReadErr normalises driver read errors into repository sentinels.
func wrapReadErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
