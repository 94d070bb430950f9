package handlers

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/views"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetMediaURL(ctx context.Context, id primitive.ObjectID, field, url string) (models.User, error)
	RecordWatch(ctx context.Context, userID, videoID primitive.ObjectID) error
}

// TokenManager hashes passwords and drives the access/refresh token lifecycle.
type TokenManager interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, hash string) bool
	Rotate(ctx context.Context, userID string) (auth.TokenPair, error)
	VerifyAccessToken(token string) (auth.Identity, error)
	VerifyRefreshToken(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, userID string) error
}

// VideoStore captures persistence for video records.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (models.Video, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.Video, error)
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (models.Video, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CommentStore captures persistence for video comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) (models.Comment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TweetStore captures persistence for tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) (models.Tweet, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Tweet, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Tweet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// LikeStore captures persistence for likes across all likeable targets.
type LikeStore interface {
	FindByTarget(ctx context.Context, target repositories.LikeTarget, targetID, userID primitive.ObjectID) (models.Like, error)
	Create(ctx context.Context, target repositories.LikeTarget, targetID, userID primitive.ObjectID) (models.Like, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlaylistStore captures persistence for playlists.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) (models.Playlist, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Playlist, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Playlist, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (models.Playlist, error)
	AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (models.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (models.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SubscriptionStore captures persistence for channel subscriptions.
type SubscriptionStore interface {
	Find(ctx context.Context, subscriber, channel primitive.ObjectID) (models.Subscription, error)
	Create(ctx context.Context, subscriber, channel primitive.ObjectID) (models.Subscription, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BlobStore persists uploaded media and exposes public URLs for it.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// UserViews builds the aggregated read models served by the user handlers.
type UserViews interface {
	ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (views.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]views.VideoWithOwner, error)
}

// VideoViews builds paginated video listings with joined owner details.
type VideoViews interface {
	Videos(ctx context.Context, opts views.VideoListOptions) (views.Page[views.VideoWithOwner], error)
}

// CommentViews builds paginated comment listings with joined owner details.
type CommentViews interface {
	CommentsByVideo(ctx context.Context, videoID primitive.ObjectID, req views.PageRequest) (views.Page[views.CommentWithOwner], error)
}

// TweetViews builds paginated tweet listings with joined owner details.
type TweetViews interface {
	TweetsByUser(ctx context.Context, userID primitive.ObjectID, req views.PageRequest) (views.Page[views.TweetWithOwner], error)
}

// LikeViews builds the liked-video listing for a user.
type LikeViews interface {
	LikedVideos(ctx context.Context, userID primitive.ObjectID) ([]views.VideoWithOwner, error)
}

// SubscriptionViews builds subscriber and subscribed-channel listings.
type SubscriptionViews interface {
	Subscribers(ctx context.Context, channelID, viewer primitive.ObjectID) ([]views.SubscriberInfo, error)
	SubscribedChannels(ctx context.Context, subscriberID, viewer primitive.ObjectID) ([]views.ChannelSummary, error)
}

// DashboardViews builds the channel owner's dashboard read models.
type DashboardViews interface {
	ChannelStats(ctx context.Context, ownerID primitive.ObjectID) (views.ChannelStats, error)
	ChannelVideos(ctx context.Context, ownerID primitive.ObjectID, sortBy string, sortAsc bool, req views.PageRequest) (views.Page[views.VideoWithOwner], error)
}
