package app

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/config"
	"github.com/clipstream/backend/internal/handlers"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/storage"
	"github.com/clipstream/backend/internal/views"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, database *mongo.Database, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewUserRepository(database)

	tokens, err := auth.NewTokenService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, users)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	blobs, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	builder := views.NewBuilder(database)

	return handlers.Dependencies{
		Users:         users,
		Tokens:        tokens,
		Videos:        repositories.NewVideoRepository(database),
		Comments:      repositories.NewCommentRepository(database),
		Tweets:        repositories.NewTweetRepository(database),
		Likes:         repositories.NewLikeRepository(database),
		Playlists:     repositories.NewPlaylistRepository(database),
		Subscriptions: repositories.NewSubscriptionRepository(database),
		Blobs:         blobs,

		UserViews:         builder,
		VideoViews:        builder,
		CommentViews:      builder,
		TweetViews:        builder,
		LikeViews:         builder,
		SubscriptionViews: builder,
		DashboardViews:    builder,

		MaxUploadBytes: cfg.MaxUploadBytes,
	}, nil
}
