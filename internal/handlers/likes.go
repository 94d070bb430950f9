package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/repositories"
)

// LikeHandler implements the like toggle endpoints for videos, comments and
// tweets.
type LikeHandler struct {
	Likes    LikeStore
	Videos   VideoStore
	Comments CommentStore
	Tweets   TweetStore
	Views    LikeViews
}

type toggleResult struct {
	Liked bool `json:"liked"`
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, repositories.LikeTargetVideo, "videoId", func(ctx context.Context, id primitive.ObjectID) error {
		_, err := h.Videos.FindByID(ctx, id)
		return err
	})
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, repositories.LikeTargetComment, "commentId", func(ctx context.Context, id primitive.ObjectID) error {
		_, err := h.Comments.FindByID(ctx, id)
		return err
	})
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, repositories.LikeTargetTweet, "tweetId", func(ctx context.Context, id primitive.ObjectID) error {
		_, err := h.Tweets.FindByID(ctx, id)
		return err
	})
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	liked, err := h.Views.LikedVideos(ctx, actor(ctx).ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "liked videos fetched", liked)
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target repositories.LikeTarget, param string, exists func(context.Context, primitive.ObjectID) error) {
	ctx := r.Context()

	targetID, err := pathID(r, param)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := exists(ctx, targetID); err != nil {
		respondError(ctx, w, err)
		return
	}

	userID := actor(ctx).ID

	existing, err := h.Likes.FindByTarget(ctx, target, targetID, userID)
	switch {
	case err == nil:
		if err := h.Likes.Delete(ctx, existing.ID); err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, "like removed", toggleResult{Liked: false})
	case errors.Is(err, repositories.ErrNotFound):
		if _, err := h.Likes.Create(ctx, target, targetID, userID); err != nil {
			// A concurrent toggle may have won the race; the unique index
			// guarantees at most one like either way.
			if errors.Is(err, repositories.ErrConflict) {
				respondJSON(ctx, w, http.StatusOK, "like added", toggleResult{Liked: true})
				return
			}
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, "like added", toggleResult{Liked: true})
	default:
		respondError(ctx, w, err)
	}
}
