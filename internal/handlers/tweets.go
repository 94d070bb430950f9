package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/clipstream/backend/internal/models"
)

// maxTweetLength bounds tweet content in runes.
const maxTweetLength = 280

// TweetHandler implements the microblog endpoints.
type TweetHandler struct {
	Tweets TweetStore
	Views  TweetViews
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content, err := validTweet(req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet, err := h.Tweets.Create(ctx, models.Tweet{
		Content: content,
		Owner:   actor(ctx).ID,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, "tweet created", tweet)
}

// ListByUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	req, err := pageFromQuery(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	page, err := h.Views.TweetsByUser(ctx, userID, req)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "tweets fetched", page)
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "tweetId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req tweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content, err := validTweet(req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if tweet.Owner != actor(ctx).ID {
		respondError(ctx, w, forbidden("only the author may edit this tweet"))
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, id, content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "tweet updated", updated)
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "tweetId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if tweet.Owner != actor(ctx).ID {
		respondError(ctx, w, forbidden("only the author may delete this tweet"))
		return
	}

	if err := h.Tweets.Delete(ctx, id); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "tweet deleted", nil)
}

func validTweet(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", badRequest("content is required")
	}
	if utf8.RuneCountInString(content) > maxTweetLength {
		return "", badRequest("content must be at most 280 characters")
	}
	return content, nil
}
