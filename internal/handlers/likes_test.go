package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/models"
)

func TestToggleVideoLikeAlternates(t *testing.T) {
	likes := newFakeLikeStore()
	videos := newFakeVideoStore()

	user := primitive.NewObjectID()
	video := videos.add(models.Video{Title: "clip", IsPublished: true, Owner: primitive.NewObjectID()})

	h := LikeHandler{Likes: likes, Videos: videos}

	toggle := func() toggleResult {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/"+video.ID.Hex(), nil)
		req.SetPathValue("videoId", video.ID.Hex())
		rec := httptest.NewRecorder()
		h.ToggleVideo(rec, asUser(req, user))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		var result toggleResult
		if err := json.Unmarshal(env.Data, &result); err != nil {
			t.Fatalf("decode toggle result: %v", err)
		}
		return result
	}

	if result := toggle(); !result.Liked {
		t.Fatal("first toggle should like")
	}
	if len(likes.likes) != 1 {
		t.Fatalf("expected exactly one like, got %d", len(likes.likes))
	}
	if result := toggle(); result.Liked {
		t.Fatal("second toggle should unlike")
	}
	if len(likes.likes) != 0 {
		t.Fatalf("expected no likes after unlike, got %d", len(likes.likes))
	}
}

func TestToggleLikeOnMissingTarget(t *testing.T) {
	h := LikeHandler{Likes: newFakeLikeStore(), Videos: newFakeVideoStore(), Comments: newFakeCommentStore(), Tweets: newFakeTweetStore()}

	missing := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/c/"+missing.Hex(), nil)
	req.SetPathValue("commentId", missing.Hex())
	rec := httptest.NewRecorder()

	h.ToggleComment(rec, asUser(req, primitive.NewObjectID()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestToggleLikeRejectsMalformedID(t *testing.T) {
	h := LikeHandler{Likes: newFakeLikeStore(), Videos: newFakeVideoStore()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/not-an-id", nil)
	req.SetPathValue("videoId", "not-an-id")
	rec := httptest.NewRecorder()

	h.ToggleVideo(rec, asUser(req, primitive.NewObjectID()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
