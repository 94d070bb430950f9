package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/models"
)

func TestGetVideoCountsViewAndRecordsWatch(t *testing.T) {
	videos := newFakeVideoStore()
	users := newFakeUserStore()

	owner := users.add(models.User{Username: "owner"})
	viewer := users.add(models.User{Username: "viewer"})
	video := videos.add(models.Video{Title: "clip", IsPublished: true, Owner: owner.ID})

	h := VideoHandler{Videos: videos, Users: users}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+video.ID.Hex(), nil)
	req.SetPathValue("videoId", video.ID.Hex())
	rec := httptest.NewRecorder()

	h.Get(rec, asUser(req, viewer.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := videos.videos[video.ID].Views; got != 1 {
		t.Fatalf("expected 1 view, got %d", got)
	}
	history := users.users[viewer.ID].WatchHistory
	if len(history) != 1 || history[0] != video.ID {
		t.Fatalf("expected watch history [%s], got %v", video.ID.Hex(), history)
	}
}

func TestGetUnpublishedVideoHiddenFromNonOwner(t *testing.T) {
	videos := newFakeVideoStore()
	users := newFakeUserStore()

	owner := users.add(models.User{Username: "owner"})
	viewer := users.add(models.User{Username: "viewer"})
	video := videos.add(models.Video{Title: "draft", IsPublished: false, Owner: owner.ID})

	h := VideoHandler{Videos: videos, Users: users}

	get := func(caller primitive.ObjectID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+video.ID.Hex(), nil)
		req.SetPathValue("videoId", video.ID.Hex())
		rec := httptest.NewRecorder()
		h.Get(rec, asUser(req, caller))
		return rec
	}

	if rec := get(viewer.ID); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-owner, got %d", rec.Code)
	}
	if rec := get(owner.ID); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", rec.Code)
	}
}

func TestTogglePublishRequiresOwnership(t *testing.T) {
	videos := newFakeVideoStore()
	users := newFakeUserStore()

	owner := users.add(models.User{Username: "owner"})
	intruder := users.add(models.User{Username: "intruder"})
	video := videos.add(models.Video{Title: "clip", IsPublished: true, Owner: owner.ID})

	h := VideoHandler{Videos: videos, Users: users}

	toggle := func(caller primitive.ObjectID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+video.ID.Hex()+"/toggle-publish", nil)
		req.SetPathValue("videoId", video.ID.Hex())
		rec := httptest.NewRecorder()
		h.TogglePublish(rec, asUser(req, caller))
		return rec
	}

	if rec := toggle(intruder.ID); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}
	if videos.videos[video.ID].IsPublished != true {
		t.Fatal("publish state must not change on forbidden request")
	}

	if rec := toggle(owner.ID); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", rec.Code)
	}
	if videos.videos[video.ID].IsPublished != false {
		t.Fatal("expected publish state to flip")
	}
}

func TestDeleteVideoRemovesStoredMedia(t *testing.T) {
	videos := newFakeVideoStore()
	users := newFakeUserStore()
	blobs := &fakeBlobStore{}

	owner := users.add(models.User{Username: "owner"})
	video := videos.add(models.Video{
		Title:       "clip",
		VideoFile:   "https://cdn.test/videos/a.mp4",
		Thumbnail:   "https://cdn.test/thumbnails/a.jpg",
		IsPublished: true,
		Owner:       owner.ID,
	})

	h := VideoHandler{Videos: videos, Users: users, Blobs: blobs}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/videos/"+video.ID.Hex(), nil)
	req.SetPathValue("videoId", video.ID.Hex())
	rec := httptest.NewRecorder()

	h.Delete(rec, asUser(req, owner.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := videos.videos[video.ID]; ok {
		t.Fatal("expected video record to be deleted")
	}
	if len(blobs.deleted) != 2 {
		t.Fatalf("expected both media blobs deleted, got %v", blobs.deleted)
	}
}

func TestListRejectsInvalidPagination(t *testing.T) {
	h := VideoHandler{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?page=0&limit=10", nil)
	rec := httptest.NewRecorder()

	h.List(rec, asUser(req, primitive.NewObjectID()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
