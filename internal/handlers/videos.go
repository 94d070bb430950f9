package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/views"
)

// VideoHandler implements the video catalogue endpoints.
type VideoHandler struct {
	Videos         VideoStore
	Users          UserStore
	Blobs          BlobStore
	Views          VideoViews
	MaxUploadBytes int64
}

// List handles GET /api/v1/videos. Supported query parameters: page, limit,
// query (title/description search), sortBy, sortType (asc/desc) and userId.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := pageFromQuery(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	q := r.URL.Query()
	opts := views.VideoListOptions{
		Query:       strings.TrimSpace(q.Get("query")),
		SortBy:      q.Get("sortBy"),
		SortAsc:     q.Get("sortType") == "asc",
		PageRequest: req,
	}

	if raw := q.Get("userId"); raw != "" {
		ownerID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(ctx, w, badRequest("invalid userId"))
			return
		}
		opts.Owner = &ownerID
	}

	page, err := h.Views.Videos(ctx, opts)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "videos fetched", page)
}

type publishForm struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"required,max=5000"`
}

// Publish handles POST /api/v1/videos. The multipart body carries the video
// file and thumbnail alongside title, description and an optional duration
// reported by the uploading client.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		respondError(ctx, w, badRequest("invalid multipart form"))
		return
	}

	form := publishForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := validate.Struct(form); err != nil {
		respondError(ctx, w, badRequest("title and description are required"))
		return
	}

	duration := 0.0
	if raw := r.FormValue("duration"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			respondError(ctx, w, badRequest("duration must be a non-negative number"))
			return
		}
		duration = parsed
	}

	videoURL, err := h.upload(ctx, r, "videoFile", "videos", true)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	thumbnailURL, err := h.upload(ctx, r, "thumbnail", "thumbnails", true)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.Create(ctx, models.Video{
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       form.Title,
		Description: form.Description,
		Duration:    duration,
		IsPublished: true,
		Owner:       actor(ctx).ID,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info("video published", "videoId", video.ID.Hex(), "owner", video.Owner.Hex())
	respondJSON(ctx, w, http.StatusCreated, "video published", video)
}

// Get handles GET /api/v1/videos/{videoId}. Fetching a published video counts
// a view and records it in the caller's watch history. Unpublished videos are
// visible only to their owner.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.IncrementViews(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	caller := actor(ctx)
	if !video.IsPublished && video.Owner != caller.ID {
		respondError(ctx, w, notFound("video not found"))
		return
	}

	if err := h.Users.RecordWatch(ctx, caller.ID, video.ID); err != nil {
		logger.Warn("record watch history", "videoId", video.ID.Hex(), "error", err)
	}

	respondJSON(ctx, w, http.StatusOK, "video fetched", video)
}

type updateVideoRequest struct {
	Title       string `json:"title" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// Update handles PATCH /api/v1/videos/{videoId}. Title and description are
// updated from the JSON body; a multipart body may additionally replace the
// thumbnail.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if video.Owner != actor(ctx).ID {
		respondError(ctx, w, forbidden("only the owner may modify this video"))
		return
	}

	fields := bson.M{}
	oldThumbnail := ""

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
			respondError(ctx, w, badRequest("invalid multipart form"))
			return
		}
		if v := strings.TrimSpace(r.FormValue("title")); v != "" {
			fields["title"] = v
		}
		if v := strings.TrimSpace(r.FormValue("description")); v != "" {
			fields["description"] = v
		}
		url, err := h.upload(ctx, r, "thumbnail", "thumbnails", false)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		if url != "" {
			fields["thumbnail"] = url
			oldThumbnail = video.Thumbnail
		}
	} else {
		var req updateVideoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(ctx, w, err)
			return
		}
		if v := strings.TrimSpace(req.Title); v != "" {
			fields["title"] = v
		}
		if v := strings.TrimSpace(req.Description); v != "" {
			fields["description"] = v
		}
	}

	if len(fields) == 0 {
		respondError(ctx, w, badRequest("nothing to update"))
		return
	}

	updated, err := h.Videos.Update(ctx, id, fields)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if oldThumbnail != "" {
		if err := h.Blobs.Delete(ctx, oldThumbnail); err != nil {
			logger.Warn("delete replaced thumbnail", "url", oldThumbnail, "error", err)
		}
	}

	respondJSON(ctx, w, http.StatusOK, "video updated", updated)
}

// Delete handles DELETE /api/v1/videos/{videoId}. Stored media blobs are
// removed best effort after the record is gone.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if video.Owner != actor(ctx).ID {
		respondError(ctx, w, forbidden("only the owner may delete this video"))
		return
	}

	if err := h.Videos.Delete(ctx, id); err != nil {
		respondError(ctx, w, err)
		return
	}

	for _, url := range []string{video.VideoFile, video.Thumbnail} {
		if url == "" {
			continue
		}
		if err := h.Blobs.Delete(ctx, url); err != nil {
			logger.Warn("delete video media", "url", url, "error", err)
		}
	}

	logger.Info("video deleted", "videoId", id.Hex())
	respondJSON(ctx, w, http.StatusOK, "video deleted", nil)
}

// TogglePublish handles PATCH /api/v1/videos/{videoId}/toggle-publish.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if video.Owner != actor(ctx).ID {
		respondError(ctx, w, forbidden("only the owner may modify this video"))
		return
	}

	updated, err := h.Videos.SetPublished(ctx, id, !video.IsPublished)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "publish state toggled", updated)
}

func (h VideoHandler) upload(ctx context.Context, r *http.Request, field, folder string, required bool) (string, error) {
	file, header, err := formFile(r, field, required)
	if err != nil || file == nil {
		return "", err
	}
	defer file.Close()

	return h.Blobs.Upload(ctx, blobKey(folder, header.Filename), header.Header.Get("Content-Type"), file)
}
