package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/clipstream/backend/internal/models"
)

// maxCommentLength bounds comment content in runes.
const maxCommentLength = 500

// CommentHandler implements the video comment endpoints.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	Views    CommentViews
}

type commentRequest struct {
	Content string `json:"content"`
}

// ListByVideo handles GET /api/v1/comments/{videoId}.
func (h CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	req, err := pageFromQuery(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	page, err := h.Views.CommentsByVideo(ctx, videoID, req)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "comments fetched", page)
}

// Create handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content, err := validComment(req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	// Commenting on a missing video is a 404, not an orphaned record.
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err)
		return
	}

	comment, err := h.Comments.Create(ctx, models.Comment{
		Content: content,
		Video:   videoID,
		Owner:   actor(ctx).ID,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, "comment added", comment)
}

// Update handles PATCH /api/v1/comments/c/{commentId}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "commentId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	content, err := validComment(req.Content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if comment.Owner != actor(ctx).ID {
		respondError(ctx, w, forbidden("only the author may edit this comment"))
		return
	}

	updated, err := h.Comments.UpdateContent(ctx, id, content)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "comment updated", updated)
}

// Delete handles DELETE /api/v1/comments/c/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "commentId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if comment.Owner != actor(ctx).ID {
		respondError(ctx, w, forbidden("only the author may delete this comment"))
		return
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "comment deleted", nil)
}

func validComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", badRequest("content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", badRequest("content must be at most 500 characters")
	}
	return content, nil
}
