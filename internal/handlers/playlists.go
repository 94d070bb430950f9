package handlers

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/models"
)

// PlaylistHandler implements the playlist endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoStore
}

type playlistRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req playlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	playlist, err := h.Playlists.Create(ctx, models.Playlist{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Videos:      []primitive.ObjectID{},
		Owner:       actor(ctx).ID,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, "playlist created", playlist)
}

// ListByUser handles GET /api/v1/playlists/user/{userId}.
func (h PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	playlists, err := h.Playlists.ListByOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "playlists fetched", playlists)
}

// Get handles GET /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "playlistId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	playlist, err := h.Playlists.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "playlist fetched", playlist)
}

// Update handles PATCH /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "playlistId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var req playlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	if _, err := h.ownedPlaylist(r, id); err != nil {
		respondError(ctx, w, err)
		return
	}

	playlist, err := h.Playlists.UpdateDetails(ctx, id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "playlist updated", playlist)
}

// Delete handles DELETE /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "playlistId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if _, err := h.ownedPlaylist(r, id); err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Playlists.Delete(ctx, id); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "playlist deleted", nil)
}

// AddVideo handles PATCH /api/v1/playlists/add/{videoId}/{playlistId}.
// Adding a video already in the playlist is a no-op.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlistID, videoID, err := h.playlistAndVideo(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondError(ctx, w, err)
		return
	}

	playlist, err := h.Playlists.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "video added to playlist", playlist)
}

// RemoveVideo handles PATCH /api/v1/playlists/remove/{videoId}/{playlistId}.
// Removing a video not in the playlist is a no-op.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlistID, videoID, err := h.playlistAndVideo(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	playlist, err := h.Playlists.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "video removed from playlist", playlist)
}

// playlistAndVideo parses both path ids and enforces playlist ownership.
func (h PlaylistHandler) playlistAndVideo(r *http.Request) (playlistID, videoID primitive.ObjectID, err error) {
	playlistID, err = pathID(r, "playlistId")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	videoID, err = pathID(r, "videoId")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	if _, err = h.ownedPlaylist(r, playlistID); err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return playlistID, videoID, nil
}

func (h PlaylistHandler) ownedPlaylist(r *http.Request, id primitive.ObjectID) (models.Playlist, error) {
	ctx := r.Context()

	playlist, err := h.Playlists.FindByID(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	if playlist.Owner != actor(ctx).ID {
		return models.Playlist{}, forbidden("only the owner may modify this playlist")
	}
	return playlist, nil
}
