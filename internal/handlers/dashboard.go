package handlers

import "net/http"

// DashboardHandler implements the channel owner's dashboard endpoints. All
// results are scoped to the authenticated user's own channel.
type DashboardHandler struct {
	Views DashboardViews
}

// Stats handles GET /api/v1/dashboard/stats.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.Views.ChannelStats(ctx, actor(ctx).ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "channel stats fetched", stats)
}

// Videos handles GET /api/v1/dashboard/videos. Unlike the public listing it
// includes unpublished videos.
func (h DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := pageFromQuery(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	q := r.URL.Query()
	page, err := h.Views.ChannelVideos(ctx, actor(ctx).ID, q.Get("sortBy"), q.Get("sortType") == "asc", req)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "channel videos fetched", page)
}
