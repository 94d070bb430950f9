package handlers

import (
	"errors"
	"net/http"

	"github.com/clipstream/backend/internal/repositories"
)

// SubscriptionHandler implements channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
	Views         SubscriptionViews
}

type subscriptionToggleResult struct {
	Subscribed bool `json:"subscribed"`
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}. Subscribing to
// your own channel is rejected.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, err := pathID(r, "channelId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	subscriber := actor(ctx).ID
	if channelID == subscriber {
		respondError(ctx, w, badRequest("cannot subscribe to your own channel"))
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondError(ctx, w, err)
		return
	}

	existing, err := h.Subscriptions.Find(ctx, subscriber, channelID)
	switch {
	case err == nil:
		if err := h.Subscriptions.Delete(ctx, existing.ID); err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, "unsubscribed", subscriptionToggleResult{Subscribed: false})
	case errors.Is(err, repositories.ErrNotFound):
		if _, err := h.Subscriptions.Create(ctx, subscriber, channelID); err != nil {
			// Lost a race against a concurrent subscribe; the unique index
			// keeps the pair singular.
			if errors.Is(err, repositories.ErrConflict) {
				respondJSON(ctx, w, http.StatusOK, "subscribed", subscriptionToggleResult{Subscribed: true})
				return
			}
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, "subscribed", subscriptionToggleResult{Subscribed: true})
	default:
		respondError(ctx, w, err)
	}
}

// Subscribers handles GET /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, err := pathID(r, "channelId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	subscribers, err := h.Views.Subscribers(ctx, channelID, actor(ctx).ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "subscribers fetched", subscribers)
}

// Subscribed handles GET /api/v1/subscriptions/u/{subscriberId}.
func (h SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID, err := pathID(r, "subscriberId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	channels, err := h.Views.SubscribedChannels(ctx, subscriberID, actor(ctx).ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "subscribed channels fetched", channels)
}
