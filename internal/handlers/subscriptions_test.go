package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/models"
)

func TestToggleSubscriptionAlternates(t *testing.T) {
	subscriptions := newFakeSubscriptionStore()
	users := newFakeUserStore()

	channel := users.add(models.User{Username: "channel"})
	subscriber := users.add(models.User{Username: "fan"})

	h := SubscriptionHandler{Subscriptions: subscriptions, Users: users}

	toggle := func() subscriptionToggleResult {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/"+channel.ID.Hex(), nil)
		req.SetPathValue("channelId", channel.ID.Hex())
		rec := httptest.NewRecorder()
		h.Toggle(rec, asUser(req, subscriber.ID))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		var result subscriptionToggleResult
		if err := json.Unmarshal(env.Data, &result); err != nil {
			t.Fatalf("decode toggle result: %v", err)
		}
		return result
	}

	if result := toggle(); !result.Subscribed {
		t.Fatal("first toggle should subscribe")
	}
	if len(subscriptions.subscriptions) != 1 {
		t.Fatalf("expected one subscription, got %d", len(subscriptions.subscriptions))
	}
	if result := toggle(); result.Subscribed {
		t.Fatal("second toggle should unsubscribe")
	}
	if len(subscriptions.subscriptions) != 0 {
		t.Fatalf("expected no subscriptions, got %d", len(subscriptions.subscriptions))
	}
}

func TestToggleSubscriptionRejectsOwnChannel(t *testing.T) {
	users := newFakeUserStore()
	user := users.add(models.User{Username: "selfie"})

	h := SubscriptionHandler{Subscriptions: newFakeSubscriptionStore(), Users: users}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/"+user.ID.Hex(), nil)
	req.SetPathValue("channelId", user.ID.Hex())
	rec := httptest.NewRecorder()

	h.Toggle(rec, asUser(req, user.ID))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestToggleSubscriptionToMissingChannel(t *testing.T) {
	h := SubscriptionHandler{Subscriptions: newFakeSubscriptionStore(), Users: newFakeUserStore()}

	missing := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/"+missing.Hex(), nil)
	req.SetPathValue("channelId", missing.Hex())
	rec := httptest.NewRecorder()

	h.Toggle(rec, asUser(req, primitive.NewObjectID()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
