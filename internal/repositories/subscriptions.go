package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clipstream/backend/internal/models"
)

// SubscriptionRepository provides MongoDB-backed persistence for
// subscriber/channel links.
type SubscriptionRepository struct {
	collection *mongo.Collection
}

// NewSubscriptionRepository constructs a subscription repository over the
// given database.
func NewSubscriptionRepository(database *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{collection: database.Collection(SubscriptionsCollection)}
}

// Find fetches the subscription linking subscriber to channel, if any.
func (r *SubscriptionRepository) Find(ctx context.Context, subscriber, channel primitive.ObjectID) (models.Subscription, error) {
	filter := bson.M{"subscriber": subscriber, "channel": channel}

	var subscription models.Subscription
	if err := r.collection.FindOne(ctx, filter).Decode(&subscription); err != nil {
		return models.Subscription{}, wrapReadErr("select subscription", err)
	}
	return subscription, nil
}

// Create inserts a subscription. The unique (subscriber, channel) index
// turns a racing duplicate insert into ErrConflict.
func (r *SubscriptionRepository) Create(ctx context.Context, subscriber, channel primitive.ObjectID) (models.Subscription, error) {
	subscription := models.Subscription{
		ID:         primitive.NewObjectID(),
		Subscriber: subscriber,
		Channel:    channel,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := r.collection.InsertOne(ctx, subscription); err != nil {
		return models.Subscription{}, wrapWriteErr("insert subscription", err)
	}
	return subscription, nil
}

// Delete removes a subscription record by id.
func (r *SubscriptionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapWriteErr("delete subscription", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
