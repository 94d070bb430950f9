// Package views builds the derived, multi-document read models: owner-joined
// listings, channel profiles, subscription views, watch history, and the
// channel dashboard. Every view is a deterministic aggregation pipeline over
// the entity store.
package views

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/query"
	"github.com/clipstream/backend/internal/repositories"
)

// Builder executes aggregation pipelines against the entity store.
type Builder struct {
	db *mongo.Database
}

// NewBuilder constructs a view builder over the given database.
func NewBuilder(database *mongo.Database) *Builder {
	return &Builder{db: database}
}

// ownerLookup shapes a joined owner document down to its public subset.
func ownerLookup() *query.Pipeline {
	return query.New().Project(bson.M{"username": 1, "fullName": 1, "avatar": 1})
}

func (b *Builder) aggregate(ctx context.Context, collection string, p *query.Pipeline, out interface{}) error {
	cursor, err := b.db.Collection(collection).Aggregate(ctx, p.Build())
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s aggregation: %w", collection, err)
	}
	return nil
}

func (b *Builder) count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	total, err := b.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return total, nil
}

// VideoListOptions filters and orders the public video listing.
type VideoListOptions struct {
	// Query matches title or description case-insensitively when non-empty.
	Query string
	// Owner restricts results to a single uploader when non-nil.
	Owner *primitive.ObjectID
	// SortBy must be one of the whitelisted sortable fields; empty means
	// newest first.
	SortBy   string
	SortAsc  bool
	PageRequest
}

var sortableVideoFields = map[string]struct{}{
	"createdAt": {},
	"views":     {},
	"duration":  {},
	"title":     {},
}

// Videos returns the paginated, owner-joined listing of published videos.
func (b *Builder) Videos(ctx context.Context, opts VideoListOptions) (Page[VideoWithOwner], error) {
	ctx, span := logging.StartSpan(ctx, "views.videos")
	defer span.End()

	filter := bson.M{"isPublished": true}
	if opts.Query != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": opts.Query, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": opts.Query, "$options": "i"}},
		}
	}
	if opts.Owner != nil {
		filter["owner"] = *opts.Owner
	}

	sortBy := "createdAt"
	if _, ok := sortableVideoFields[opts.SortBy]; ok {
		sortBy = opts.SortBy
	}

	total, err := b.count(ctx, repositories.VideosCollection, filter)
	if err != nil {
		return Page[VideoWithOwner]{}, err
	}

	p := query.New().
		Match(filter).
		Lookup(repositories.UsersCollection, "owner", "_id", "owner", ownerLookup()).
		AddFields(bson.M{"owner": query.First("$owner")}).
		Sort(sortBy, !opts.SortAsc).
		Skip(opts.Skip()).
		Limit(int64(opts.Limit))

	var items []VideoWithOwner
	if err := b.aggregate(ctx, repositories.VideosCollection, p, &items); err != nil {
		return Page[VideoWithOwner]{}, err
	}

	return NewPage(items, total, opts.PageRequest), nil
}

// CommentsByVideo returns the paginated, owner-joined comment listing for a
// video, newest first.
func (b *Builder) CommentsByVideo(ctx context.Context, videoID primitive.ObjectID, req PageRequest) (Page[CommentWithOwner], error) {
	ctx, span := logging.StartSpan(ctx, "views.comments_by_video")
	defer span.End()

	filter := bson.M{"video": videoID}

	total, err := b.count(ctx, repositories.CommentsCollection, filter)
	if err != nil {
		return Page[CommentWithOwner]{}, err
	}

	p := query.New().
		Match(filter).
		Lookup(repositories.UsersCollection, "owner", "_id", "owner", ownerLookup()).
		Unwind("$owner", false).
		Sort("createdAt", true).
		Skip(req.Skip()).
		Limit(int64(req.Limit))

	var items []CommentWithOwner
	if err := b.aggregate(ctx, repositories.CommentsCollection, p, &items); err != nil {
		return Page[CommentWithOwner]{}, err
	}

	return NewPage(items, total, req), nil
}

// TweetsByUser returns the paginated, owner-joined tweet listing for a user,
// newest first.
func (b *Builder) TweetsByUser(ctx context.Context, userID primitive.ObjectID, req PageRequest) (Page[TweetWithOwner], error) {
	ctx, span := logging.StartSpan(ctx, "views.tweets_by_user")
	defer span.End()

	filter := bson.M{"owner": userID}

	total, err := b.count(ctx, repositories.TweetsCollection, filter)
	if err != nil {
		return Page[TweetWithOwner]{}, err
	}

	p := query.New().
		Match(filter).
		Lookup(repositories.UsersCollection, "owner", "_id", "owner", ownerLookup()).
		Unwind("$owner", false).
		Sort("createdAt", true).
		Skip(req.Skip()).
		Limit(int64(req.Limit))

	var items []TweetWithOwner
	if err := b.aggregate(ctx, repositories.TweetsCollection, p, &items); err != nil {
		return Page[TweetWithOwner]{}, err
	}

	return NewPage(items, total, req), nil
}

// ChannelProfile resolves a channel page by username, computing subscriber
// counts and whether the viewer is subscribed.
func (b *Builder) ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (ChannelProfile, error) {
	ctx, span := logging.StartSpan(ctx, "views.channel_profile")
	defer span.End()

	p := query.New().
		Match(bson.M{"username": username}).
		Lookup(repositories.SubscriptionsCollection, "_id", "channel", "subscribers", nil).
		Lookup(repositories.SubscriptionsCollection, "_id", "subscriber", "subscribedTo", nil).
		AddFields(bson.M{
			"subscriberCount":           query.Size("$subscribers"),
			"channelsSubscribedToCount": query.Size("$subscribedTo"),
			"isSubscribed":              query.Cond(query.In(viewer, "$subscribers.subscriber"), true, false),
		}).
		Project(bson.M{
			"username":                  1,
			"email":                     1,
			"fullName":                  1,
			"avatar":                    1,
			"coverImage":                1,
			"subscriberCount":           1,
			"channelsSubscribedToCount": 1,
			"isSubscribed":              1,
		})

	var profiles []ChannelProfile
	if err := b.aggregate(ctx, repositories.UsersCollection, p, &profiles); err != nil {
		return ChannelProfile{}, err
	}
	if len(profiles) == 0 {
		return ChannelProfile{}, repositories.ErrNotFound
	}

	return profiles[0], nil
}

// Subscribers lists the subscribers of a channel. isSubscribed reflects the
// viewer's own subscriptions: true when the viewer subscribes to that
// subscriber's channel.
func (b *Builder) Subscribers(ctx context.Context, channelID, viewer primitive.ObjectID) ([]SubscriberInfo, error) {
	ctx, span := logging.StartSpan(ctx, "views.subscribers")
	defer span.End()

	subscriberShape := query.New().
		Lookup(repositories.SubscriptionsCollection, "_id", "channel", "ownSubscribers", nil).
		AddFields(bson.M{"subscriberCount": query.Size("$ownSubscribers")}).
		Project(bson.M{"username": 1, "fullName": 1, "avatar": 1, "subscriberCount": 1})

	p := query.New().
		Match(bson.M{"channel": channelID}).
		Lookup(repositories.UsersCollection, "subscriber", "_id", "subscriber", subscriberShape).
		Unwind("$subscriber", false).
		AddFields(bson.M{"viewerId": viewer}).
		Lookup(repositories.SubscriptionsCollection, "viewerId", "subscriber", "viewerSubscriptions", nil).
		AddFields(bson.M{
			"subscriber.isSubscribed": query.Cond(
				query.In("$subscriber._id", "$viewerSubscriptions.channel"), true, false,
			),
		}).
		ReplaceRoot("$subscriber")

	subscribers := []SubscriberInfo{}
	if err := b.aggregate(ctx, repositories.SubscriptionsCollection, p, &subscribers); err != nil {
		return nil, err
	}

	return subscribers, nil
}

// SubscribedChannels lists the channels a user subscribes to, each with its
// subscriber count and whether the viewer subscribes to it as well.
func (b *Builder) SubscribedChannels(ctx context.Context, subscriberID, viewer primitive.ObjectID) ([]ChannelSummary, error) {
	ctx, span := logging.StartSpan(ctx, "views.subscribed_channels")
	defer span.End()

	p := query.New().
		Match(bson.M{"subscriber": subscriberID}).
		Lookup(repositories.UsersCollection, "channel", "_id", "channel", ownerLookup()).
		Unwind("$channel", false).
		Lookup(repositories.SubscriptionsCollection, "channel._id", "channel", "channelSubscribers", nil).
		AddFields(bson.M{
			"channel.subscriberCount": query.Size("$channelSubscribers"),
			"channel.isSubscribed": query.Cond(
				query.In(viewer, "$channelSubscribers.subscriber"), true, false,
			),
		}).
		ReplaceRoot("$channel")

	channels := []ChannelSummary{}
	if err := b.aggregate(ctx, repositories.SubscriptionsCollection, p, &channels); err != nil {
		return nil, err
	}

	return channels, nil
}

// WatchHistory returns the user's watched videos in stored order
// (most-recent-first insertion), each joined with its owner's public
// profile. The lookup does not preserve the array order, so results are
// reordered against the stored id list before returning.
func (b *Builder) WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]VideoWithOwner, error) {
	ctx, span := logging.StartSpan(ctx, "views.watch_history")
	defer span.End()

	videoShape := query.New().
		Lookup(repositories.UsersCollection, "owner", "_id", "owner", ownerLookup()).
		AddFields(bson.M{"owner": query.First("$owner")})

	p := query.New().
		Match(bson.M{"_id": userID}).
		Lookup(repositories.VideosCollection, "watchHistory", "_id", "watched", videoShape).
		Project(bson.M{"watchHistory": 1, "watched": 1})

	var results []struct {
		WatchHistory []primitive.ObjectID `bson:"watchHistory"`
		Watched      []VideoWithOwner     `bson:"watched"`
	}
	if err := b.aggregate(ctx, repositories.UsersCollection, p, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, repositories.ErrNotFound
	}

	return orderByIDs(results[0].Watched, results[0].WatchHistory), nil
}

// LikedVideos returns the videos the user has liked, most recent like first,
// each joined with its owner's public profile.
func (b *Builder) LikedVideos(ctx context.Context, userID primitive.ObjectID) ([]VideoWithOwner, error) {
	ctx, span := logging.StartSpan(ctx, "views.liked_videos")
	defer span.End()

	videoShape := query.New().
		Lookup(repositories.UsersCollection, "owner", "_id", "owner", ownerLookup()).
		AddFields(bson.M{"owner": query.First("$owner")})

	p := query.New().
		Match(bson.M{"likedBy": userID, "video": bson.M{"$exists": true}}).
		Sort("createdAt", true).
		Lookup(repositories.VideosCollection, "video", "_id", "video", videoShape).
		Unwind("$video", false).
		ReplaceRoot("$video")

	videos := []VideoWithOwner{}
	if err := b.aggregate(ctx, repositories.LikesCollection, p, &videos); err != nil {
		return nil, err
	}

	return videos, nil
}

// orderByIDs rearranges items to follow the order of ids; items without a
// matching id are dropped, ids without a match are skipped.
func orderByIDs(items []VideoWithOwner, ids []primitive.ObjectID) []VideoWithOwner {
	byID := make(map[primitive.ObjectID]VideoWithOwner, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	ordered := make([]VideoWithOwner, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered
}
