package views

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/query"
	"github.com/clipstream/backend/internal/repositories"
)

// recentSubscriberWindow is the wall-clock window counted as "recent" on the
// channel dashboard.
const recentSubscriberWindow = 30 * 24 * time.Hour

// ChannelStats computes the dashboard numbers for a channel owner.
func (b *Builder) ChannelStats(ctx context.Context, ownerID primitive.ObjectID) (ChannelStats, error) {
	ctx, span := logging.StartSpan(ctx, "views.channel_stats")
	defer span.End()

	ownerFilter := bson.M{"owner": ownerID}

	totalVideos, err := b.count(ctx, repositories.VideosCollection, ownerFilter)
	if err != nil {
		return ChannelStats{}, err
	}

	totalViews, err := b.sumViews(ctx, ownerID)
	if err != nil {
		return ChannelStats{}, err
	}

	totalSubscribers, err := b.count(ctx, repositories.SubscriptionsCollection, bson.M{"channel": ownerID})
	if err != nil {
		return ChannelStats{}, err
	}

	totalVideoLikes, err := b.countVideoLikes(ctx, ownerID)
	if err != nil {
		return ChannelStats{}, err
	}

	recentSubscribers, err := b.count(ctx, repositories.SubscriptionsCollection, bson.M{
		"channel":   ownerID,
		"createdAt": bson.M{"$gte": time.Now().UTC().Add(-recentSubscriberWindow)},
	})
	if err != nil {
		return ChannelStats{}, err
	}

	latest, err := b.latestVideos(ctx, ownerID, 10)
	if err != nil {
		return ChannelStats{}, err
	}

	return ChannelStats{
		TotalVideos:       totalVideos,
		TotalViews:        totalViews,
		TotalSubscribers:  totalSubscribers,
		TotalVideoLikes:   totalVideoLikes,
		AverageViews:      averageViews(totalViews, totalVideos),
		RecentSubscribers: recentSubscribers,
		LatestVideos:      latest,
	}, nil
}

// ChannelVideos returns the owner's full video listing for the dashboard,
// including unpublished entries.
func (b *Builder) ChannelVideos(ctx context.Context, ownerID primitive.ObjectID, sortBy string, sortAsc bool, req PageRequest) (Page[VideoWithOwner], error) {
	ctx, span := logging.StartSpan(ctx, "views.channel_videos")
	defer span.End()

	filter := bson.M{"owner": ownerID}

	total, err := b.count(ctx, repositories.VideosCollection, filter)
	if err != nil {
		return Page[VideoWithOwner]{}, err
	}

	field := "createdAt"
	if _, ok := sortableVideoFields[sortBy]; ok {
		field = sortBy
	}

	p := query.New().
		Match(filter).
		Lookup(repositories.UsersCollection, "owner", "_id", "owner", ownerLookup()).
		AddFields(bson.M{"owner": query.First("$owner")}).
		Sort(field, !sortAsc).
		Skip(req.Skip()).
		Limit(int64(req.Limit))

	var items []VideoWithOwner
	if err := b.aggregate(ctx, repositories.VideosCollection, p, &items); err != nil {
		return Page[VideoWithOwner]{}, err
	}

	return NewPage(items, total, req), nil
}

func (b *Builder) sumViews(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	p := query.New().
		Match(bson.M{"owner": ownerID}).
		Group(bson.M{"_id": nil, "totalViews": query.Sum("$views")})

	var results []struct {
		TotalViews int64 `bson:"totalViews"`
	}
	if err := b.aggregate(ctx, repositories.VideosCollection, p, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalViews, nil
}

// countVideoLikes counts likes whose target video belongs to the owner.
func (b *Builder) countVideoLikes(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	p := query.New().
		Match(bson.M{"video": bson.M{"$exists": true}}).
		Lookup(repositories.VideosCollection, "video", "_id", "likedVideo", nil).
		Unwind("$likedVideo", false).
		Match(bson.M{"likedVideo.owner": ownerID}).
		Count("total")

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := b.aggregate(ctx, repositories.LikesCollection, p, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (b *Builder) latestVideos(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]DashboardVideo, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"title": 1, "views": 1, "createdAt": 1})

	cursor, err := b.db.Collection(repositories.VideosCollection).Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("query latest videos: %w", err)
	}

	videos := []DashboardVideo{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("decode latest videos: %w", err)
	}
	return videos, nil
}

// averageViews guards the zero-video channel against division by zero.
func averageViews(totalViews, totalVideos int64) float64 {
	if totalVideos == 0 {
		return 0
	}
	return float64(totalViews) / float64(totalVideos)
}
