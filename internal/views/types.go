package views

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/models"
)

// VideoWithOwner is a video enriched with the owner's public profile.
type VideoWithOwner struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	VideoFile   string             `bson:"videoFile" json:"videoFile"`
	Thumbnail   string             `bson:"thumbnail" json:"thumbnail"`
	Duration    float64            `bson:"duration" json:"duration"`
	Views       int64              `bson:"views" json:"views"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	Owner       models.PublicUser  `bson:"owner" json:"owner"`
}

// CommentWithOwner is a comment enriched with the owner's public profile.
type CommentWithOwner struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Content   string             `bson:"content" json:"content"`
	Video     primitive.ObjectID `bson:"video" json:"video"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
	Owner     models.PublicUser  `bson:"owner" json:"owner"`
}

// TweetWithOwner is a tweet enriched with the owner's public profile.
type TweetWithOwner struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
	Owner     models.PublicUser  `bson:"owner" json:"owner"`
}

// ChannelProfile is a user's public channel page with subscription counts
// relative to the viewing user.
type ChannelProfile struct {
	ID                        primitive.ObjectID `bson:"_id" json:"_id"`
	Username                  string             `bson:"username" json:"username"`
	Email                     string             `bson:"email" json:"email"`
	FullName                  string             `bson:"fullName" json:"fullName"`
	Avatar                    string             `bson:"avatar" json:"avatar"`
	CoverImage                string             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	SubscriberCount           int64              `bson:"subscriberCount" json:"subscriberCount"`
	ChannelsSubscribedToCount int64              `bson:"channelsSubscribedToCount" json:"channelsSubscribedToCount"`
	IsSubscribed              bool               `bson:"isSubscribed" json:"isSubscribed"`
}

// SubscriberInfo describes one subscriber of a channel, including whether
// the viewing user subscribes to that subscriber's own channel.
type SubscriberInfo struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Username        string             `bson:"username" json:"username"`
	FullName        string             `bson:"fullName" json:"fullName"`
	Avatar          string             `bson:"avatar" json:"avatar"`
	SubscriberCount int64              `bson:"subscriberCount" json:"subscriberCount"`
	IsSubscribed    bool               `bson:"isSubscribed" json:"isSubscribed"`
}

// ChannelSummary describes one channel a user subscribes to.
type ChannelSummary struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Username        string             `bson:"username" json:"username"`
	FullName        string             `bson:"fullName" json:"fullName"`
	Avatar          string             `bson:"avatar" json:"avatar"`
	SubscriberCount int64              `bson:"subscriberCount" json:"subscriberCount"`
	IsSubscribed    bool               `bson:"isSubscribed" json:"isSubscribed"`
}

// DashboardVideo is the trimmed video shape shown on the channel dashboard.
type DashboardVideo struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Views     int64              `bson:"views" json:"views"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ChannelStats aggregates a channel's dashboard numbers.
type ChannelStats struct {
	TotalVideos       int64            `json:"totalVideos"`
	TotalViews        int64            `json:"totalViews"`
	TotalSubscribers  int64            `json:"totalSubscribers"`
	TotalVideoLikes   int64            `json:"totalVideoLikes"`
	AverageViews      float64          `json:"averageViews"`
	RecentSubscribers int64            `json:"recentSubscribers"`
	LatestVideos      []DashboardVideo `json:"latestVideos"`
}
