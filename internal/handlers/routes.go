package handlers

import "net/http"

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Tokens        TokenManager
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Playlists     PlaylistStore
	Subscriptions SubscriptionStore
	Blobs         BlobStore

	UserViews         UserViews
	VideoViews        VideoViews
	CommentViews      CommentViews
	TweetViews        TweetViews
	LikeViews         LikeViews
	SubscriptionViews SubscriptionViews
	DashboardViews    DashboardViews

	MaxUploadBytes int64
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	users := UserHandler{Users: deps.Users, Tokens: deps.Tokens, Blobs: deps.Blobs, Views: deps.UserViews, MaxUploadBytes: deps.MaxUploadBytes}
	videos := VideoHandler{Videos: deps.Videos, Users: deps.Users, Blobs: deps.Blobs, Views: deps.VideoViews, MaxUploadBytes: deps.MaxUploadBytes}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, Views: deps.CommentViews}
	tweets := TweetHandler{Tweets: deps.Tweets, Views: deps.TweetViews}
	likes := LikeHandler{Likes: deps.Likes, Videos: deps.Videos, Comments: deps.Comments, Tweets: deps.Tweets, Views: deps.LikeViews}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, Users: deps.Users, Views: deps.SubscriptionViews}
	dashboard := DashboardHandler{Views: deps.DashboardViews}

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAuth(deps.Tokens, next)
	}

	mux.HandleFunc("GET /api/v1/health", health.Handle)

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.HandleFunc("POST /api/v1/users/login", users.Login)
	mux.HandleFunc("POST /api/v1/users/refresh-token", users.Refresh)
	mux.HandleFunc("POST /api/v1/users/logout", authed(users.Logout))
	mux.HandleFunc("POST /api/v1/users/change-password", authed(users.ChangePassword))
	mux.HandleFunc("GET /api/v1/users/current-user", authed(users.CurrentUser))
	mux.HandleFunc("PATCH /api/v1/users/update-account-details", authed(users.UpdateAccountDetails))
	mux.HandleFunc("PATCH /api/v1/users/avatar", authed(users.UpdateAvatar))
	mux.HandleFunc("PATCH /api/v1/users/cover-image", authed(users.UpdateCoverImage))
	mux.HandleFunc("GET /api/v1/users/channel-profile/{username}", authed(users.ChannelProfile))
	mux.HandleFunc("GET /api/v1/users/watch-history", authed(users.WatchHistory))

	mux.HandleFunc("GET /api/v1/videos", authed(videos.List))
	mux.HandleFunc("POST /api/v1/videos", authed(videos.Publish))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", authed(videos.Get))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", authed(videos.Update))
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", authed(videos.Delete))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}/toggle-publish", authed(videos.TogglePublish))

	mux.HandleFunc("GET /api/v1/comments/{videoId}", authed(comments.ListByVideo))
	mux.HandleFunc("POST /api/v1/comments/{videoId}", authed(comments.Create))
	mux.HandleFunc("PATCH /api/v1/comments/c/{commentId}", authed(comments.Update))
	mux.HandleFunc("DELETE /api/v1/comments/c/{commentId}", authed(comments.Delete))

	mux.HandleFunc("POST /api/v1/tweets", authed(tweets.Create))
	mux.HandleFunc("GET /api/v1/tweets/user/{userId}", authed(tweets.ListByUser))
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", authed(tweets.Update))
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", authed(tweets.Delete))

	mux.HandleFunc("POST /api/v1/likes/toggle/v/{videoId}", authed(likes.ToggleVideo))
	mux.HandleFunc("POST /api/v1/likes/toggle/c/{commentId}", authed(likes.ToggleComment))
	mux.HandleFunc("POST /api/v1/likes/toggle/t/{tweetId}", authed(likes.ToggleTweet))
	mux.HandleFunc("GET /api/v1/likes/videos", authed(likes.LikedVideos))

	mux.HandleFunc("POST /api/v1/playlists", authed(playlists.Create))
	mux.HandleFunc("GET /api/v1/playlists/user/{userId}", authed(playlists.ListByUser))
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", authed(playlists.Get))
	mux.HandleFunc("PATCH /api/v1/playlists/{playlistId}", authed(playlists.Update))
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}", authed(playlists.Delete))
	mux.HandleFunc("PATCH /api/v1/playlists/add/{videoId}/{playlistId}", authed(playlists.AddVideo))
	mux.HandleFunc("PATCH /api/v1/playlists/remove/{videoId}/{playlistId}", authed(playlists.RemoveVideo))

	mux.HandleFunc("POST /api/v1/subscriptions/c/{channelId}", authed(subscriptions.Toggle))
	mux.HandleFunc("GET /api/v1/subscriptions/c/{channelId}", authed(subscriptions.Subscribers))
	mux.HandleFunc("GET /api/v1/subscriptions/u/{subscriberId}", authed(subscriptions.Subscribed))

	mux.HandleFunc("GET /api/v1/dashboard/stats", authed(dashboard.Stats))
	mux.HandleFunc("GET /api/v1/dashboard/videos", authed(dashboard.Videos))
}
