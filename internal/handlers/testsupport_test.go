package handlers

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// newTestTokens builds a real token service over an in-memory store so tests
// exercise genuine hashing and rotation behavior.
func newTestTokens(t *testing.T, store auth.TokenStore) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour, store)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

// asUser attaches an authenticated principal to the request, skipping the
// middleware so handlers can be exercised directly.
func asUser(r *http.Request, id primitive.ObjectID) *http.Request {
	ctx := context.WithValue(r.Context(), principalKey{}, principal{ID: id})
	return r.WithContext(ctx)
}

type fakeUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *fakeUserStore) add(user models.User) models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) (models.User, error) {
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.User{}, repositories.ErrConflict
		}
	}
	return s.add(user), nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByUsernameOrEmail(_ context.Context, username, email string) (models.User, error) {
	for _, user := range s.users {
		if (username != "" && user.Username == username) || (email != "" && user.Email == email) {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) UpdateDetails(_ context.Context, id primitive.ObjectID, fields bson.M) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	if v, ok := fields["fullName"].(string); ok {
		user.FullName = v
	}
	if v, ok := fields["email"].(string); ok {
		user.Email = v
	}
	if v, ok := fields["username"].(string); ok {
		user.Username = v
	}
	s.users[id] = user
	return user, nil
}

func (s *fakeUserStore) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = hash
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) SetMediaURL(_ context.Context, id primitive.ObjectID, field, url string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	if field == "coverImage" {
		user.CoverImage = url
	} else {
		user.Avatar = url
	}
	s.users[id] = user
	return user, nil
}

func (s *fakeUserStore) RecordWatch(_ context.Context, userID, videoID primitive.ObjectID) error {
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	history := []primitive.ObjectID{videoID}
	for _, id := range user.WatchHistory {
		if id != videoID {
			history = append(history, id)
		}
	}
	user.WatchHistory = history
	s.users[userID] = user
	return nil
}

type fakeBlobStore struct {
	uploaded []string
	deleted  []string
}

func (s *fakeBlobStore) Upload(_ context.Context, key, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	s.uploaded = append(s.uploaded, key)
	return "https://cdn.test/" + key, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

type fakeVideoStore struct {
	videos map[primitive.ObjectID]models.Video
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: make(map[primitive.ObjectID]models.Video)}
}

func (s *fakeVideoStore) add(video models.Video) models.Video {
	if video.ID.IsZero() {
		video.ID = primitive.NewObjectID()
	}
	s.videos[video.ID] = video
	return video
}

func (s *fakeVideoStore) Create(_ context.Context, video models.Video) (models.Video, error) {
	return s.add(video), nil
}

func (s *fakeVideoStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *fakeVideoStore) IncrementViews(_ context.Context, id primitive.ObjectID) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	return video, nil
}

func (s *fakeVideoStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	if v, ok := fields["title"].(string); ok {
		video.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		video.Description = v
	}
	if v, ok := fields["thumbnail"].(string); ok {
		video.Thumbnail = v
	}
	s.videos[id] = video
	return video, nil
}

func (s *fakeVideoStore) SetPublished(_ context.Context, id primitive.ObjectID, published bool) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	video.IsPublished = published
	s.videos[id] = video
	return video, nil
}

func (s *fakeVideoStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

type likeKey struct {
	target   repositories.LikeTarget
	targetID primitive.ObjectID
	userID   primitive.ObjectID
}

type fakeLikeStore struct {
	likes map[likeKey]models.Like
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: make(map[likeKey]models.Like)}
}

func (s *fakeLikeStore) FindByTarget(_ context.Context, target repositories.LikeTarget, targetID, userID primitive.ObjectID) (models.Like, error) {
	like, ok := s.likes[likeKey{target, targetID, userID}]
	if !ok {
		return models.Like{}, repositories.ErrNotFound
	}
	return like, nil
}

func (s *fakeLikeStore) Create(_ context.Context, target repositories.LikeTarget, targetID, userID primitive.ObjectID) (models.Like, error) {
	key := likeKey{target, targetID, userID}
	if _, ok := s.likes[key]; ok {
		return models.Like{}, repositories.ErrConflict
	}
	like := models.Like{ID: primitive.NewObjectID(), LikedBy: userID}
	s.likes[key] = like
	return like, nil
}

func (s *fakeLikeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for key, like := range s.likes {
		if like.ID == id {
			delete(s.likes, key)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeCommentStore struct {
	comments map[primitive.ObjectID]models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[primitive.ObjectID]models.Comment)}
}

func (s *fakeCommentStore) Create(_ context.Context, comment models.Comment) (models.Comment, error) {
	comment.ID = primitive.NewObjectID()
	s.comments[comment.ID] = comment
	return comment, nil
}

func (s *fakeCommentStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *fakeCommentStore) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment.Content = content
	s.comments[id] = comment
	return comment, nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

type fakeTweetStore struct {
	tweets map[primitive.ObjectID]models.Tweet
}

func newFakeTweetStore() *fakeTweetStore {
	return &fakeTweetStore{tweets: make(map[primitive.ObjectID]models.Tweet)}
}

func (s *fakeTweetStore) Create(_ context.Context, tweet models.Tweet) (models.Tweet, error) {
	tweet.ID = primitive.NewObjectID()
	s.tweets[tweet.ID] = tweet
	return tweet, nil
}

func (s *fakeTweetStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (s *fakeTweetStore) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	tweet.Content = content
	s.tweets[id] = tweet
	return tweet, nil
}

func (s *fakeTweetStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}

type subscriptionKey struct {
	subscriber primitive.ObjectID
	channel    primitive.ObjectID
}

type fakeSubscriptionStore struct {
	subscriptions map[subscriptionKey]models.Subscription
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subscriptions: make(map[subscriptionKey]models.Subscription)}
}

func (s *fakeSubscriptionStore) Find(_ context.Context, subscriber, channel primitive.ObjectID) (models.Subscription, error) {
	sub, ok := s.subscriptions[subscriptionKey{subscriber, channel}]
	if !ok {
		return models.Subscription{}, repositories.ErrNotFound
	}
	return sub, nil
}

func (s *fakeSubscriptionStore) Create(_ context.Context, subscriber, channel primitive.ObjectID) (models.Subscription, error) {
	key := subscriptionKey{subscriber, channel}
	if _, ok := s.subscriptions[key]; ok {
		return models.Subscription{}, repositories.ErrConflict
	}
	sub := models.Subscription{ID: primitive.NewObjectID(), Subscriber: subscriber, Channel: channel}
	s.subscriptions[key] = sub
	return sub, nil
}

func (s *fakeSubscriptionStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for key, sub := range s.subscriptions {
		if sub.ID == id {
			delete(s.subscriptions, key)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakePlaylistStore struct {
	playlists map[primitive.ObjectID]models.Playlist
}

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{playlists: make(map[primitive.ObjectID]models.Playlist)}
}

func (s *fakePlaylistStore) Create(_ context.Context, playlist models.Playlist) (models.Playlist, error) {
	playlist.ID = primitive.NewObjectID()
	s.playlists[playlist.ID] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *fakePlaylistStore) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Playlist, error) {
	var out []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.Owner == owner {
			out = append(out, playlist)
		}
	}
	return out, nil
}

func (s *fakePlaylistStore) UpdateDetails(_ context.Context, id primitive.ObjectID, name, description string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	playlist.Name = name
	playlist.Description = description
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) AddVideo(_ context.Context, id, videoID primitive.ObjectID) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	for _, existing := range playlist.Videos {
		if existing == videoID {
			return playlist, nil
		}
	}
	playlist.Videos = append(playlist.Videos, videoID)
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) RemoveVideo(_ context.Context, id, videoID primitive.ObjectID) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	kept := playlist.Videos[:0]
	for _, existing := range playlist.Videos {
		if existing != videoID {
			kept = append(kept, existing)
		}
	}
	playlist.Videos = kept
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}
