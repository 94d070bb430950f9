package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
)

// UserRepository provides MongoDB-backed persistence for users. It also
// implements auth.TokenStore so the token service can persist the single
// active refresh token on the user document.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository constructs a user repository over the given database.
func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{collection: database.Collection(UsersCollection)}
}

// Create persists a new user record. Username and email uniqueness is
// enforced by the store's unique indexes.
func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.WatchHistory == nil {
		user.WatchHistory = []primitive.ObjectID{}
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return models.User{}, wrapWriteErr("insert user", err)
	}
	return user, nil
}

// FindByID fetches a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return models.User{}, wrapReadErr("select user by id", err)
	}
	return user, nil
}

// FindByUsernameOrEmail fetches the first user matching either identifier.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}

	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return models.User{}, wrapReadErr("select user by username or email", err)
	}
	return user, nil
}

// UpdateDetails applies the provided profile fields and returns the updated
// record.
func (r *UserRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.User, error) {
	fields["updatedAt"] = time.Now().UTC()

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, wrapReadErr("update user details", err)
	}
	return user, nil
}

// SetPassword stores a new password hash for the user.
func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return wrapWriteErr("update user password", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMediaURL stores a new avatar or cover image URL and returns the
// updated record. field must be "avatar" or "coverImage".
func (r *UserRepository) SetMediaURL(ctx context.Context, id primitive.ObjectID, field, url string) (models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{field: url, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return models.User{}, wrapReadErr("update user media url", err)
	}
	return user, nil
}

// RecordWatch prepends the video to the user's watch history, removing any
// earlier occurrence so the list stays deduplicated, most-recent-first.
func (r *UserRepository) RecordWatch(ctx context.Context, userID, videoID primitive.ObjectID) error {
	if _, err := r.collection.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"watchHistory": videoID},
	}); err != nil {
		return wrapWriteErr("dedupe watch history", err)
	}

	result, err := r.collection.UpdateByID(ctx, userID, bson.M{
		"$push": bson.M{"watchHistory": bson.M{
			"$each":     bson.A{videoID},
			"$position": 0,
		}},
	})
	if err != nil {
		return wrapWriteErr("push watch history", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AuthRecord implements auth.TokenStore.
func (r *UserRepository) AuthRecord(ctx context.Context, userID string) (auth.AuthRecord, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return auth.AuthRecord{}, fmt.Errorf("parse user id: %w", ErrNotFound)
	}

	user, err := r.FindByID(ctx, id)
	if err != nil {
		return auth.AuthRecord{}, err
	}

	return auth.AuthRecord{
		UserID:       user.ID.Hex(),
		Email:        user.Email,
		RefreshToken: user.RefreshToken,
	}, nil
}

// SetRefreshToken implements auth.TokenStore.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", ErrNotFound)
	}

	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"refreshToken": token}})
	if err != nil {
		return wrapWriteErr("set refresh token", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearRefreshToken implements auth.TokenStore.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", ErrNotFound)
	}

	result, err := r.collection.UpdateByID(ctx, id, bson.M{"$unset": bson.M{"refreshToken": ""}})
	if err != nil {
		return wrapWriteErr("clear refresh token", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

var _ auth.TokenStore = (*UserRepository)(nil)
