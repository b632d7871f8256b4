package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"groupchat-backend/internal/models"
)

// UserRepository is the persistence boundary for user records.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// AddGroup adds a group name to the user's groups list (set semantics).
	AddGroup(ctx context.Context, username, groupName string) error
	// RemoveGroupFromAll pulls a group name from every user's groups list.
	// Used by group deletion so no user keeps a dangling reference.
	RemoveGroupFromAll(ctx context.Context, groupName string) error
}

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection("users")}
}

// Create inserts a new user. Fails ErrConflict when the username or email is
// already taken.
func (r *MongoUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{
		"$or": bson.A{
			bson.M{"username": user.Username},
			bson.M{"email": user.Email},
		},
	})
	if err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, ErrConflict
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Groups == nil {
		user.Groups = []string{}
	}

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *MongoUserRepository) AddGroup(ctx context.Context, username, groupName string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$addToSet": bson.M{"groups": groupName}},
	)
	return err
}

func (r *MongoUserRepository) RemoveGroupFromAll(ctx context.Context, groupName string) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"groups": groupName},
		bson.M{"$pull": bson.M{"groups": groupName}},
	)
	return err
}

// EnsureUserIndexes creates the unique indexes backing the signup conflict
// checks. Called on startup from main after Mongo has connected.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("users")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: uniqueIndex("idx_username_unique")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniqueIndex("idx_email_unique")},
	}
	for _, m := range indexes {
		if _, err := col.Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
