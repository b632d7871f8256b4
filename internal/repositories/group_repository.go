package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"groupchat-backend/internal/models"
)

// GroupRepository is the persistence boundary for groups, including the
// embedded chat log and online set.
type GroupRepository interface {
	Create(ctx context.Context, group models.Group) (models.Group, error)
	FindByName(ctx context.Context, groupName string) (models.Group, error)
	// AddMember idempotently adds a member; re-joining is a no-op.
	AddMember(ctx context.Context, groupName, username string) error
	Delete(ctx context.Context, groupName string) error
	// AppendMessage pushes one message onto the group's chat log.
	// Fails ErrNotFound when the group does not exist.
	AppendMessage(ctx context.Context, groupName string, msg models.ChatMessage) error
	// AddOnline / RemoveOnline are idempotent set operations on the group's
	// online list. A mutation against an absent group is a silent no-op
	// (filtered-update semantics); only reads surface ErrNotFound.
	AddOnline(ctx context.Context, groupName, username string) error
	RemoveOnline(ctx context.Context, groupName, username string) error
}

type MongoGroupRepository struct {
	col *mongo.Collection
}

func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	return &MongoGroupRepository{col: db.Collection("groups")}
}

// Create inserts a new group. Fails ErrConflict when the name is taken.
func (r *MongoGroupRepository) Create(ctx context.Context, group models.Group) (models.Group, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"group_name": group.GroupName})
	if err != nil {
		return models.Group{}, err
	}
	if count > 0 {
		return models.Group{}, ErrConflict
	}

	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	if group.Messages == nil {
		group.Messages = []models.ChatMessage{}
	}
	if group.Online == nil {
		group.Online = []string{}
	}

	res, err := r.col.InsertOne(ctx, group)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Group{}, ErrConflict
		}
		return models.Group{}, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		group.ID = oid
	}
	return group, nil
}

func (r *MongoGroupRepository) FindByName(ctx context.Context, groupName string) (models.Group, error) {
	var group models.Group
	err := r.col.FindOne(ctx, bson.M{"group_name": groupName}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Group{}, ErrNotFound
	}
	if err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func (r *MongoGroupRepository) AddMember(ctx context.Context, groupName, username string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"group_name": groupName},
		bson.M{"$addToSet": bson.M{"members": models.GroupMember{Username: username}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGroupRepository) Delete(ctx context.Context, groupName string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"group_name": groupName})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGroupRepository) AppendMessage(ctx context.Context, groupName string, msg models.ChatMessage) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"group_name": groupName},
		bson.M{"$push": bson.M{"messages": msg}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGroupRepository) AddOnline(ctx context.Context, groupName, username string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"group_name": groupName},
		bson.M{"$addToSet": bson.M{"online": username}},
	)
	return err
}

func (r *MongoGroupRepository) RemoveOnline(ctx context.Context, groupName, username string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"group_name": groupName},
		bson.M{"$pull": bson.M{"online": username}},
	)
	return err
}

// EnsureGroupIndexes creates the unique index on group_name.
func EnsureGroupIndexes(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("groups")
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "group_name", Value: 1}},
		Options: uniqueIndex("idx_group_name_unique"),
	})
	return err
}

func uniqueIndex(name string) *options.IndexOptions {
	return options.Index().SetName(name).SetUnique(true)
}
