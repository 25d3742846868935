package accounts

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoRepository stores one document per user:
//
//	{username: "alice", password: "...", wantToGoList: ["Paris", "Rome"]}
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// type check
var _ Repository = (*MongoRepository)(nil)

// EnsureIndexes creates the unique username index that Create relies on to
// reject duplicates.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}

	return nil
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.coll.InsertOne(ctx, &models.User{
		Username:     user.Username,
		Password:     user.Password,
		WantToGoList: []string{},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrAlreadyExists
		}

		return fmt.Errorf("mongo error: %w", err)
	}

	return nil
}

func (r *MongoRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{}

	err := r.coll.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}

		return nil, fmt.Errorf("mongo error: %w", err)
	}

	return normalize(u), nil
}

// AddToList matches the user only while destination is absent from the list,
// so the membership check and the append are one server-side operation.
func (r *MongoRepository) AddToList(ctx context.Context, username, destination string) (*models.User, error) {
	filter := bson.D{
		{Key: "username", Value: username},
		{Key: "wantToGoList", Value: bson.D{{Key: "$ne", Value: destination}}},
	}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "wantToGoList", Value: destination}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	u := &models.User{}

	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(u)
	if err == nil {
		return normalize(u), nil
	}

	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	// Nothing matched: either the user is missing or already has it.
	if _, err = r.FindByUsername(ctx, username); err != nil {
		return nil, err
	}

	return nil, common.ErrAlreadyPresent
}

func normalize(u *models.User) *models.User {
	if u.WantToGoList == nil {
		u.WantToGoList = []string{}
	}

	return u
}
