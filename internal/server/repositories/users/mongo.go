package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding user documents.
const CollectionName = "users"

// userDocument is the stored shape of a user. refreshToken is omitted
// rather than stored empty when no session is active.
type userDocument struct {
	ID           string    `bson:"_id"`
	UserName     string    `bson:"username"`
	Email        string    `bson:"email"`
	FullName     string    `bson:"fullName"`
	Avatar       string    `bson:"avatar"`
	CoverImage   string    `bson:"coverImage"`
	Password     []byte    `bson:"password"`
	RefreshToken *string   `bson:"refreshToken,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID,
		UserName:     d.UserName,
		Email:        d.Email,
		FullName:     d.FullName,
		Avatar:       d.Avatar,
		CoverImage:   d.CoverImage,
		PasswordHash: d.Password,
		RefreshToken: d.RefreshToken,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll, now: time.Now}
}

// EnsureIndexes creates the unique username and email indexes.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	// BSON dates carry milliseconds.
	now := r.now().UTC().Truncate(time.Millisecond)

	doc := userDocument{
		ID:         uuid.NewString(),
		UserName:   user.UserName,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		Password:   user.PasswordHash,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = doc.ID
	user.CreatedAt = now
	user.UpdatedAt = now
	user.RefreshToken = nil
	return user, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) FindByUsernameOrEmail(ctx context.Context, userName, email string) (*models.User, error) {
	or := bson.A{}
	if userName != "" {
		or = append(or, bson.M{"username": userName})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, bson.M{"$or": or})
}

func (r *MongoRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"refreshToken": token, "updatedAt": r.now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) RotateRefreshToken(ctx context.Context, id, expected, next string) error {
	if expected == "" {
		return common.ErrStaleToken
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "refreshToken": expected},
		bson.M{"$set": bson.M{"refreshToken": next, "updatedAt": r.now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrStaleToken
	}
	return nil
}

func (r *MongoRepository) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$unset": bson.M{"refreshToken": ""},
			"$set":   bson.M{"updatedAt": r.now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	if err := r.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}
