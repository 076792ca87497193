package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexerp/authgate/internal/core/domain"
)

const (
	userCollection    = "users"
	counterCollection = "counters"
)

type MongoUserRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		coll:     db.Collection(userCollection),
		counters: db.Collection(counterCollection),
	}
}

type mongoRole struct {
	ID   int64  `bson:"id,omitempty"`
	Code string `bson:"code"`
	Name string `bson:"name,omitempty"`
}

type mongoUser struct {
	ID           int64       `bson:"_id"`
	Username     string      `bson:"username"`
	FullName     string      `bson:"full_name,omitempty"`
	Email        string      `bson:"email,omitempty"`
	EmployeeCode string      `bson:"employee_code,omitempty"`
	PasswordHash string      `bson:"password_hash"`
	Roles        []mongoRole `bson:"roles"`
	CreatedAt    int64       `bson:"created_at"`
	UpdatedAt    int64       `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate user id: %w", err)
	}

	doc := toMongoUser(user)
	doc.ID = id

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongoUser(mu), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongoUser(mu), nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := toMongoUser(user)
	doc.ID = user.ID

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, doc)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, user.ID)
}

// nextID allocates a monotonically increasing user id from the counters
// collection.
func (r *MongoUserRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&out)
	if err != nil {
		return 0, err
	}
	return out.Seq, nil
}

func toMongoUser(u *domain.User) mongoUser {
	roles := make([]mongoRole, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, mongoRole{ID: role.ID, Code: string(role.Code), Name: role.Name})
	}
	return mongoUser{
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		EmployeeCode: u.EmployeeCode,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func fromMongoUser(mu mongoUser) *domain.User {
	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, role := range mu.Roles {
		roles = append(roles, domain.Role{ID: role.ID, Code: domain.RoleCode(role.Code), Name: role.Name})
	}
	return &domain.User{
		ID:           mu.ID,
		Username:     mu.Username,
		FullName:     mu.FullName,
		Email:        mu.Email,
		EmployeeCode: mu.EmployeeCode,
		PasswordHash: mu.PasswordHash,
		Roles:        roles,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
