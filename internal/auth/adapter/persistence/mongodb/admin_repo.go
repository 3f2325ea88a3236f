package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"employee-admin/internal/auth/domain/model"
	"employee-admin/internal/auth/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const adminsCollection = "admins"

// MongoAdminRepository implements the AdminRepository interface using MongoDB
type MongoAdminRepository struct {
	admins *mongo.Collection
}

// NewMongoAdminRepository creates a new MongoDB admin repository
func NewMongoAdminRepository(db *mongo.Database) *MongoAdminRepository {
	return &MongoAdminRepository{
		admins: db.Collection(adminsCollection),
	}
}

// EnsureIndexes creates the unique indexes that resolve concurrent duplicate
// creations. Called once at startup.
func (r *MongoAdminRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.admins.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userName", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_userName"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create admin indexes: %w", err)
	}
	return nil
}

// CreateAdmin inserts a new admin and sets its ID.
func (r *MongoAdminRepository) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	if admin == nil {
		return errors.New("admin cannot be nil")
	}
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}

	if _, err := r.admins.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateAdmin
		}
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return nil
}

// GetAdminByUserName returns the admin including its password hash.
func (r *MongoAdminRepository) GetAdminByUserName(ctx context.Context, userName string) (*model.Admin, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, repository.ErrAdminNotFound
	}
	return r.findOne(ctx, bson.M{"userName": userName})
}

// GetAdminByID returns the admin without its password hash. Malformed ids
// match nothing.
func (r *MongoAdminRepository) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrAdminNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"password": 0}))
}

// CountAdmins returns the number of stored admins.
func (r *MongoAdminRepository) CountAdmins(ctx context.Context) (int64, error) {
	n, err := r.admins.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}

func (r *MongoAdminRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*model.Admin, error) {
	var admin model.Admin
	if err := r.admins.FindOne(ctx, filter, opts...).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &admin, nil
}
