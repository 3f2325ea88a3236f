package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"employee-admin/internal/employee/domain/model"
	"employee-admin/internal/employee/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	employeesCollection = "employees"

	emailIndexName    = "uniq_email"
	uniqueIDIndexName = "uniq_uniqueId"
)

var withoutPassword = bson.M{"password": 0}

// MongoEmployeeRepository implements the EmployeeRepository interface using MongoDB
type MongoEmployeeRepository struct {
	employees *mongo.Collection
}

// NewMongoEmployeeRepository creates a new MongoDB employee repository
func NewMongoEmployeeRepository(db *mongo.Database) *MongoEmployeeRepository {
	return &MongoEmployeeRepository{
		employees: db.Collection(employeesCollection),
	}
}

// EnsureIndexes creates the unique indexes on email and uniqueId plus the
// createdAt index used for ordering.
func (r *MongoEmployeeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.employees.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndexName),
		},
		{
			Keys:    bson.D{{Key: "uniqueId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(uniqueIDIndexName),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create employee indexes: %w", err)
	}
	return nil
}

// Create inserts a new employee and sets its ID.
func (r *MongoEmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	if employee == nil {
		return errors.New("employee cannot be nil")
	}
	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	if _, err := r.employees.InsertOne(ctx, employee); err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

// List returns matching employees newest first, plus the total match count.
func (r *MongoEmployeeRepository) List(ctx context.Context, query model.ListQuery) ([]*model.Employee, int64, error) {
	filter := searchFilter(query.Search)

	total, err := r.employees.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	opts := options.Find().
		SetProjection(withoutPassword).
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if query.Limit > 0 {
		page := query.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * query.Limit)).SetLimit(int64(query.Limit))
	}

	cursor, err := r.employees.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer cursor.Close(ctx)

	employees := make([]*model.Employee, 0)
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, 0, fmt.Errorf("failed to decode employees: %w", err)
	}
	return employees, total, nil
}

// GetByID returns one employee. Malformed ids match nothing.
func (r *MongoEmployeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrEmployeeNotFound
	}

	var employee model.Employee
	err = r.employees.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(withoutPassword)).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return &employee, nil
}

// Update applies the patch in one findOneAndUpdate and returns the previous
// version of the record.
func (r *MongoEmployeeRepository) Update(ctx context.Context, id string, patch model.EmployeePatch) (*model.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrEmployeeNotFound
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(withoutPassword)

	var before model.Employee
	err = r.employees.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(patch.Set())}, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrEmployeeNotFound
		}
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return &before, nil
}

// Delete removes the employee and returns the removed record.
func (r *MongoEmployeeRepository) Delete(ctx context.Context, id string) (*model.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrEmployeeNotFound
	}

	var deleted model.Employee
	opts := options.FindOneAndDelete().SetProjection(withoutPassword)
	if err := r.employees.FindOneAndDelete(ctx, bson.M{"_id": oid}, opts).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to delete employee: %w", err)
	}
	return &deleted, nil
}

// searchFilter matches the term case-insensitively as a substring of the
// name, email, mobile or uniqueId.
func searchFilter(term string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"fullName": pattern},
		bson.M{"email": pattern},
		bson.M{"mobile": pattern},
		bson.M{"uniqueId": pattern},
	}}
}

func duplicateError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if strings.Contains(err.Error(), uniqueIDIndexName) {
		return repository.ErrDuplicateUniqueID
	}
	return repository.ErrDuplicateEmail
}
