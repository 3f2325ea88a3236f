package mongodb_test

import (
	"context"
	"testing"
	"time"

	"employee-admin/internal/employee/adapter/persistence/mongodb"
	"employee-admin/internal/employee/domain/model"
	"employee-admin/internal/employee/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func employeeDoc(id primitive.ObjectID, uniqueID, name string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "uniqueId", Value: uniqueID},
		{Key: "fullName", Value: name},
		{Key: "email", Value: uniqueID + "@example.com"},
		{Key: "gender", Value: "female"},
		{Key: "profilePic", Value: "pic.png"},
		{Key: "createdAt", Value: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestMongoEmployeeRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		emp := &model.Employee{UniqueID: "EMP1001", Email: "jane@example.com"}
		require.NoError(mt, repo.Create(context.Background(), emp))
		assert.False(mt, emp.ID.IsZero())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.employees index: uniq_email dup key",
		}))

		err := repo.Create(context.Background(), &model.Employee{Email: "jane@example.com"})
		assert.ErrorIs(mt, err, repository.ErrDuplicateEmail)
	})

	mt.Run("duplicate unique id", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.employees index: uniq_uniqueId dup key",
		}))

		err := repo.Create(context.Background(), &model.Employee{UniqueID: "EMP1001"})
		assert.ErrorIs(mt, err, repository.ErrDuplicateUniqueID)
	})
}

func TestMongoEmployeeRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns page and total", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		ns := mt.DB.Name() + ".employees"
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(7)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				employeeDoc(first, "EMP1002", "John Roe"),
				employeeDoc(second, "EMP1001", "Jane Doe"),
			),
		)

		employees, total, err := repo.List(context.Background(), model.ListQuery{Search: "e", Page: 1, Limit: 2})
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), total)
		require.Len(mt, employees, 2)
		assert.Equal(mt, "EMP1002", employees[0].UniqueID)
		assert.Empty(mt, employees[0].PasswordHash)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		ns := mt.DB.Name() + ".employees"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		employees, total, err := repo.List(context.Background(), model.ListQuery{})
		require.NoError(mt, err)
		assert.Equal(mt, int64(0), total)
		assert.NotNil(mt, employees)
		assert.Empty(mt, employees)
	})

	mt.Run("find error", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "count error"}))

		_, _, err := repo.List(context.Background(), model.ListQuery{})
		assert.Error(mt, err)
	})
}

func TestMongoEmployeeRepository_GetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".employees", mtest.FirstBatch, employeeDoc(id, "EMP1001", "Jane Doe")))

		emp, err := repo.GetByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, emp.ID)
		assert.Equal(mt, "Jane Doe", emp.FullName)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".employees", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), id.Hex())
		assert.ErrorIs(mt, err, repository.ErrEmployeeNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)

		_, err := repo.GetByID(context.Background(), "12345")
		assert.ErrorIs(mt, err, repository.ErrEmployeeNotFound)
	})
}

func TestMongoEmployeeRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("returns previous version", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: employeeDoc(id, "EMP1001", "Jane Doe")}))

		name := "Jane Smith"
		before, err := repo.Update(context.Background(), id.Hex(), model.EmployeePatch{FullName: &name, UpdatedAt: time.Now()})
		require.NoError(mt, err)
		assert.Equal(mt, "Jane Doe", before.FullName)
		assert.Equal(mt, "pic.png", before.ProfilePic)
	})

	mt.Run("email collision", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.employees index: uniq_email dup key",
		}))

		email := "taken@example.com"
		_, err := repo.Update(context.Background(), id.Hex(), model.EmployeePatch{Email: &email})
		assert.ErrorIs(mt, err, repository.ErrDuplicateEmail)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)

		_, err := repo.Update(context.Background(), "nope", model.EmployeePatch{})
		assert.ErrorIs(mt, err, repository.ErrEmployeeNotFound)
	})
}

func TestMongoEmployeeRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("returns deleted record", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: employeeDoc(id, "EMP1001", "Jane Doe")}))

		deleted, err := repo.Delete(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, deleted.ID)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)

		_, err := repo.Delete(context.Background(), "zzz")
		assert.ErrorIs(mt, err, repository.ErrEmployeeNotFound)
	})

	mt.Run("server error", func(mt *mtest.T) {
		repo := mongodb.NewMongoEmployeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "delete error"}))

		_, err := repo.Delete(context.Background(), id.Hex())
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrEmployeeNotFound)
	})
}

func TestMongoCounterRepository_NextUniqueID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("first id", func(mt *mtest.T) {
		repo := mongodb.NewMongoCounterRepository(mt.DB, "EMP")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "employee"},
			{Key: "seq", Value: int64(1)},
		}}))

		id, err := repo.NextUniqueID(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, "EMP1001", id)
	})

	mt.Run("sequence continues", func(mt *mtest.T) {
		repo := mongodb.NewMongoCounterRepository(mt.DB, "EMP")
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{{Key: "_id", Value: "employee"}, {Key: "seq", Value: int64(41)}}}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{{Key: "_id", Value: "employee"}, {Key: "seq", Value: int64(42)}}}),
		)

		a, err := repo.NextUniqueID(context.Background())
		require.NoError(mt, err)
		b, err := repo.NextUniqueID(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, "EMP1041", a)
		assert.Equal(mt, "EMP1042", b)
	})

	mt.Run("error", func(mt *mtest.T) {
		repo := mongodb.NewMongoCounterRepository(mt.DB, "EMP")
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "boom"}))

		_, err := repo.NextUniqueID(context.Background())
		assert.Error(mt, err)
	})
}
