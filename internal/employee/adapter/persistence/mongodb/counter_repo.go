package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	countersCollection = "counters"
	employeeCounterKey = "employee"

	// first allocated id is counterBase+1
	counterBase = 1000
)

// MongoCounterRepository allocates sequential employee ids from a counters
// document. $inc with upsert is atomic, so concurrent creates never share an id.
type MongoCounterRepository struct {
	counters *mongo.Collection
	prefix   string
}

// NewMongoCounterRepository creates a counter-backed id allocator.
func NewMongoCounterRepository(db *mongo.Database, prefix string) *MongoCounterRepository {
	return &MongoCounterRepository{
		counters: db.Collection(countersCollection),
		prefix:   prefix,
	}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// NextUniqueID returns the next id, e.g. EMP1001.
func (r *MongoCounterRepository) NextUniqueID(ctx context.Context) (string, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": employeeCounterKey},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to allocate employee id: %w", err)
	}
	return fmt.Sprintf("%s%d", r.prefix, counterBase+doc.Seq), nil
}
