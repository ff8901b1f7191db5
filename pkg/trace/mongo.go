package trace

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures the MongoDB-backed trace store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string // defaults to "traces"
}

// MongoStore archives traces in a MongoDB collection. Unlike the Redis
// store it has no TTL; retention is the operator's concern (e.g. a TTL
// index on created_at).
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := cfg.Collection
	if coll == "" {
		coll = "traces"
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(coll),
	}, nil
}

// Put upserts the trace document.
func (s *MongoStore) Put(ctx context.Context, tr *Trace) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": tr.ID},
		tr,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("store trace: %w", err)
	}
	return nil
}

// Get retrieves a trace by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Trace, error) {
	var tr Trace
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trace: %w", err)
	}
	return &tr, nil
}

// List returns the newest traces first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Trace, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer cursor.Close(ctx)

	var traces []*Trace
	if err := cursor.All(ctx, &traces); err != nil {
		return nil, fmt.Errorf("decode traces: %w", err)
	}
	return traces, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
