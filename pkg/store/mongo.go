package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Defaults for MongoConfig.
const (
	DefaultMongoDatabase   = "masonry"
	DefaultMongoCollection = "layouts"
)

// MongoStore stores records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings the server and ensures the created_at
// index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Save(ctx context.Context, r *Record) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert layout: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	var r Record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find layout: %w", err)
	}
	return &r, nil
}

// mongoSummary mirrors the fields List projects.
type mongoSummary struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	Result    struct {
		Width         float64 `bson:"width"`
		Height        float64 `bson:"height"`
		Utilization   float64 `bson:"utilization"`
		OrderFidelity float64 `bson:"order_fidelity"`
	} `bson:"result"`
	Items int `bson:"items"`
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: normalizeLimit(limit)}},
		{{Key: "$project", Value: bson.D{
			{Key: "created_at", Value: 1},
			{Key: "result.width", Value: 1},
			{Key: "result.height", Value: 1},
			{Key: "result.utilization", Value: 1},
			{Key: "result.order_fidelity", Value: 1},
			{Key: "items", Value: bson.D{{Key: "$size", Value: "$result.cards"}}},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	var docs []mongoSummary
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode layouts: %w", err)
	}

	out := make([]Summary, len(docs))
	for i, d := range docs {
		out[i] = Summary{
			ID:            d.ID,
			CreatedAt:     d.CreatedAt,
			Items:         d.Items,
			Width:         d.Result.Width,
			Height:        d.Result.Height,
			Utilization:   d.Result.Utilization,
			OrderFidelity: d.Result.OrderFidelity,
		}
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return nil
}

// Ping checks the connection, for health endpoints.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
