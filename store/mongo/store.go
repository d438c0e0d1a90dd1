// Package mongo implements the keyed store on MongoDB.
//
// Entries live in a single collection keyed by _id. A monotonic seq field
// assigned on first insert preserves the engine's first-write ordering; Set
// never deletes, so the seq is stable for a key's lifetime.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	streamless "github.com/streamless/streamless"
	"github.com/streamless/streamless/store"
)

const (
	defaultDatabase = "streamless"
	colEntries      = "streamless_kv"
)

// compile-time interface check
var _ store.KeyedStore = (*Store)(nil)

type entry struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
	Seq   int64  `bson:"seq"`
}

// Store is a MongoDB-backed KeyedStore.
type Store struct {
	client *mongo.Client
	col    *mongo.Collection
	seq    atomic.Int64
}

// Option configures the store.
type Option func(*config)

type config struct {
	database string
}

// WithDatabase overrides the default database name.
func WithDatabase(name string) Option {
	return func(c *config) { c.database = name }
}

// New connects a client and verifies it is reachable.
func New(ctx context.Context, uri string, opts ...Option) (*Store, error) {
	cfg := config{database: defaultDatabase}
	for _, opt := range opts {
		opt(&cfg)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	s := &Store{
		client: client,
		col:    client.Database(cfg.database).Collection(colEntries),
	}
	if err := s.loadSeq(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// loadSeq resumes the insertion counter from the highest stored seq.
func (s *Store) loadSeq(ctx context.Context) error {
	var last entry
	err := s.col.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.M{"seq": -1}),
	).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mongo: load seq: %w", err)
	}
	s.seq.Store(last.Seq)
	return nil
}

func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"_id": key})
	if err != nil {
		return false, fmt.Errorf("mongo: has %q: %w", key, err)
	}
	return n > 0, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var e entry
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", fmt.Errorf("%w: %q", streamless.ErrKeyNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("mongo: get %q: %w", key, err)
	}
	return e.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	// $setOnInsert keeps the original seq when the key already exists, so
	// updates never reorder the key.
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{
			"$set":         bson.M{"value": value},
			"$setOnInsert": bson.M{"seq": s.seq.Add(1)},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo: set %q: %w", key, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
