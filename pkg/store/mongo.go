package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/figurine/pkg/errors"
)

// MongoConfig configures [NewMongoIndex].
type MongoConfig struct {
	URI            string        `toml:"uri"`
	Database       string        `toml:"database"`
	Collection     string        `toml:"collection"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`
	QueryTimeout   time.Duration `toml:"query_timeout"`
	MaxPoolSize    uint64        `toml:"max_pool_size"`
}

// DefaultMongoConfig returns a configuration for a local server.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:            "mongodb://localhost:27017",
		Database:       "figurine",
		Collection:     "figures",
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   5 * time.Second,
		MaxPoolSize:    20,
	}
}

// MongoOption modifies a MongoConfig.
type MongoOption func(*MongoConfig)

// WithMongoURI sets the connection string.
func WithMongoURI(uri string) MongoOption {
	return func(c *MongoConfig) { c.URI = uri }
}

// WithMongoDatabase sets the database name.
func WithMongoDatabase(db string) MongoOption {
	return func(c *MongoConfig) { c.Database = db }
}

// MongoIndex stores one document per published figure.
type MongoIndex struct {
	client       *mongo.Client
	coll         *mongo.Collection
	queryTimeout time.Duration
}

// NewMongoIndex connects, pings the server and ensures the (slug, created_at)
// index exists.
func NewMongoIndex(ctx context.Context, cfg MongoConfig, opts ...MongoOption) (*MongoIndex, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	def := DefaultMongoConfig()
	if cfg.Collection == "" {
		cfg.Collection = def.Collection
	}
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = def.QueryTimeout
	}

	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndex, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeIndex, err, "ping mongodb")
	}

	idx := &MongoIndex{
		client:       client,
		coll:         client.Database(cfg.Database).Collection(cfg.Collection),
		queryTimeout: cfg.QueryTimeout,
	}
	if err := idx.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return idx, nil
}

func (m *MongoIndex) ensureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateMany(ctx, indexModels())
	if err != nil {
		return errors.Wrap(errors.ErrCodeIndex, err, "create indexes")
	}
	return nil
}

func indexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("slug_created_at"),
		},
		{
			Keys:    bson.D{{Key: "hash", Value: 1}},
			Options: options.Index().SetName("hash"),
		},
	}
}

// Record inserts r.
func (m *MongoIndex) Record(ctx context.Context, r Record) error {
	ctx, cancel := context.WithTimeout(ctx, m.queryTimeout)
	defer cancel()
	if _, err := m.coll.InsertOne(ctx, r); err != nil {
		return errors.Wrap(errors.ErrCodeIndex, err, "record figure %s", r.Key)
	}
	return nil
}

// List returns the figures of slug, oldest first.
func (m *MongoIndex) List(ctx context.Context, slug string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, m.queryTimeout)
	defer cancel()

	cur, err := m.coll.Find(ctx, slugFilter(slug), options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndex, err, "list figures of %s", slug)
	}
	defer cur.Close(ctx)

	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIndex, err, "decode figures of %s", slug)
	}
	return out, nil
}

func slugFilter(slug string) bson.D {
	return bson.D{{Key: "slug", Value: slug}}
}

// Close disconnects from the server.
func (m *MongoIndex) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Index = (*MongoIndex)(nil)
