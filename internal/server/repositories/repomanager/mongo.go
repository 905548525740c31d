package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wizardry/internal/server/repositories/posts"
	"github.com/dmitrijs2005/wizardry/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepositoryManager vends repositories over one Mongo database and
// ensures their indexes on Init.
type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
	posts  *posts.MongoRepository
}

// mongoConnect is a seam for tests.
var mongoConnect = func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error) {
	return mongo.Connect(ctx, opts...)
}

// OpenMongo connects to dsn and pings the primary.
func OpenMongo(ctx context.Context, dsn, dbName string) (*MongoRepositoryManager, error) {
	client, err := mongoConnect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return NewMongoRepositoryManager(client, dbName), nil
}

func NewMongoRepositoryManager(client *mongo.Client, dbName string) *MongoRepositoryManager {
	db := client.Database(dbName)
	return &MongoRepositoryManager{
		client: client,
		users:  users.NewMongoRepository(db),
		posts:  posts.NewMongoRepository(db),
	}
}

func (m *MongoRepositoryManager) Init(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := m.posts.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Users() users.Repository { return m.users }

func (m *MongoRepositoryManager) Posts() posts.Repository { return m.posts }

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
