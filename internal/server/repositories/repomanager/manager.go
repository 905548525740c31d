// Package repomanager opens the configured store and hands out the
// repositories bound to it. The backend is chosen by the DSN scheme.
package repomanager

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/wizardry/internal/server/repositories/posts"
	"github.com/dmitrijs2005/wizardry/internal/server/repositories/users"
)

type RepositoryManager interface {
	// Init prepares the schema: migrations for SQL, indexes for Mongo.
	Init(ctx context.Context) error
	Users() users.Repository
	Posts() posts.Repository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// New connects to the store named by dsn. dbName is only used by the Mongo
// backend, which keeps the database name outside the connection string.
func New(ctx context.Context, dsn, dbName string) (RepositoryManager, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, dsn, dbName)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, dsn)
	case "memory":
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}
