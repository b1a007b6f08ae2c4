package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/dbseed/pkg/dbseed"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// pgxConnection owns a pgx pool and whatever its auth hooks hold.
type pgxConnection struct {
	*Postgres
	pool    *pgxpool.Pool
	release func()
	once    sync.Once
}

func (c *pgxConnection) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *pgxConnection) Close() error {
	c.once.Do(func() {
		c.pool.Close()
		if c.release != nil {
			c.release()
		}
	})
	return nil
}

// sqlConnection owns a database/sql handle.
type sqlConnection struct {
	*SQL
	db *sql.DB
}

func (c *sqlConnection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }
func (c *sqlConnection) Close() error                   { return c.db.Close() }

// mongoConnection owns a mongo client.
type mongoConnection struct {
	*Mongo
	client *mongo.Client
}

func (c *mongoConnection) Ping(ctx context.Context) error { return c.client.Ping(ctx, nil) }

func (c *mongoConnection) Close() error {
	err := c.client.Disconnect(context.Background())
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return nil
	}
	return err
}

var (
	_ dbseed.Connection = (*pgxConnection)(nil)
	_ dbseed.Connection = (*sqlConnection)(nil)
	_ dbseed.Connection = (*mongoConnection)(nil)
)
