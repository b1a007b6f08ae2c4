package store

import (
	"context"

	"github.com/vvka-141/dbseed/pkg/dbseed"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Mongo inserts every fixture as one document into the collection named by its table.
type Mongo struct {
	db *mongo.Database
}

// NewMongo creates a Mongo store writing to db.
// Panics if db is nil.
func NewMongo(db *mongo.Database) *Mongo {
	if db == nil {
		panic("db cannot be nil")
	}
	return &Mongo{db: db}
}

// Insert calls InsertOne. Driver errors are returned unchanged.
func (s *Mongo) Insert(ctx context.Context, table string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	_, err := s.db.Collection(table).InsertOne(ctx, data)
	return err
}

var _ dbseed.Store = (*Mongo)(nil)
