package testing

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/vvka-141/dbseed/internal/testinfra"
)

// TestMongoEnv overrides the MongoDB testcontainer with an existing server.
const TestMongoEnv = "DBSEED_TEST_MONGO"

var (
	mongoContainerOnce sync.Once
	mongoContainerURI  string
	mongoContainerErr  error
)

func getOrStartMongoContainer() (string, error) {
	mongoContainerOnce.Do(func() {
		container, err := testinfra.StartMongo(context.Background())
		if err != nil {
			mongoContainerErr = err
			return
		}
		mongoContainerURI = container.URI
	})
	return mongoContainerURI, mongoContainerErr
}

// RequireMongo returns a MongoDB URI without a database path.
// Priority: DBSEED_TEST_MONGO env var > auto-started testcontainer > skip test.
func RequireMongo(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	if uri := os.Getenv(TestMongoEnv); uri != "" {
		return uri
	}

	uri, err := getOrStartMongoContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestMongoEnv, err)
	}
	return uri
}
