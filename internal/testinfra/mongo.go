package testinfra

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	MongoImage = "mongo:7"
	mongoPort  = "27017/tcp"
)

// MongoContainer is a running single-node MongoDB reachable through URI.
type MongoContainer struct {
	testcontainers.Container
	URI string
}

// StartMongo runs a MongoDB container without authentication and waits until
// it accepts connections.
func StartMongo(ctx context.Context) (*MongoContainer, error) {
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        MongoImage,
			ExposedPorts: []string{mongoPort},
			WaitingFor: wait.ForAll(
				wait.ForLog("Waiting for connections"),
				wait.ForListeningPort(mongoPort),
			).WithDeadline(startupTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start mongo: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("get mongo host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, mongoPort)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("get mongo port: %w", err)
	}

	return &MongoContainer{Container: ctr, URI: fmt.Sprintf("mongodb://%s:%s", host, port.Port())}, nil
}
