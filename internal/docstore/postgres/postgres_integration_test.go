//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/michela/coach/internal/docstore"
	"github.com/michela/coach/internal/docstore/docstoretest"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "coach",
			"POSTGRES_PASSWORD": "coach",
			"POSTGRES_DB":       "coach",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("postgres://coach:coach@%s:%s/coach?sslmode=disable", host, port.Port())
}

func TestPostgresStore_Container(t *testing.T) {
	dsn := startPostgres(t)
	docstoretest.Run(t, func(t *testing.T) docstore.Store {
		s, err := New(context.Background(), dsn)
		if err != nil {
			t.Fatalf("postgres open: %v", err)
		}
		return s
	})
}
