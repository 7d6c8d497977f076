package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/michela/coach/internal/docstore"
	"github.com/michela/coach/internal/docstore/docstoretest"
)

func makePGStore(t *testing.T) docstore.Store {
	t.Helper()
	dsn := os.Getenv("COACH_SERVICE_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("COACH_SERVICE_POSTGRES_DSN not set; skipping postgres docstore test")
	}
	s, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	return s
}

func TestPostgresStore_Compliance(t *testing.T) {
	docstoretest.Run(t, makePGStore)
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}
