package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestInitPostgresSkipsWithoutURL(t *testing.T) {
	t.Cleanup(func() { Pool = nil })

	InitPostgres(context.Background(), "")
	if Pool != nil {
		t.Fatal("expected nil pool when url is empty")
	}
}

func TestInitPostgresConnects(t *testing.T) {
	origNew := newPool
	origPing := pingPool
	t.Cleanup(func() {
		newPool = origNew
		pingPool = origPing
		Pool = nil
	})

	var capturedURL string
	newPool = func(ctx context.Context, url string) (*pgxpool.Pool, error) {
		capturedURL = url
		return &pgxpool.Pool{}, nil
	}
	pingPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return nil
	}

	InitPostgres(context.Background(), "postgres://localhost:5432/trendherald")
	if capturedURL != "postgres://localhost:5432/trendherald" {
		t.Fatalf("expected url to be passed through, got %s", capturedURL)
	}
	if Pool == nil {
		t.Fatal("expected pool to be set")
	}
}
