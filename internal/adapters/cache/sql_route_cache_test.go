package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newSQLCache(t *testing.T) *SQLRouteCache {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`
	CREATE TABLE route_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		polyline TEXT NOT NULL,
		PRIMARY KEY (origin, destination)
	);`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return NewSQLRouteCache(db)
}

func TestSQLRouteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newSQLCache(t)

	if _, ok, err := c.Get(ctx, pickup, incident); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, pickup, incident, routed); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(ctx, pickup, incident)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if len(got) != 3 || got[0] != pickup || got[2] != incident {
		t.Fatalf("got %v", got)
	}
}

func TestSQLRouteCacheUpsert(t *testing.T) {
	ctx := context.Background()
	c := newSQLCache(t)

	if err := c.Put(ctx, pickup, incident, routed); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if err := c.Put(ctx, pickup, incident, routed[1:]); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, _, err := c.Get(ctx, pickup, incident)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d points after upsert, want 2", len(got))
	}
}

func TestSQLRouteCacheNilDB(t *testing.T) {
	c := NewSQLRouteCache(nil)
	if _, _, err := c.Get(context.Background(), pickup, incident); err == nil {
		t.Fatal("expected error for nil db")
	}
}
