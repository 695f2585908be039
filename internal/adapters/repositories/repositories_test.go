package repositories

import (
	"aed-dispatch-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const aedJSON = `[
  {"name": "天府广场", "address": "人民南路一段86号", "lng": 104.0657, "lat": 30.6598},
  {"name": "无坐标", "address": "未知", "lng": null, "lat": null},
  {"name": "春熙路地铁站", "address": "春熙路", "lng": 104.0808, "lat": 30.6558},
  {"name": "只有经度", "address": "", "lng": 104.1}
]`

func writeAEDFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aed_data.json")
	if err := os.WriteFile(path, []byte(aedJSON), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestJSONAEDDirectoryDropsMissingCoordinates(t *testing.T) {
	d := NewJSONAEDDirectory(writeAEDFile(t))

	sites, err := d.ListAEDs(context.Background())
	if err != nil {
		t.Fatalf("ListAEDs: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("got %d sites, want 2", len(sites))
	}
	if sites[0].Name != "天府广场" || sites[1].Name != "春熙路地铁站" {
		t.Fatalf("order not preserved: %+v", sites)
	}
	if sites[0].Location != (domain.LatLng{Lat: 30.6598, Lng: 104.0657}) {
		t.Fatalf("location = %+v", sites[0].Location)
	}
}

func TestJSONAEDDirectoryMissingFile(t *testing.T) {
	d := NewJSONAEDDirectory(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := d.ListAEDs(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

func TestSQLAEDDirectorySeededFromJSON(t *testing.T) {
	db := openMemoryDB(t)
	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	path := writeAEDFile(t)
	n, err := SeedFromJSON(db, path)
	if err != nil {
		t.Fatalf("SeedFromJSON: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded %d rows, want 2", n)
	}

	// Reseeding upserts instead of duplicating.
	if _, err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	sites, err := NewSQLAEDDirectory(db).ListAEDs(context.Background())
	if err != nil {
		t.Fatalf("ListAEDs: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("got %d sites, want 2", len(sites))
	}
	if sites[1].Address != "春熙路" || sites[1].Location.Lng != 104.0808 {
		t.Fatalf("second site = %+v", sites[1])
	}
}

func TestSeedFromShorterExportPrunesStaleRows(t *testing.T) {
	db := openMemoryDB(t)
	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	if _, err := SeedFromJSON(db, writeAEDFile(t)); err != nil {
		t.Fatalf("SeedFromJSON: %v", err)
	}

	shorter := filepath.Join(t.TempDir(), "shorter.json")
	body := `[{"name": "宽窄巷子", "address": "金河路", "lng": 104.0415, "lat": 30.6632}]`
	if err := os.WriteFile(shorter, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	n, err := SeedFromJSON(db, shorter)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if n != 1 {
		t.Fatalf("seeded %d rows, want 1", n)
	}

	sites, err := NewSQLAEDDirectory(db).ListAEDs(context.Background())
	if err != nil {
		t.Fatalf("ListAEDs: %v", err)
	}
	if len(sites) != 1 || sites[0].Name != "宽窄巷子" {
		t.Fatalf("sites = %+v, want only the new export", sites)
	}
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	for i := 0; i < 2; i++ {
		if err := InitSchema(db); err != nil {
			t.Fatalf("InitSchema #%d: %v", i+1, err)
		}
	}
}

func TestStaticAEDDirectoryReturnsCopy(t *testing.T) {
	d := NewStaticAEDDirectory([]domain.AEDSite{{Name: "a"}, {Name: "b"}})

	first, _ := d.ListAEDs(context.Background())
	first[0].Name = "mutated"

	second, _ := d.ListAEDs(context.Background())
	if second[0].Name != "a" {
		t.Fatalf("directory was mutated through returned slice")
	}
}

func TestMemoryTaskRepositoryMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepository(domain.DispatchTask{ID: "seed"})

	for _, id := range []string{"a", "b"} {
		if err := r.Add(ctx, domain.DispatchTask{ID: id, Status: domain.TaskEnRouteToPickup}); err != nil {
			t.Fatalf("Add %s: %v", id, err)
		}
	}

	tasks, _ := r.ListTasks(ctx)
	got := []string{tasks[0].ID, tasks[1].ID, tasks[2].ID}
	want := []string{"b", "a", "seed"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	if err := r.Add(ctx, domain.DispatchTask{ID: "a"}); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestMemoryTaskRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTaskRepository()
	_ = r.Add(ctx, domain.DispatchTask{ID: "t1", Status: domain.TaskEnRouteToPickup, ETAMinutes: 8})

	err := r.Update(ctx, "t1", func(t *domain.DispatchTask) {
		t.Status = domain.TaskDelivered
		t.ETAMinutes = 0
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	task, err := r.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Status != domain.TaskDelivered || task.ETAMinutes != 0 {
		t.Fatalf("task = %+v", task)
	}

	if err := r.Update(ctx, "missing", func(*domain.DispatchTask) {}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}
