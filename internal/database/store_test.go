package database

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dkarpov/plank/internal/types"
)

func TestStorePutGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))

	rec := Record{ID: "p1", IndexKey: "Alpha", Doc: []byte(`{"id":"p1"}`)}
	if err := store.Put(ctx, CollectionProjects, rec); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := store.Get(ctx, CollectionProjects, "p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.IndexKey != "Alpha" || string(got.Doc) != `{"id":"p1"}` {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestStorePutIsUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))

	rec := Record{ID: "p1", IndexKey: "Alpha", Doc: []byte(`1`)}
	if err := store.Put(ctx, CollectionProjects, rec); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	rec.IndexKey = "Beta"
	rec.Doc = []byte(`2`)
	if err := store.Put(ctx, CollectionProjects, rec); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	all, err := store.GetAll(ctx, CollectionProjects)
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", len(all))
	}
	if all[0].IndexKey != "Beta" || string(all[0].Doc) != `2` {
		t.Errorf("upsert did not replace record: %+v", all[0])
	}
}

func TestStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))

	_, err := store.Get(ctx, CollectionProjects, "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreDeleteAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))

	if err := store.Delete(ctx, CollectionProjects, "nope"); err != nil {
		t.Errorf("deleting absent record should be a no-op, got %v", err)
	}
}

func TestStoreGetByIndex(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))

	for i, id := range []types.ID{"h1", "h2", "h3"} {
		key := "task-a"
		if i == 1 {
			key = "task-b"
		}
		rec := Record{ID: id, IndexKey: key, Doc: []byte(`{}`)}
		if err := store.Put(ctx, CollectionHistory, rec); err != nil {
			t.Fatalf("put %s failed: %v", id, err)
		}
	}

	recs, err := store.GetByIndex(ctx, CollectionHistory, "task-a")
	if err != nil {
		t.Fatalf("getByIndex failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// Insertion order
	if recs[0].ID != "h1" || recs[1].ID != "h3" {
		t.Errorf("unexpected order: %s, %s", recs[0].ID, recs[1].ID)
	}
}

func TestStoreDeleteByIndex(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))

	for _, id := range []types.ID{"h1", "h2"} {
		rec := Record{ID: id, IndexKey: "task-a", Doc: []byte(`{}`)}
		if err := store.Put(ctx, CollectionHistory, rec); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}
	rec := Record{ID: "h3", IndexKey: "task-b", Doc: []byte(`{}`)}
	if err := store.Put(ctx, CollectionHistory, rec); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if err := store.DeleteByIndex(ctx, CollectionHistory, "task-a"); err != nil {
		t.Fatalf("deleteByIndex failed: %v", err)
	}

	remaining, err := store.GetAll(ctx, CollectionHistory)
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "h3" {
		t.Errorf("expected only h3 to remain, got %+v", remaining)
	}
}

func TestStoreUnknownCollection(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))

	_, err := store.Get(ctx, "labels", "x")
	if !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestStoreLazyInitOnce(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))

	// Concurrent first accesses must share one schema setup.
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.GetAll(ctx, CollectionProjects)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("concurrent init call %d failed: %v", i, err)
		}
	}
}

func TestStoreSchemaVersion(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	store := NewStore(db)

	if _, err := store.GetAll(ctx, CollectionProjects); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("reading user_version: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("expected schema version %d, got %d", schemaVersion, version)
	}

	// Running migrations again must be a no-op.
	if err := runMigrations(ctx, db); err != nil {
		t.Errorf("re-running migrations failed: %v", err)
	}
}
