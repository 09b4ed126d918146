package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dkarpov/plank/internal/types"
)

// Collection names one of the four record collections.
type Collection string

const (
	CollectionStages   Collection = "stages"
	CollectionTasks    Collection = "tasks"
	CollectionHistory  Collection = "history"
	CollectionProjects Collection = "projects"
)

// collectionSchema maps a collection to its table and secondary index column.
type collectionSchema struct {
	table       string
	indexColumn string
}

var collectionSchemas = map[Collection]collectionSchema{
	CollectionStages:   {table: "stages", indexColumn: "ord"},
	CollectionTasks:    {table: "tasks", indexColumn: "stage_id"},
	CollectionHistory:  {table: "history", indexColumn: "task_id"},
	CollectionProjects: {table: "projects", indexColumn: "name"},
}

// Record is one stored row: a JSON document keyed by id, plus the value of
// the collection's secondary index extracted from the document.
type Record struct {
	ID       types.ID
	IndexKey string
	Doc      []byte
}

// Store is a keyed document store over SQLite. Every collection supports
// lookup by primary key and by one secondary attribute. Initialization is
// lazy and idempotent: the first operation triggers schema setup, and
// concurrent callers all wait on the same setup.
type Store struct {
	db       *sql.DB
	initOnce sync.Once
	initErr  error
}

// NewStore wraps an open database connection. No schema work happens until
// the first operation.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = runMigrations(ctx, s.db)
	})
	if s.initErr != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, s.initErr)
	}
	return nil
}

func schemaFor(coll Collection) (collectionSchema, error) {
	schema, ok := collectionSchemas[coll]
	if !ok {
		return collectionSchema{}, fmt.Errorf("%w: %s", ErrUnknownCollection, coll)
	}
	return schema, nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, coll Collection, id types.ID) (*Record, error) {
	schema, err := schemaFor(coll)
	if err != nil {
		return nil, err
	}
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, %s, doc FROM %s WHERE id = ?`, schema.indexColumn, schema.table)
	var rec Record
	err = s.db.QueryRowContext(ctx, query, string(id)).Scan(&rec.ID, &rec.IndexKey, &rec.Doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", coll, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", coll, ErrUnavailable, err)
	}
	return &rec, nil
}

// GetAll returns every record in the collection in insertion order. Callers
// apply their own sort.
func (s *Store) GetAll(ctx context.Context, coll Collection) ([]Record, error) {
	schema, err := schemaFor(coll)
	if err != nil {
		return nil, err
	}
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, %s, doc FROM %s ORDER BY rowid`, schema.indexColumn, schema.table)
	return s.queryRecords(ctx, coll, query)
}

// GetByIndex returns every record whose secondary index equals key, in
// insertion order.
func (s *Store) GetByIndex(ctx context.Context, coll Collection, key string) ([]Record, error) {
	schema, err := schemaFor(coll)
	if err != nil {
		return nil, err
	}
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, %s, doc FROM %s WHERE %s = ? ORDER BY rowid`,
		schema.indexColumn, schema.table, schema.indexColumn)
	return s.queryRecords(ctx, coll, query, key)
}

// Put inserts or replaces the record keyed by its id. Idempotent.
func (s *Store) Put(ctx context.Context, coll Collection, rec Record) error {
	schema, err := schemaFor(coll)
	if err != nil {
		return err
	}
	if err := s.init(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, %s, doc) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET %s = excluded.%s, doc = excluded.doc`,
		schema.table, schema.indexColumn, schema.indexColumn, schema.indexColumn)
	if _, err := s.db.ExecContext(ctx, query, string(rec.ID), rec.IndexKey, rec.Doc); err != nil {
		return fmt.Errorf("put %s: %w: %w", coll, ErrUnavailable, err)
	}
	return nil
}

// Delete removes the record if present. Deleting an absent id is a no-op,
// not an error.
func (s *Store) Delete(ctx context.Context, coll Collection, id types.ID) error {
	schema, err := schemaFor(coll)
	if err != nil {
		return err
	}
	if err := s.init(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, schema.table)
	if _, err := s.db.ExecContext(ctx, query, string(id)); err != nil {
		return fmt.Errorf("delete %s: %w: %w", coll, ErrUnavailable, err)
	}
	return nil
}

// DeleteByIndex removes every record whose secondary index equals key, in
// one statement, so the caller observes all-or-nothing.
func (s *Store) DeleteByIndex(ctx context.Context, coll Collection, key string) error {
	schema, err := schemaFor(coll)
	if err != nil {
		return err
	}
	if err := s.init(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, schema.table, schema.indexColumn)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete by index %s: %w: %w", coll, ErrUnavailable, err)
	}
	return nil
}

func (s *Store) queryRecords(ctx context.Context, coll Collection, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w: %w", coll, ErrUnavailable, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.IndexKey, &rec.Doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w: %w", coll, ErrUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w: %w", coll, ErrUnavailable, err)
	}
	return records, nil
}
