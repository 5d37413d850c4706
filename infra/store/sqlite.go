package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	corestore "github.com/clubops/planner/core/store"
)

const (
	colEvents   = "events"
	colLegs     = "legs"
	colVehicles = "vehicles"
	colStaff    = "staff"
	colItems    = "budget_items"
)

// SQLiteStore persists every collection as JSON records in a single SQLite
// database. Records are keyed by (tenant, collection, id); Apply flushes a
// whole batch inside one transaction so a commit lands atomically.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS records (
        tenant TEXT NOT NULL,
        collection TEXT NOT NULL,
        id TEXT NOT NULL,
        data TEXT NOT NULL,
        PRIMARY KEY (tenant, collection, id)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Load implements core/store.Store.
func (s *SQLiteStore) Load(ctx context.Context, tenant string) (corestore.Snapshot, error) {
	var snap corestore.Snapshot
	if err := loadCollection(ctx, s.db, tenant, colEvents, &snap.Events); err != nil {
		return corestore.Snapshot{}, err
	}
	if err := loadCollection(ctx, s.db, tenant, colLegs, &snap.Legs); err != nil {
		return corestore.Snapshot{}, err
	}
	if err := loadCollection(ctx, s.db, tenant, colVehicles, &snap.Vehicles); err != nil {
		return corestore.Snapshot{}, err
	}
	if err := loadCollection(ctx, s.db, tenant, colStaff, &snap.Staff); err != nil {
		return corestore.Snapshot{}, err
	}
	if err := loadCollection(ctx, s.db, tenant, colItems, &snap.Items); err != nil {
		return corestore.Snapshot{}, err
	}
	return snap, nil
}

func loadCollection[T any](ctx context.Context, db *sql.DB, tenant, collection string, out *[]T) error {
	rows, err := db.QueryContext(ctx,
		`SELECT data FROM records WHERE tenant = ? AND collection = ? ORDER BY rowid`,
		tenant, collection)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		var rec T
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return fmt.Errorf("unmarshal %s record: %w", collection, err)
		}
		*out = append(*out, rec)
	}
	return rows.Err()
}

// Apply implements core/store.Store.
func (s *SQLiteStore) Apply(ctx context.Context, tenant string, batch corestore.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := applyBatch(ctx, tx, tenant, batch); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("rollback: %v (apply err: %w)", rerr, err)
		}
		return err
	}
	return tx.Commit()
}

func applyBatch(ctx context.Context, tx *sql.Tx, tenant string, batch corestore.Batch) error {
	for _, ev := range batch.Events {
		if err := upsert(ctx, tx, tenant, colEvents, ev.ID, ev); err != nil {
			return err
		}
	}
	for _, leg := range batch.Legs {
		if err := upsert(ctx, tx, tenant, colLegs, leg.ID, leg); err != nil {
			return err
		}
	}
	for _, id := range batch.DeletedLegs {
		if err := del(ctx, tx, tenant, colLegs, id); err != nil {
			return err
		}
	}
	for _, v := range batch.Vehicles {
		if err := upsert(ctx, tx, tenant, colVehicles, v.ID, v); err != nil {
			return err
		}
	}
	for _, m := range batch.Staff {
		if err := upsert(ctx, tx, tenant, colStaff, m.ID, m); err != nil {
			return err
		}
	}
	for _, it := range batch.Items {
		if err := upsert(ctx, tx, tenant, colItems, it.ID, it); err != nil {
			return err
		}
	}
	for _, id := range batch.DeletedItems {
		if err := del(ctx, tx, tenant, colItems, id); err != nil {
			return err
		}
	}
	return nil
}

func upsert(ctx context.Context, tx *sql.Tx, tenant, collection, id string, rec any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (tenant, collection, id, data) VALUES (?, ?, ?, ?)
         ON CONFLICT (tenant, collection, id) DO UPDATE SET data = excluded.data`,
		tenant, collection, id, string(b))
	return err
}

func del(ctx context.Context, tx *sql.Tx, tenant, collection, id string) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM records WHERE tenant = ? AND collection = ? AND id = ?`,
		tenant, collection, id)
	return err
}

// Close implements core/store.Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ corestore.Store = (*SQLiteStore)(nil)
var _ corestore.Store = (*MemoryStore)(nil)
