package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var snapshotSchema string

// SnapshotStore keeps named snapshot payloads in the snapshots table.
type SnapshotStore struct {
	DB *sql.DB
}

// OpenSnapshotStore opens the sqlite file at path and makes sure the
// snapshots table exists. ":memory:" gives a private in-process database.
func OpenSnapshotStore(ctx context.Context, path string) (*SnapshotStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot db path is required")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db %s: %w", path, err)
	}
	// ":memory:" databases live per connection
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, snapshotSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SnapshotStore{DB: conn}, nil
}

func (s *SnapshotStore) Read(ctx context.Context, name string) ([]byte, bool, error) {
	var payload string
	err := s.DB.QueryRowContext(ctx, "SELECT payload FROM snapshots WHERE name = ?", normalizeName(name)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return []byte(payload), true, nil
}

func (s *SnapshotStore) Write(ctx context.Context, name string, payload []byte) error {
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("snapshot name is required")
	}

	_, err := s.DB.ExecContext(ctx, `INSERT INTO snapshots (name, payload, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`, key, string(payload))
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	return nil
}

func (s *SnapshotStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT name FROM snapshots ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SnapshotStore) Close() error {
	return s.DB.Close()
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
