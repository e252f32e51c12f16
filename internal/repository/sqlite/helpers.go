package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"netplan-parser/internal/domain"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanInterface reads one interfaces row. JSON numbers come back as
// float64.
func scanInterface(row rowScanner) (*domain.InterfaceRecord, error) {
	var (
		name, section, sourceFile string
		data                      []byte
	)
	if err := row.Scan(&name, &section, &sourceFile, &data); err != nil {
		return nil, err
	}

	rec := &domain.InterfaceRecord{
		Name:       name,
		Section:    domain.Section(section),
		SourceFile: sourceFile,
	}
	if err := json.Unmarshal(data, &rec.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data of %s: %w", name, err)
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	return rec, nil
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func setMetadata(ctx context.Context, db execer, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata %s: %w", key, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, data)
	if err != nil {
		return fmt.Errorf("failed to store metadata %s: %w", key, err)
	}
	return nil
}

// getMetadata decodes the value stored under key into dest and reports
// whether it existed
func getMetadata(ctx context.Context, db queryer, key string, dest any) (bool, error) {
	var data []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load metadata %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal metadata %s: %w", key, err)
	}
	return true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
