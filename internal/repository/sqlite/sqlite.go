package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/repository"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var _ repository.Repository = (*Repository)(nil)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath
func New(dbPath string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// single connection: one writer, and :memory: databases live per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interfaces (
		name TEXT PRIMARY KEY,
		section TEXT NOT NULL,
		physical INTEGER NOT NULL DEFAULT 0,
		source_file TEXT NOT NULL,
		data JSON NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS relations (
		from_name TEXT NOT NULL,
		to_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (from_name, to_name, kind),
		FOREIGN KEY (from_name) REFERENCES interfaces(name) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_interfaces_section ON interfaces(section);
	CREATE INDEX IF NOT EXISTS idx_relations_to ON relations(to_name);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ImportRegistry replaces the stored snapshot with reg
func (r *Repository) ImportRegistry(ctx context.Context, reg *domain.Registry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Relations go with their interfaces through the cascade
	if _, err := tx.ExecContext(ctx, `DELETE FROM interfaces`); err != nil {
		return fmt.Errorf("failed to clear interfaces: %w", err)
	}

	ifaceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO interfaces (name, section, physical, source_file, data, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare interface statement: %w", err)
	}
	defer ifaceStmt.Close()

	files := make(map[string]bool)
	for i, rec := range reg.All() {
		data, err := json.Marshal(rec.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal interface %s: %w", rec.Name, err)
		}
		if _, err := ifaceStmt.ExecContext(ctx, rec.Name, string(rec.Section), boolToInt(rec.Section.IsPhysical()), rec.SourceFile, data, i); err != nil {
			return fmt.Errorf("failed to insert interface %s: %w", rec.Name, err)
		}
		files[rec.SourceFile] = true
	}

	relStmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO relations (from_name, to_name, kind, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare relation statement: %w", err)
	}
	defer relStmt.Close()

	relations := reg.Relations()
	for i, rel := range relations {
		if _, err := relStmt.ExecContext(ctx, rel.From, rel.To, string(rel.Kind), i); err != nil {
			return fmt.Errorf("failed to insert relation %s -> %s: %w", rel.From, rel.To, err)
		}
	}

	info := repository.SnapshotInfo{
		ID:         uuid.NewString(),
		ImportedAt: time.Now().UTC(),
		Interfaces: reg.Len(),
		Relations:  len(relations),
		Files:      sortedSet(files),
	}
	if err := setMetadata(ctx, tx, "snapshot", info); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetInterface returns the stored interface, or nil if there is none
func (r *Repository) GetInterface(ctx context.Context, name string) (*domain.InterfaceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, section, source_file, data FROM interfaces WHERE name = ?
	`, name)

	rec, err := scanInterface(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interface %s: %w", name, err)
	}
	return rec, nil
}

// ListInterfaces returns the stored interfaces ordered by name, optionally
// restricted to one section
func (r *Repository) ListInterfaces(ctx context.Context, section domain.Section) ([]domain.InterfaceRecord, error) {
	query := `SELECT name, section, source_file, data FROM interfaces`
	var args []any
	if section != "" {
		query += ` WHERE section = ?`
		args = append(args, string(section))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interfaces: %w", err)
	}
	defer rows.Close()

	var out []domain.InterfaceRecord
	for rows.Next() {
		rec, err := scanInterface(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interface: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interfaces: %w", err)
	}
	return out, nil
}

// ListRelations returns the stored relations in registry order. When name
// is set only relations starting or ending at name are returned.
func (r *Repository) ListRelations(ctx context.Context, name string) ([]domain.Relation, error) {
	query := `SELECT from_name, to_name, kind FROM relations`
	var args []any
	if name != "" {
		query += ` WHERE from_name = ? OR to_name = ?`
		args = append(args, name, name)
	}
	query += ` ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query relations: %w", err)
	}
	defer rows.Close()

	var out []domain.Relation
	for rows.Next() {
		var rel domain.Relation
		var kind string
		if err := rows.Scan(&rel.From, &rel.To, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		rel.Kind = domain.RelationKind(kind)
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relations: %w", err)
	}
	return out, nil
}

// GetSnapshotInfo describes the last import, or returns nil if nothing
// was imported yet
func (r *Repository) GetSnapshotInfo(ctx context.Context) (*repository.SnapshotInfo, error) {
	var info repository.SnapshotInfo
	ok, err := getMetadata(ctx, r.db, "snapshot", &info)
	if err != nil || !ok {
		return nil, err
	}
	return &info, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
