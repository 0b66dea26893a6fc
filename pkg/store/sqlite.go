package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/helmcode/inr-assistant/pkg/model"
)

// timestamps are stored as fixed-width UTC text so ORDER BY sorts them chronologically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS inr_data (
	user_id    TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteStore keeps both collections in a local SQLite file. The inrData
// document is stored as JSON.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storageErr(OpOpen, "sqlite", path, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, storageErr(OpOpen, "sqlite", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, storageErr(OpOpen, "sqlite", path, fmt.Errorf("migrate: %w", err))
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]model.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, email, created_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, storageErr(OpList, model.UsersCollection, "", err)
	}
	defer rows.Close()

	users := []model.UserRecord{}
	for rows.Next() {
		var u model.UserRecord
		var created string
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.Email, &created); err != nil {
			return nil, storageErr(OpList, model.UsersCollection, "", err)
		}
		if u.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, storageErr(OpList, model.UsersCollection, u.ID, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(OpList, model.UsersCollection, "", err)
	}
	return users, nil
}

func (s *SQLiteStore) EnsureUser(ctx context.Context, u model.UserRecord) error {
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, display_name, email, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.DisplayName, u.Email, created.UTC().Format(timeLayout))
	return storageErr(OpCreate, model.UsersCollection, u.ID, err)
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(OpDelete, model.UsersCollection, id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return storageErr(OpDelete, model.UsersCollection, id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inr_data WHERE user_id = ?`, id); err != nil {
		return storageErr(OpDelete, model.INRDataCollection, id, err)
	}
	return storageErr(OpDelete, model.UsersCollection, id, tx.Commit())
}

func (s *SQLiteStore) LoadINRData(ctx context.Context, id string) (*model.INRData, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM inr_data WHERE user_id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return emptyINRData(), nil
	}
	if err != nil {
		return nil, storageErr(OpLoad, model.INRDataCollection, id, err)
	}

	d := emptyINRData()
	if err := json.Unmarshal([]byte(doc), d); err != nil {
		return nil, storageErr(OpLoad, model.INRDataCollection, id, fmt.Errorf("decode document: %w", err))
	}
	if d.Measurements == nil {
		d.Measurements = []model.Measurement{}
	}
	return d, nil
}

func (s *SQLiteStore) SaveINRData(ctx context.Context, id string, d *model.INRData) error {
	doc, err := json.Marshal(d)
	if err != nil {
		return storageErr(OpSave, model.INRDataCollection, id, fmt.Errorf("encode document: %w", err))
	}
	updated := d.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO inr_data (user_id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		id, string(doc), updated.UTC().Format(timeLayout))
	return storageErr(OpSave, model.INRDataCollection, id, err)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
