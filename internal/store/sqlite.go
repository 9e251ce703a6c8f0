package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/agent-state/internal/model"
)

// SQLiteStore implements Store over a single SQLite database, one snapshot
// row per user. The snapshot payload is the same JSON format the file
// backend writes.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		path:    dbPath,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS states (
		user_id    TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS state_backups (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_backups_user ON state_backups(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context, userID string) (*model.AgentState, *LoadWarning, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM states WHERE user_id = ?`, SanitizeUserID(userID)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		state := model.DefaultState(userID)
		if err := s.Save(ctx, state); err != nil {
			return nil, nil, err
		}
		return state, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load state: %w", err)
	}

	state, err := decodeState([]byte(data))
	if err != nil {
		return model.DefaultState(userID), &LoadWarning{UserID: userID, Err: err}, nil
	}
	return state, nil, nil
}

func (s *SQLiteStore) LoadStrict(ctx context.Context, userID string) (*model.AgentState, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM states WHERE user_id = ?`, SanitizeUserID(userID)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return decodeState([]byte(data))
}

func (s *SQLiteStore) Save(ctx context.Context, state *model.AgentState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO states (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		SanitizeUserID(state.UserID), string(data), now)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM states WHERE user_id = ?`, SanitizeUserID(userID))
	if err != nil {
		return false, fmt.Errorf("delete state: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM states ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Backup copies the current snapshot row into state_backups and returns the
// backup row ID.
func (s *SQLiteStore) Backup(ctx context.Context, userID string) (string, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM states WHERE user_id = ?`, SanitizeUserID(userID)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load state: %w", err)
	}

	id := s.newID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO state_backups (id, user_id, data, created_at) VALUES (?, ?, ?, ?)`,
		id, SanitizeUserID(userID), data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Export(ctx context.Context, userID, path string) error {
	state, err := s.LoadStrict(ctx, userID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Import(ctx context.Context, path, overrideUserID string) (*model.AgentState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	state, err := decodeState(data)
	if err != nil {
		return nil, err
	}
	if overrideUserID != "" {
		state.UserID = overrideUserID
	}
	if err := s.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *SQLiteStore) Info(ctx context.Context) (*Info, error) {
	info := &Info{Path: s.path}

	if fi, err := os.Stat(s.path); err == nil {
		info.TotalSizeBytes = fi.Size()
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM states`).Scan(&info.UserCount); err != nil {
		return nil, fmt.Errorf("count states: %w", err)
	}
	return info, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
