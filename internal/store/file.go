package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rcliao/agent-state/internal/model"
)

// FileStore implements Store with one JSON snapshot file per user.
type FileStore struct {
	dir string
}

// NewFileStore opens or creates a snapshot directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create states dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, SanitizeUserID(userID)+".json")
}

func (s *FileStore) Load(ctx context.Context, userID string) (*model.AgentState, *LoadWarning, error) {
	data, err := os.ReadFile(s.path(userID))
	if os.IsNotExist(err) {
		state := model.DefaultState(userID)
		if err := s.Save(ctx, state); err != nil {
			return nil, nil, err
		}
		return state, nil, nil
	}
	if err != nil {
		return model.DefaultState(userID), &LoadWarning{UserID: userID, Err: err}, nil
	}

	state, err := decodeState(data)
	if err != nil {
		return model.DefaultState(userID), &LoadWarning{UserID: userID, Err: err}, nil
	}
	return state, nil, nil
}

func (s *FileStore) LoadStrict(ctx context.Context, userID string) (*model.AgentState, error) {
	data, err := os.ReadFile(s.path(userID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return decodeState(data)
}

// Save writes the snapshot to a temp file in the same directory and renames
// it into place, so a failure mid-write cannot leave a half-written snapshot.
func (s *FileStore) Save(ctx context.Context, state *model.AgentState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmpName, s.path(state.UserID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, userID string) (bool, error) {
	err := os.Remove(s.path(userID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete state: %w", err)
	}
	return true, nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read states dir: %w", err)
	}

	users := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		users = append(users, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(users)
	return users, nil
}

// Backup copies the current snapshot into the backups namespace, named with
// the sanitized user ID and a UTC timestamp suffix.
func (s *FileStore) Backup(ctx context.Context, userID string) (string, error) {
	state, err := s.LoadStrict(ctx, userID)
	if err != nil {
		return "", err
	}

	backupDir := filepath.Join(s.dir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102_150405")
	path := filepath.Join(backupDir, fmt.Sprintf("%s_%s.json", SanitizeUserID(userID), stamp))

	data, err := encodeState(state)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

func (s *FileStore) Export(ctx context.Context, userID, path string) error {
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

func (s *FileStore) Import(ctx context.Context, path, overrideUserID string) (*model.AgentState, error) {
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

func (s *FileStore) Info(ctx context.Context) (*Info, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, u := range users {
		if fi, err := os.Stat(filepath.Join(s.dir, u+".json")); err == nil {
			total += fi.Size()
		}
	}

	return &Info{Path: s.dir, UserCount: len(users), TotalSizeBytes: total}, nil
}

func (s *FileStore) Close() error {
	return nil
}
