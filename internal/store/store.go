// Package store persists agent state snapshots.
//
// A snapshot is a complete serialized AgentState keyed by a sanitized user
// identifier. Snapshots are read-modify-write: callers needing multi-process
// safety must hold an external per-user lock around the load→mutate→save
// cycle.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rcliao/agent-state/internal/model"
)

// ErrNotFound is returned by strict lookups when no snapshot exists.
var ErrNotFound = errors.New("state not found")

// LoadWarning reports a corrupt snapshot that was recovered by substituting
// a fresh default state. Non-fatal by definition.
type LoadWarning struct {
	UserID string
	Err    error
}

func (w *LoadWarning) Error() string {
	return fmt.Sprintf("corrupt state for %s (recovered with defaults): %v", w.UserID, w.Err)
}

// Info holds storage statistics.
type Info struct {
	Path           string `json:"path"`
	UserCount      int    `json:"user_count"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
}

// Store defines the snapshot persistence interface.
type Store interface {
	// Load retrieves a user's state, creating and persisting a default
	// state if none exists. A corrupt snapshot yields a fresh default and
	// a non-nil warning instead of an error.
	Load(ctx context.Context, userID string) (*model.AgentState, *LoadWarning, error)

	// LoadStrict retrieves a user's state, returning ErrNotFound when no
	// snapshot exists and an error on a corrupt snapshot.
	LoadStrict(ctx context.Context, userID string) (*model.AgentState, error)

	// Save writes a complete snapshot of the state.
	Save(ctx context.Context, state *model.AgentState) error

	// Delete removes a user's snapshot, reporting whether one existed.
	Delete(ctx context.Context, userID string) (bool, error)

	// List returns all user IDs with a snapshot, sorted.
	List(ctx context.Context) ([]string, error)

	// Backup copies the current snapshot into the backup namespace and
	// returns its location.
	Backup(ctx context.Context, userID string) (string, error)

	// Export writes a user's snapshot to an external file path.
	Export(ctx context.Context, userID, path string) error

	// Import reads a snapshot file, optionally overriding the user ID,
	// and persists it.
	Import(ctx context.Context, path, overrideUserID string) (*model.AgentState, error)

	// Info returns storage statistics.
	Info(ctx context.Context) (*Info, error)

	// Close closes the store.
	Close() error
}

// SanitizeUserID strips every character other than alphanumerics, '_' and
// '-' from a user identifier so it is safe to use as a storage key.
func SanitizeUserID(userID string) string {
	var b strings.Builder
	for _, c := range userID {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteRune(c)
		}
	}
	return b.String()
}

// encodeState serializes a state snapshot.
func encodeState(state *model.AgentState) ([]byte, error) {
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return b, nil
}

// decodeState deserializes a snapshot, filling absent fields with defaults.
func decodeState(data []byte) (*model.AgentState, error) {
	var state model.AgentState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	state.Normalize()
	return &state, nil
}
