// Package cli implements the agent-state CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rcliao/agent-state/internal/store"
	"github.com/spf13/cobra"
)

var (
	dirFlag     string
	dbFlag      string
	backendFlag string
	formatFlag  string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "agent-state",
	Short: "Conversational memory and session state for AI agents",
	Long: "Per-user profiles, durable and session-scoped memory notes, bounded\n" +
		"conversation transcripts, and precedence-ordered context rendering.\n" +
		"Snapshot-backed (JSON files or SQLite), single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "States directory (default: $AGENT_STATE_DIR or ~/.agent-state/states)")
	RootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite path for the sqlite backend (default: $AGENT_STATE_DB or ~/.agent-state/state.db)")
	RootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: file or sqlite (default: $AGENT_STATE_BACKEND or file)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func getStatesDir() string {
	if dirFlag != "" {
		return dirFlag
	}
	if env := os.Getenv("AGENT_STATE_DIR"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agent-state", "states")
}

func getDBPath() string {
	if dbFlag != "" {
		return dbFlag
	}
	if env := os.Getenv("AGENT_STATE_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agent-state", "state.db")
}

func getBackend() string {
	if backendFlag != "" {
		return backendFlag
	}
	if env := os.Getenv("AGENT_STATE_BACKEND"); env != "" {
		return env
	}
	return "file"
}

func openStore() (store.Store, error) {
	switch getBackend() {
	case "sqlite":
		return store.NewSQLiteStore(getDBPath())
	case "file", "":
		return store.NewFileStore(getStatesDir())
	default:
		return nil, fmt.Errorf("unknown backend %q (use file or sqlite)", getBackend())
	}
}

// warnIfRecovered logs a corrupt-snapshot recovery as a non-fatal warning.
func warnIfRecovered(w *store.LoadWarning) {
	if w != nil {
		slog.Warn("corrupt state recovered with defaults", "user", w.UserID, "error", w.Err)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
