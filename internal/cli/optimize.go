package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/agent-state/internal/consolidate"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the full memory maintenance pass",
		Long:  "Deduplicate global memory, drop low-quality notes, prune by age and count, and sort most-recent-first.",
		Run:   runOptimize,
	}

	cmd.Flags().StringP("user", "u", "anonymous", "User ID")

	RootCmd.AddCommand(cmd)
}

func runOptimize(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	state, warning, err := s.Load(cmd.Context(), userID)
	if err != nil {
		exitErr("load state", err)
	}
	warnIfRecovered(warning)

	stats := consolidate.Optimize(state)

	if err := s.Save(cmd.Context(), state); err != nil {
		exitErr("save state", err)
	}

	b, _ := json.Marshal(stats)
	fmt.Println(string(b))
}
