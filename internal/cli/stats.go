package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show storage or per-user memory statistics",
		Long:  "Without --user, print storage statistics. With --user, print that user's memory summary.",
		Run:   runStats,
	}

	cmd.Flags().StringP("user", "u", "", "User ID")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if userID == "" {
		info, err := s.Info(cmd.Context())
		if err != nil {
			exitErr("stats", err)
		}
		b, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(b))
		return
	}

	state, warning, err := s.Load(cmd.Context(), userID)
	if err != nil {
		exitErr("load state", err)
	}
	warnIfRecovered(warning)

	b, _ := json.MarshalIndent(memory.Summarize(state), "", "  ")
	fmt.Println(string(b))
}
