package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/agent-state/internal/consolidate"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Merge session memory into global memory",
		Long: "Deduplicate the combined global and session notes, replace global memory\n" +
			"with the result, and clear session memory. Run at session boundaries.",
		Run: runConsolidate,
	}

	cmd.Flags().StringP("user", "u", "anonymous", "User ID")

	RootCmd.AddCommand(cmd)
}

func runConsolidate(cmd *cobra.Command, args []string) {
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

	stats := consolidate.ConsolidateSession(state)

	if err := s.Save(cmd.Context(), state); err != nil {
		exitErr("save state", err)
	}

	b, _ := json.Marshal(stats)
	fmt.Println(string(b))
}
