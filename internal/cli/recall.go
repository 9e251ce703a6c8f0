package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall [keywords...]",
		Short: "Search memory notes by keywords",
		Long: "Return notes whose keywords intersect the query. With no keywords, all\n" +
			"notes in the selected scopes are returned, global scope first.",
		Run: runRecall,
	}

	cmd.Flags().StringP("user", "u", "anonymous", "User ID")
	cmd.Flags().Bool("no-session", false, "Exclude session memory")
	cmd.Flags().Bool("no-global", false, "Exclude global memory")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	noSession, _ := cmd.Flags().GetBool("no-session")
	noGlobal, _ := cmd.Flags().GetBool("no-global")

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

	notes := memory.Search(state, memory.SearchParams{
		Keywords:       args,
		IncludeSession: !noSession,
		IncludeGlobal:  !noGlobal,
	})

	if formatFlag == "text" {
		for _, n := range notes {
			fmt.Printf("- %s (updated %s)\n", n.Text, n.LastUpdateDate)
		}
		return
	}

	b, _ := json.MarshalIndent(notes, "", "  ")
	fmt.Println(string(b))
}
