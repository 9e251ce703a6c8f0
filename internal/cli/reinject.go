package cli

import (
	"fmt"

	"github.com/rcliao/agent-state/internal/inject"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reinject",
		Short: "Render the post-trim reinjection artifact",
		Long: "Render session notes under a reinjection heading and clear the pending\n" +
			"flag. Prints nothing when no reinjection is pending.",
		Run: runReinject,
	}

	cmd.Flags().StringP("user", "u", "anonymous", "User ID")

	RootCmd.AddCommand(cmd)
}

func runReinject(cmd *cobra.Command, args []string) {
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

	if !inject.ShouldReinject(state) {
		return
	}

	msg := inject.RenderReinjection(state)
	if err := s.Save(cmd.Context(), state); err != nil {
		exitErr("save state", err)
	}
	fmt.Println(msg)
}
