package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/agent-state/internal/inject"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [base prompt...]",
		Short: "Render the precedence-ordered context block",
		Long: "Render profile frontmatter, global memory, session memory, and recent\n" +
			"history in precedence order. A base prompt, if given, is appended after\n" +
			"the rendered block.",
		Run: runContext,
	}

	cmd.Flags().StringP("user", "u", "anonymous", "User ID")
	cmd.Flags().Bool("no-frontmatter", false, "Omit the profile frontmatter")
	cmd.Flags().Bool("no-global", false, "Omit global memory notes")
	cmd.Flags().Bool("no-session", false, "Omit session memory notes")
	cmd.Flags().Bool("no-history", false, "Omit visualization history")
	cmd.Flags().Bool("sizes", false, "Print per-section token estimates instead of the block")

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	noFrontmatter, _ := cmd.Flags().GetBool("no-frontmatter")
	noGlobal, _ := cmd.Flags().GetBool("no-global")
	noSession, _ := cmd.Flags().GetBool("no-session")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	sizes, _ := cmd.Flags().GetBool("sizes")

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

	if sizes {
		b, _ := json.MarshalIndent(inject.MeasureSections(state), "", "  ")
		fmt.Println(string(b))
		return
	}

	opts := inject.Options{
		Frontmatter:  !noFrontmatter,
		GlobalNotes:  !noGlobal,
		SessionNotes: !noSession,
		History:      !noHistory,
	}

	if len(args) > 0 {
		fmt.Println(inject.Inject(strings.Join(args, " "), state, opts))
		return
	}
	fmt.Println(inject.Render(state, opts))
}
