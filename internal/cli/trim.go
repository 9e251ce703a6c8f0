package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rcliao/agent-state/internal/model"
	"github.com/rcliao/agent-state/internal/trimmer"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "trim [transcript.json]",
		Short: "Trim a conversation transcript",
		Long: "Read a JSON array of {role, content} messages from a file or stdin, trim\n" +
			"it, preserve extracted context in the user's session memory, and print the\n" +
			"kept transcript. With --tokens, trims toward a token budget instead of a\n" +
			"turn count.",
		Run: runTrim,
	}

	cmd.Flags().StringP("user", "u", "anonymous", "User ID")
	cmd.Flags().Int("max-turns", trimmer.DefaultMaxUserTurns, "Maximum user turns to keep")
	cmd.Flags().Int("tokens", 0, "Token budget (enables smart trimming)")
	cmd.Flags().Int("preserve-recent", trimmer.DefaultPreserveRecent, "Recent user turns always kept in smart trimming")
	cmd.Flags().Bool("no-preserve", false, "Discard trimmed turns without extracting context")
	cmd.Flags().Bool("stats", false, "Print transcript statistics instead of trimming")

	RootCmd.AddCommand(cmd)
}

func runTrim(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	maxTurns, _ := cmd.Flags().GetInt("max-turns")
	tokens, _ := cmd.Flags().GetInt("tokens")
	preserveRecent, _ := cmd.Flags().GetInt("preserve-recent")
	noPreserve, _ := cmd.Flags().GetBool("no-preserve")
	statsOnly, _ := cmd.Flags().GetBool("stats")

	var raw []byte
	var err error
	if len(args) > 0 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read transcript", err)
	}

	var msgs []model.Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		exitErr("parse transcript", err)
	}

	if statsOnly {
		b, _ := json.MarshalIndent(trimmer.Describe(msgs), "", "  ")
		fmt.Println(string(b))
		return
	}

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

	var kept []model.Message
	if tokens > 0 {
		kept = trimmer.SmartTrim(msgs, state, tokens, preserveRecent)
	} else {
		kept, _ = trimmer.Trim(msgs, state, trimmer.Options{
			MaxUserTurns:    maxTurns,
			PreserveContext: !noPreserve,
		})
	}

	if err := s.Save(cmd.Context(), state); err != nil {
		exitErr("save state", err)
	}

	b, _ := json.MarshalIndent(kept, "", "  ")
	fmt.Println(string(b))
}
