package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remember [text]",
		Short: "Save a memory note",
		Long: "Save a memory note for a user. Text can be a positional arg or piped via\n" +
			"stdin. Keywords are suggested from the text when not provided.",
		Run: runRemember,
	}

	cmd.Flags().StringP("user", "u", "anonymous", "User ID")
	cmd.Flags().StringP("keywords", "k", "", "Comma-separated keywords (max 5)")
	cmd.Flags().Bool("global", false, "Write to global memory instead of session memory")

	RootCmd.AddCommand(cmd)
}

func runRemember(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	keywordsStr, _ := cmd.Flags().GetString("keywords")
	toGlobal, _ := cmd.Flags().GetBool("global")

	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}

	if strings.TrimSpace(text) == "" {
		exitErr("remember", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	var keywords []string
	if keywordsStr != "" {
		keywords = strings.Split(keywordsStr, ",")
	} else {
		keywords = memory.SuggestKeywords(text)
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

	scope := memory.ScopeSession
	if toGlobal {
		scope = memory.ScopeGlobal
	}
	note := memory.AddNote(state, text, keywords, scope)

	if err := s.Save(cmd.Context(), state); err != nil {
		exitErr("save state", err)
	}

	b, _ := json.Marshal(note)
	fmt.Println(string(b))
}
