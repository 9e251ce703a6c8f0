package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/spf13/cobra"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Record or list visualization history",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Append a history entry",
		Run:   runHistoryAdd,
	}
	addCmd.Flags().StringP("user", "u", "anonymous", "User ID")
	addCmd.Flags().String("chart", "", "Chart type (required)")
	addCmd.Flags().String("summary", "", "What the visualization showed (required)")
	addCmd.Flags().String("code", "", "Code preview (truncated to 200 chars)")
	addCmd.Flags().Bool("failed", false, "Mark the visualization as failed")
	addCmd.MarkFlagRequired("chart")
	addCmd.MarkFlagRequired("summary")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		Run:   runHistoryList,
	}
	listCmd.Flags().StringP("user", "u", "anonymous", "User ID")
	listCmd.Flags().IntP("limit", "l", 5, "Maximum entries to show")

	historyCmd.AddCommand(addCmd, listCmd)
	RootCmd.AddCommand(historyCmd)
}

func runHistoryAdd(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	chart, _ := cmd.Flags().GetString("chart")
	summary, _ := cmd.Flags().GetString("summary")
	code, _ := cmd.Flags().GetString("code")
	failed, _ := cmd.Flags().GetBool("failed")

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

	entry := memory.NewHistoryEntry(chart, summary, code, !failed)
	memory.AppendHistory(state, entry)

	if err := s.Save(cmd.Context(), state); err != nil {
		exitErr("save state", err)
	}

	b, _ := json.Marshal(entry)
	fmt.Println(string(b))
}

func runHistoryList(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	limit, _ := cmd.Flags().GetInt("limit")

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

	b, _ := json.MarshalIndent(memory.RecentHistory(state, limit), "", "  ")
	fmt.Println(string(b))
}
