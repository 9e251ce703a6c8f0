package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/agent-state/internal/memory"
	"github.com/spf13/cobra"
)

func init() {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update a user profile",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the user profile",
		Run:   runProfileShow,
	}
	showCmd.Flags().StringP("user", "u", "anonymous", "User ID")

	setCmd := &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set a recognized profile field",
		Long: "Set a profile field. Unknown fields and invalid enum values are rejected.\n" +
			"preferred_chart_types takes a comma-separated list.",
		Args: cobra.ExactArgs(2),
		Run:  runProfileSet,
	}
	setCmd.Flags().StringP("user", "u", "anonymous", "User ID")

	profileCmd.AddCommand(showCmd, setCmd)
	RootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) {
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

	b, _ := json.MarshalIndent(state.Profile, "", "  ")
	fmt.Println(string(b))
}

func runProfileSet(cmd *cobra.Command, args []string) {
	userID, _ := cmd.Flags().GetString("user")
	field, raw := args[0], args[1]

	var value interface{} = raw
	if field == "preferred_chart_types" {
		var types []string
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		value = types
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

	ok := memory.UpdateProfile(state, field, value)
	if ok {
		if err := s.Save(cmd.Context(), state); err != nil {
			exitErr("save state", err)
		}
	}

	b, _ := json.Marshal(map[string]interface{}{"success": ok, "field": field})
	fmt.Println(string(b))
}
