package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a snapshot file",
		Long:  "Read a snapshot file and persist it, optionally overriding the user ID.",
		Args:  cobra.ExactArgs(1),
		Run:   runImport,
	}

	cmd.Flags().StringP("user", "u", "", "Override the snapshot's user ID")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	override, _ := cmd.Flags().GetString("user")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	state, err := s.Import(cmd.Context(), args[0], override)
	if err != nil {
		exitErr("import", err)
	}

	b, _ := json.Marshal(map[string]string{"user": state.UserID, "path": args[0]})
	fmt.Println(string(b))
}
