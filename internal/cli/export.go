package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export <user> <path>",
		Short: "Export a user's snapshot to a file",
		Args:  cobra.ExactArgs(2),
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.Export(cmd.Context(), args[0], args[1]); err != nil {
		exitErr("export", err)
	}

	b, _ := json.Marshal(map[string]string{"user": args[0], "path": args[1]})
	fmt.Println(string(b))
}
