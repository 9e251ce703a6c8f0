package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "backup <user>",
		Short: "Back up a user's snapshot",
		Long:  "Copy the current snapshot into the backup namespace and print its location.",
		Args:  cobra.ExactArgs(1),
		Run:   runBackup,
	}

	RootCmd.AddCommand(cmd)
}

func runBackup(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	location, err := s.Backup(cmd.Context(), args[0])
	if err != nil {
		exitErr("backup", err)
	}

	b, _ := json.Marshal(map[string]string{"user": args[0], "backup": location})
	fmt.Println(string(b))
}
