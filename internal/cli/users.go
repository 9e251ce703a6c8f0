package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List all users with saved state",
		Run:   runUsers,
	}

	RootCmd.AddCommand(cmd)
}

func runUsers(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	users, err := s.List(cmd.Context())
	if err != nil {
		exitErr("list users", err)
	}

	if formatFlag == "text" {
		for _, u := range users {
			fmt.Println(u)
		}
		return
	}

	b, _ := json.Marshal(users)
	fmt.Println(string(b))
}
