package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func wantslistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wantslists",
		Short: "List your saved wantslists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			lists, err := a.client.GetWantslists(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(lists)
			}
			if len(lists) == 0 {
				fmt.Println("No wantslists.")
				return nil
			}
			return printWantslistsTable(lists)
		},
	}
}
