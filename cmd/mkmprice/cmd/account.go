package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkmtools/mkmprice/internal/mkm"
)

func accountCmd() *cobra.Command {
	accountRoot := &cobra.Command{
		Use:   "account",
		Short: "Show and manage your account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			account, err := a.client.GetAccount(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(account)
			}
			return printAccountDetail(account)
		},
	}

	accountRoot.AddCommand(
		accountVacationCmd(),
		accountLanguageCmd(),
	)

	return accountRoot
}

func accountVacationCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "vacation <on|off>",
		Short:     "Turn vacation mode on or off",
		Example:   `  mkmprice account vacation on`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "on" && args[0] != "off" {
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}

			account, err := a.client.SetVacationStatus(cmd.Context(), args[0] == "on")
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(account)
			}
			fmt.Printf("Vacation mode: %v\n", account.OnVacation)
			return nil
		},
	}
}

func accountLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "language <name>",
		Short:   "Set the account display language",
		Example: `  mkmprice account language German`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := mkm.LanguageID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}

			if err := a.client.SetDisplayLanguage(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Display language set to %s.\n", args[0])
			return nil
		},
	}
}
