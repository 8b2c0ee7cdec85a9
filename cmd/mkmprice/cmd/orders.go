package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func ordersCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "orders [state]",
		Short: "List your orders in a given state",
		Long: "List orders where you act as seller or buyer. States follow the\n" +
			"marketplace lifecycle: bought, paid, sent, received.",
		Example: `  # Paid but unshipped sales
  mkmprice orders paid

  # Everything you bought that is on its way
  mkmprice orders sent --actor buyer`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := "paid"
			if len(args) == 1 {
				state = args[0]
			}

			a, err := newApp()
			if err != nil {
				return err
			}

			orders, err := a.client.GetOrders(cmd.Context(), actor, state)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(orders)
			}
			if len(orders) == 0 {
				fmt.Printf("No %s orders as %s.\n", state, actor)
				return nil
			}
			return printOrdersTable(orders)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "seller", "order role (seller, buyer)")

	return cmd
}
