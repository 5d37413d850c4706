package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deriveCmd = &cobra.Command{
	Use:   "derive <event-id>",
	Short: "Recompute an event's automatic budget items and print the budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runDerive,
}

func init() {
	rootCmd.AddCommand(deriveCmd)
}

func runDerive(cmd *cobra.Command, args []string) error {
	svc, err := service()
	if err != nil {
		return err
	}
	defer closeService(svc)

	eventID := args[0]
	count, err := svc.Manager.RecomputeBudget(cmd.Context(), svc.Tenant, eventID)
	if err != nil {
		return err
	}
	items, err := svc.Manager.BudgetItems(cmd.Context(), svc.Tenant, eventID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d auto item(s)\n", count)
	for _, it := range items {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.2f\n", it.ID, it.Origin, it.Category, it.EstimatedCost)
	}
	return nil
}
