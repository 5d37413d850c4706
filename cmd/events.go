package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List events with their date ranges",
	RunE:  runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	svc, err := service()
	if err != nil {
		return err
	}
	defer closeService(svc)

	events, err := svc.Manager.Events(cmd.Context(), svc.Tenant)
	if err != nil {
		return err
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s\t%s\t%s", ev.ID, ev.Name, ev.Dates.Start.Format("2006-01-02"))
		if !ev.Dates.End.IsZero() {
			line += " → " + ev.Dates.End.Format("2006-01-02")
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
