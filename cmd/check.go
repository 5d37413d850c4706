package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clubops/planner/app"
	"github.com/clubops/planner/core/model"
	"github.com/clubops/planner/infra/logger"
)

var (
	checkFrom string
	checkTo   string
)

var checkCmd = &cobra.Command{
	Use:   "check <resource-id>",
	Short: "Report a vehicle's or staff member's availability for a date range",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFrom, "from", "", "range start (YYYY-MM-DD)")
	checkCmd.Flags().StringVar(&checkTo, "to", "", "range end (YYYY-MM-DD), defaults to start")
	_ = checkCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	svc, err := service()
	if err != nil {
		return err
	}
	defer closeService(svc)

	candidate, err := parseRange(checkFrom, checkTo)
	if err != nil {
		return err
	}
	status, err := svc.Manager.ResourceAvailability(cmd.Context(), svc.Tenant, args[0], candidate)
	if err != nil {
		return err
	}
	if status.Reason != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status.State, status.Reason)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), status.State)
	}
	return nil
}

func parseRange(from, to string) (model.DateRange, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return model.DateRange{}, fmt.Errorf("parse --from: %w", err)
	}
	r := model.DateRange{Start: start}
	if to != "" {
		end, err := time.Parse("2006-01-02", to)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("parse --to: %w", err)
		}
		r.End = end
	}
	return r, nil
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}
