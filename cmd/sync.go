package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncVerify bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild every resource's reverse event references",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncVerify, "verify", false, "report inconsistencies without fixing them")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	svc, err := service()
	if err != nil {
		return err
	}
	defer closeService(svc)

	if syncVerify {
		broken, err := svc.Manager.VerifyBacklinks(cmd.Context(), svc.Tenant)
		if err != nil {
			return err
		}
		for _, inc := range broken {
			kind := "missing"
			if inc.Stale {
				kind = "stale"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s reference: resource %s, event %s\n", kind, inc.ResourceID, inc.EventID)
		}
		if len(broken) > 0 {
			return fmt.Errorf("%d inconsistent reference(s)", len(broken))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "backlinks consistent")
		return nil
	}
	changed, err := svc.Manager.SyncBacklinks(cmd.Context(), svc.Tenant)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "corrected %d resource(s)\n", changed)
	return nil
}
