package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func reconcileCmd(cfgPath func() string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Resume resolutions that stopped part way",
		Long: `Scan resolution markers that did not finish and re-apply their
remaining steps. Completed steps are skipped, so running it twice is safe.

Examples:
  loanledger reconcile
  loanledger reconcile --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cfgPath())
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if limit <= 0 {
				limit = cfg.Ledger.ReconcileBatch
			}
			report, err := a.reconciliation.Run(cmd.Context(), limit)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum markers to scan (default ledger.reconcile_batch)")

	return cmd
}
