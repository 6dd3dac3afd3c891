package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "loanledger",
		Short:         "Loan and payment ledger for member cooperatives",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default ./config.yaml)")

	cfg := func() string { return cfgPath }
	root.AddCommand(serveCmd(cfg))
	root.AddCommand(workerCmd(cfg))
	root.AddCommand(reconcileCmd(cfg))
	root.AddCommand(migrateCmd(cfg))
	root.AddCommand(tokenCmd(cfg))

	return root
}
