// ====================================
// File: cmd/curvectl/root.go
// ====================================
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "curvectl",
		Short:         "Operate a bonding-curve token launchpad",
		Long:          "curvectl runs launchpad instructions (configure, launch, swap, withdraw, migrate) against a local state file or a PostgreSQL account store.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.StringVar(&opts.stateFile, "state", "", "state file, overrides state_file")
	flags.StringVar(&opts.walletsFile, "wallets", "", "wallet book CSV, overrides wallets_file")
	flags.StringVar(&opts.signer, "as", "", "name of the signing wallet")
	flags.BoolVar(&opts.autoMigrate, "auto-migrate", false, "migrate curves as soon as they complete")

	root.AddCommand(
		newWalletCmd(opts),
		newConfigureCmd(opts),
		newNominateCmd(opts),
		newAcceptCmd(opts),
		newLaunchCmd(opts),
		newSwapCmd(opts),
		newSimulateCmd(opts),
		newWithdrawCmd(opts),
		newMigrateCmd(opts),
		newShowCmd(opts),
		newAirdropCmd(opts),
		newBalanceCmd(opts),
		newJournalCmd(opts),
	)
	return root
}

// withApp builds the app for one command, runs fn and always tears the app down.
func withApp(opts *options, fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, opts)
		if err != nil {
			return err
		}
		runErr := fn(ctx, cmd, a, args)
		return errors.Join(runErr, a.close(context.WithoutCancel(ctx)))
	}
}
