// ====================================
// File: cmd/curvectl/commands.go
// ====================================
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/export"
	"github.com/oraichain/pump-fun-smart-contract/internal/program"
	"github.com/oraichain/pump-fun-smart-contract/internal/wallet"
)

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

func parseMint(s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid mint %q: %w", s, err)
	}
	return key, nil
}

func newWalletCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the wallet book",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "new <name>",
		Short: "Generate a wallet and add it to the book",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(_ context.Context, cmd *cobra.Command, a *app, args []string) error {
			if a.cfg.WalletsFile == "" {
				return errors.New("no wallet book: pass --wallets or set wallets_file")
			}
			w, err := wallet.Generate(args[0])
			if err != nil {
				return err
			}
			a.wallets.Add(w)
			if err := wallet.SaveWallets(a.cfg.WalletsFile, a.wallets); err != nil {
				return err
			}
			card(cmd.OutOrStdout(), "Wallet created", field{"name", w.Name}, field{"public key", w.String()})
			return nil
		}),
	}, &cobra.Command{
		Use:   "list",
		Short: "List wallets and their balances",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			var rows [][]string
			for _, name := range a.wallets.Names() {
				w, _ := a.wallets.Get(name)
				lamports, err := a.ledger.Lamports(ctx, w.PublicKey)
				if err != nil {
					return err
				}
				rows = append(rows, []string{name, w.String(), sol(lamports)})
			}
			table(cmd.OutOrStdout(), []string{"NAME", "PUBLIC KEY", "BALANCE"}, rows)
			return nil
		}),
	})
	return cmd
}

func newConfigureCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Create or update the global config from the bootstrap section",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			next, err := a.cfg.Bootstrap.GlobalConfig(signer)
			if err != nil {
				return err
			}
			stored, err := a.program.Configure(ctx, signer, next)
			if err != nil {
				return err
			}
			renderConfig(cmd.OutOrStdout(), stored)
			return nil
		}),
	}
}

func newNominateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "nominate <wallet|pubkey>",
		Short: "Nominate a new authority",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			nominee, err := a.wallets.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.program.NominateAuthority(ctx, signer, nominee); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "nominated %s\n", nominee)
			return nil
		}),
	}
}

func newAcceptCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "accept",
		Short: "Accept a pending authority nomination",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			if err := a.program.AcceptAuthority(ctx, signer); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now the authority\n", signer)
			return nil
		}),
	}
}

func newLaunchCmd(opts *options) *cobra.Command {
	var (
		params  pumpfun.LaunchParams
		supply  string
		reserve string
	)
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch a token on a new bonding curve",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			if params.TokenSupply, err = parseAmount(supply); err != nil {
				return err
			}
			if params.ReserveAmount, err = parseAmount(reserve); err != nil {
				return err
			}
			mint, err := solana.NewRandomPrivateKey()
			if err != nil {
				return err
			}
			params.Mint = mint.PublicKey()

			curve, err := a.program.Launch(ctx, signer, params)
			if err != nil {
				return err
			}
			card(cmd.OutOrStdout(), "Token launched",
				field{"mint", curve.TokenMint.String()},
				field{"symbol", params.Symbol},
				field{"supply", tokens(curve.ReserveToken, params.Decimals)},
				field{"virtual reserve", sol(curve.InitLamport)},
			)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&params.Name, "name", "", "token name")
	f.StringVar(&params.Symbol, "symbol", "", "token symbol")
	f.StringVar(&params.URI, "uri", "", "metadata uri")
	f.Uint8Var(&params.Decimals, "decimals", 6, "token decimals")
	f.StringVar(&supply, "supply", "1000000000000000", "token supply in raw units")
	f.StringVar(&reserve, "reserve", "30000000000", "initial virtual lamport reserve")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("symbol")
	return cmd
}

func newSwapCmd(opts *options) *cobra.Command {
	var minReceive uint64
	cmd := &cobra.Command{
		Use:   "swap <mint> <amount> <buy|sell>",
		Short: "Trade against a bonding curve",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			params, err := swapArgs(args)
			if err != nil {
				return err
			}
			params.MinimumReceive = minReceive

			res, err := a.program.Swap(ctx, signer, params)
			if err != nil {
				return err
			}
			fields := []field{
				{"direction", params.Direction.String()},
				{"amount in", fmt.Sprint(params.Amount)},
				{"fee", fmt.Sprint(res.Fee)},
				{"amount out", fmt.Sprint(res.AmountOut)},
				{"reserve lamport", sol(res.ReserveLamport)},
				{"reserve token", fmt.Sprint(res.ReserveToken)},
			}
			if res.Completed {
				fields = append(fields, field{"curve", stageStyle(pumpfun.StageCompleted).Render("completed")})
			}
			card(cmd.OutOrStdout(), "Swap executed", fields...)
			return nil
		}),
	}
	cmd.Flags().Uint64Var(&minReceive, "min-receive", 0, "fail when the output is below this amount")
	return cmd
}

func swapArgs(args []string) (program.SwapParams, error) {
	mint, err := parseMint(args[0])
	if err != nil {
		return program.SwapParams{}, err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return program.SwapParams{}, err
	}
	direction, err := pumpfun.ParseDirection(args[2])
	if err != nil {
		return program.SwapParams{}, err
	}
	return program.SwapParams{Mint: mint, Amount: amount, Direction: direction}, nil
}

func newSimulateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <mint> <amount> <buy|sell>",
		Short: "Quote a swap without executing it",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			params, err := swapArgs(args)
			if err != nil {
				return err
			}
			q, err := a.program.SimulateSwap(ctx, params.Mint, params.Amount, params.Direction)
			if err != nil {
				return err
			}
			card(cmd.OutOrStdout(), "Swap quote",
				field{"direction", q.Direction.String()},
				field{"amount in", fmt.Sprint(q.Amount)},
				field{"fee", fmt.Sprint(q.FeeAmount)},
				field{"net amount", fmt.Sprint(q.AdjustedAmount)},
				field{"amount out", fmt.Sprint(q.AmountOut)},
			)
			return nil
		}),
	}
}

func newWithdrawCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <mint>",
		Short: "Pay a completed curve's custody to the authority",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			mint, err := parseMint(args[0])
			if err != nil {
				return err
			}
			res, err := a.program.Withdraw(ctx, signer, mint)
			if err != nil {
				return err
			}
			card(cmd.OutOrStdout(), "Curve withdrawn",
				field{"lamports", sol(res.Lamport)},
				field{"tokens", fmt.Sprint(res.Token)},
			)
			return nil
		}),
	}
}

func newMigrateCmd(opts *options) *cobra.Command {
	var params program.MigrateParams
	cmd := &cobra.Command{
		Use:   "migrate <mint>",
		Short: "Move a completed curve's liquidity into an AMM pool",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			signer, err := a.signer()
			if err != nil {
				return err
			}
			mint, err := parseMint(args[0])
			if err != nil {
				return err
			}
			res, err := a.program.Migrate(ctx, signer, mint, params)
			if err != nil {
				return err
			}
			card(cmd.OutOrStdout(), "Curve migrated",
				field{"pool", res.Pool.ID.String()},
				field{"lp mint", res.Pool.LPMint.String()},
				field{"seed base", sol(res.Plan.SeedBase)},
				field{"seed token", fmt.Sprint(res.Plan.SeedToken)},
				field{"fee lamport", sol(res.Plan.FeeLamport)},
				field{"fee token", fmt.Sprint(res.Plan.FeeToken)},
				field{"signer reward", sol(res.Plan.SignerLamport)},
			)
			return nil
		}),
	}
	cmd.Flags().Uint8Var(&params.Nonce, "nonce", 0, "pool authority nonce, derived when zero")
	cmd.Flags().Uint64Var(&params.OpenTime, "open-time", 0, "pool open time (unix seconds)")
	return cmd
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [mint]",
		Short: "Show the global config and curves",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := a.program.GlobalConfig(ctx)
			if errors.Is(err, pumpfun.ErrNotConfigured) {
				fmt.Fprintln(out, "program is not configured")
				return nil
			}
			if err != nil {
				return err
			}
			renderConfig(out, cfg)

			var curves []*pumpfun.BondingCurve
			if len(args) == 1 {
				mint, err := parseMint(args[0])
				if err != nil {
					return err
				}
				c, err := a.program.Curve(ctx, mint)
				if err != nil {
					return err
				}
				curves = append(curves, c)
			} else if curves, err = a.program.Curves(ctx); err != nil {
				return err
			}

			rows := make([]curveRow, 0, len(curves))
			for _, c := range curves {
				m, err := a.ledger.Mint(ctx, c.TokenMint)
				if err != nil {
					return err
				}
				row := curveRow{curve: c, decimals: m.Decimals}
				if md, err := a.ledger.Metadata(ctx, c.TokenMint); err == nil {
					row.symbol = md.Symbol
				}
				rows = append(rows, row)
			}
			renderCurves(out, cfg, rows)
			return nil
		}),
	}
}

func newAirdropCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <wallet|pubkey> <lamports>",
		Short: "Credit lamports in the local ledger",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			owner, err := a.wallets.Resolve(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if err := a.ledger.Airdrop(ctx, owner, amount); err != nil {
				return err
			}
			balance, err := a.ledger.Lamports(ctx, owner)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s balance: %s\n", owner, sol(balance))
			return nil
		}),
	}
}

func newBalanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <wallet|pubkey> [mint]",
		Short: "Show a lamport or token balance",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			owner, err := a.wallets.Resolve(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				lamports, err := a.ledger.Lamports(ctx, owner)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sol(lamports))
				return nil
			}
			mint, err := parseMint(args[1])
			if err != nil {
				return err
			}
			m, err := a.ledger.Mint(ctx, mint)
			if err != nil {
				return err
			}
			amount, err := a.ledger.TokenBalance(ctx, mint, owner)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tokens(amount, m.Decimals))
			return nil
		}),
	}
}

func newJournalCmd(opts *options) *cobra.Command {
	var (
		limit, offset int
		format        string
		filter        export.Options
	)
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List or export executed instructions (persistent with postgres_dsn)",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			if a.cfg.PostgresDSN == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "note: without postgres_dsn the journal only covers this invocation")
			}
			entries, err := a.journal.List(ctx, limit, offset)
			if err != nil {
				return err
			}
			if format == "" {
				renderJournal(cmd.OutOrStdout(), export.Filter(entries, filter))
				return nil
			}

			if filter.Format, err = export.ParseFormat(format); err != nil {
				return err
			}
			path, err := export.NewJournalExporter(a.log.Logger).Export(entries, filter)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
			return nil
		}),
	}
	f := cmd.Flags()
	f.IntVar(&limit, "limit", 20, "maximum entries")
	f.IntVar(&offset, "offset", 0, "entries to skip")
	f.StringVar(&format, "export", "", "write entries to a csv or json file instead of printing")
	f.StringVar(&filter.OutputDir, "out", ".", "export directory")
	f.StringVar(&filter.Mint, "mint", "", "only entries for this mint")
	f.StringVar(&filter.Instruction, "instruction", "", "only this instruction (e.g. swap_buy)")
	f.BoolVar(&filter.OnlySuccess, "only-success", false, "skip failed instructions")
	return cmd
}
