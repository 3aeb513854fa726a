// internal/program/settle.go
package program

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/raydium"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

// WithdrawResult is what the authority received.
type WithdrawResult struct {
	Lamport uint64
	Token   uint64
}

// Withdraw pays a completed curve's earned lamports and its token custody to the authority.
// The curve ends in the Withdrawn stage and can no longer be migrated.
func (p *Program) Withdraw(ctx context.Context, signer, mint solana.PublicKey) (*WithdrawResult, error) {
	ix := newInstruction("withdraw", signer, mint)
	var result *WithdrawResult

	err := p.execute(ctx, ix, func(ctx context.Context) error {
		cfg, err := p.loadConfig(ctx)
		if err != nil {
			return err
		}
		if err := cfg.RequireAuthority(signer); err != nil {
			return err
		}
		curve, err := p.loadCurve(ctx, mint)
		if err != nil {
			return err
		}
		plan, err := curve.PlanWithdraw()
		if err != nil {
			return err
		}

		// Sell fees leave the vault's token balance below reserve_token; pay what is held.
		custody, err := p.ledger.TokenBalance(ctx, mint, p.vault)
		if err != nil {
			return err
		}
		if custody < plan.Token {
			plan.Token = custody
		}

		if err := p.ledger.TransferBase(ctx, p.vault, signer, plan.Lamport); err != nil {
			return fmt.Errorf("withdraw lamports: %w", err)
		}
		if err := p.ledger.TransferToken(ctx, mint, p.vault, signer, plan.Token, p.vault); err != nil {
			return fmt.Errorf("withdraw tokens: %w", err)
		}

		if err := curve.Settle(cfg, pumpfun.StageWithdrawn); err != nil {
			return err
		}
		if err := p.storeCurve(ctx, curve); err != nil {
			return err
		}

		result = &WithdrawResult{Lamport: plan.Lamport, Token: plan.Token}
		ix.amountOut = plan.Lamport
		ix.emit(events.CurveWithdrawnEvent{
			BaseEvent: ix.base(events.CurveWithdrawn),
			Authority: signer,
			Mint:      mint,
			Lamport:   plan.Lamport,
			Token:     plan.Token,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.RecordSettlement(mint.String(), "withdraw")
	}
	return result, nil
}

// MigrateParams are the pool identifiers handed to the AMM.
type MigrateParams struct {
	Nonce    uint8
	OpenTime uint64
	// TeamWallet, when set, must match the configured team wallet.
	TeamWallet solana.PublicKey
}

// MigrateResult reports a committed migration.
type MigrateResult struct {
	Plan *pumpfun.MigrationPlan
	Pool *raydium.Pool
}

// Migrate moves a completed curve's liquidity into a new AMM pool. Anyone may trigger it;
// the signer is paid pumpfun.SignerOverhead for doing so. If the AMM call fails nothing
// moves.
func (p *Program) Migrate(ctx context.Context, signer, mint solana.PublicKey, params MigrateParams) (*MigrateResult, error) {
	ix := newInstruction("migrate", signer, mint)
	var result *MigrateResult

	err := p.execute(ctx, ix, func(ctx context.Context) error {
		cfg, err := p.loadConfig(ctx)
		if err != nil {
			return err
		}
		if !params.TeamWallet.IsZero() && !params.TeamWallet.Equals(cfg.TeamWallet) {
			return fmt.Errorf("team wallet %s: %w", params.TeamWallet, pumpfun.ErrIncorrectTeamWallet)
		}
		curve, err := p.loadCurve(ctx, mint)
		if err != nil {
			return err
		}
		m, err := p.ledger.Mint(ctx, mint)
		if err != nil {
			return err
		}
		plan, err := curve.PlanMigration(cfg, pumpfun.MintState{
			Decimals:        m.Decimals,
			MintAuthority:   m.MintAuthority,
			FreezeAuthority: m.FreezeAuthority,
		})
		if err != nil {
			return err
		}

		custody, err := p.ledger.TokenBalance(ctx, mint, p.vault)
		if err != nil {
			return err
		}
		feeToken, err := fixedpoint.CheckedSub(custody, plan.SeedToken)
		if err != nil {
			return fmt.Errorf("custody %d below seed %d: %w", custody, plan.SeedToken, pumpfun.ErrOverflowOrUnderflow)
		}

		if err := p.ledger.TransferBase(ctx, p.vault, signer, plan.SignerLamport); err != nil {
			return fmt.Errorf("signer overhead: %w", err)
		}
		if err := p.ledger.TransferBase(ctx, p.vault, cfg.TeamWallet, plan.FeeLamport); err != nil {
			return fmt.Errorf("migration fee: %w", err)
		}
		if err := p.ledger.TransferToken(ctx, mint, p.vault, cfg.TeamWallet, feeToken, p.vault); err != nil {
			return fmt.Errorf("migration token fee: %w", err)
		}

		pool, err := p.amm.CreatePool(ctx, raydium.CreatePoolParams{
			Payer:      p.vault,
			CoinMint:   mint,
			PcMint:     raydium.WrappedSolMint,
			Nonce:      params.Nonce,
			OpenTime:   params.OpenTime,
			CoinAmount: plan.SeedToken,
			PcAmount:   plan.SeedBase,
			LPOwner:    cfg.TeamWallet,
		})
		if err != nil {
			return fmt.Errorf("failed to create pool: %w", err)
		}

		if err := curve.Settle(cfg, pumpfun.StageMigrated); err != nil {
			return err
		}
		if err := p.storeCurve(ctx, curve); err != nil {
			return err
		}

		p.logger.Debug("Migration plan",
			zap.String("mint", mint.String()),
			zap.Uint64("lamport_on_curve", plan.LamportOnCurve),
			zap.Uint64("fee_lamport", plan.FeeLamport),
			zap.Uint64("fee_token", feeToken),
			zap.Uint64("seed_base", plan.SeedBase),
			zap.Uint64("seed_token", plan.SeedToken))

		plan.FeeToken = feeToken
		result = &MigrateResult{Plan: plan, Pool: pool}
		ix.amountIn = plan.LamportOnCurve
		ix.amountOut = plan.SeedBase
		ix.emit(events.CurveMigratedEvent{
			BaseEvent:  ix.base(events.CurveMigrated),
			Signer:     signer,
			Mint:       mint,
			Pool:       pool.ID,
			SeedToken:  plan.SeedToken,
			SeedBase:   plan.SeedBase,
			FeeLamport: plan.FeeLamport,
			FeeToken:   feeToken,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.RecordSettlement(mint.String(), "migrate")
	}
	return result, nil
}
