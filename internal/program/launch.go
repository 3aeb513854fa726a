// internal/program/launch.go
package program

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/blockchain/ledger"
	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
)

// Launch creates a token and its bonding curve. The vault mints the whole supply into its
// own custody, records the metadata and then gives up the mint authority for good.
func (p *Program) Launch(ctx context.Context, signer solana.PublicKey, params pumpfun.LaunchParams) (*pumpfun.BondingCurve, error) {
	ix := newInstruction("launch", signer, params.Mint)
	ix.amountIn = params.ReserveAmount
	var curve *pumpfun.BondingCurve

	err := p.execute(ctx, ix, func(ctx context.Context) error {
		cfg, err := p.loadConfig(ctx)
		if err != nil {
			return err
		}
		if params.Mint.IsZero() {
			return fmt.Errorf("mint is required: %w", pumpfun.ErrValueInvalid)
		}
		if _, err := p.loadCurve(ctx, params.Mint); err == nil {
			return fmt.Errorf("mint %s: %w", params.Mint, pumpfun.ErrCurveAlreadyLaunched)
		} else if !errors.Is(err, ErrCurveNotFound) {
			return err
		}

		curve, err = pumpfun.Launch(cfg, signer, params)
		if err != nil {
			return err
		}

		vault := p.vault
		if err := p.ledger.CreateMint(ctx, params.Mint, params.Decimals, &vault, nil); err != nil {
			return fmt.Errorf("failed to create mint: %w", err)
		}
		if err := p.ledger.MintTo(ctx, params.Mint, vault, params.TokenSupply, vault); err != nil {
			return fmt.Errorf("failed to mint supply: %w", err)
		}
		if err := p.ledger.CreateMetadata(ctx, ledger.Metadata{
			Mint:            params.Mint,
			UpdateAuthority: vault,
			Name:            params.Name,
			Symbol:          params.Symbol,
			URI:             params.URI,
		}, vault); err != nil {
			return fmt.Errorf("failed to create metadata: %w", err)
		}
		if err := p.ledger.SetAuthority(ctx, params.Mint, ledger.AuthorityMintTokens, vault, nil); err != nil {
			return fmt.Errorf("failed to revoke mint authority: %w", err)
		}

		if err := p.storeCurve(ctx, curve); err != nil {
			return err
		}
		ix.amountOut = params.TokenSupply
		ix.emit(events.CurveLaunchedEvent{
			BaseEvent:      ix.base(events.CurveLaunched),
			Creator:        signer,
			Mint:           params.Mint,
			Curve:          p.curveAddress(params.Mint),
			TokenSupply:    params.TokenSupply,
			ReserveLamport: params.ReserveAmount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return curve, nil
}
