// Package pumpfun implements the bonding-curve launchpad state machine.
//
// The package is pure: it holds the protocol records (GlobalConfig, BondingCurve,
// AmountConfig), the pricing and settlement arithmetic, the typed protocol errors and
// the Borsh account layout. It performs no I/O and does not log; the instruction layer
// in internal/program loads records, calls into this package and persists the result.
//
// Lifecycle of a curve:
//
//	Launch -> Active --(reserve_lamport >= curve_limit)--> Completed --> Withdrawn | Migrated
//
// Files:
//   - global_config.go: configuration, bootstrap and two-phase authority handover.
//   - amount_config.go: range/enum constraints for launch parameters.
//   - bonding_curve.go: curve record, reserve update and completion detection.
//   - swap.go: fee extraction and constant-product pricing.
//   - launch.go: launch parameter validation.
//   - settlement.go: migration and withdraw payout plans.
//   - accounts.go: program addresses and the stored account layout.
//   - price.go: spot price helpers.
//
// Usage example:
//
//	curve, err := pumpfun.Launch(cfg, creator, pumpfun.LaunchParams{
//	    Mint: mint, Decimals: 6, TokenSupply: 1_000_000_000_000, ReserveAmount: 0,
//	})
//	if err != nil {
//	    return err
//	}
//	quote, completed, err := curve.ApplySwap(cfg, 6, 1_000_000_000, pumpfun.DirectionBuy)
package pumpfun
