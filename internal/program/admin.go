// internal/program/admin.go
package program

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/oraichain/pump-fun-smart-contract/internal/dex/pumpfun"
	"github.com/oraichain/pump-fun-smart-contract/internal/events"
)

// Configure creates the global configuration on first use or replaces its tunable
// parameters. The authority fields of next are ignored.
func (p *Program) Configure(ctx context.Context, signer solana.PublicKey, next pumpfun.GlobalConfig) (*pumpfun.GlobalConfig, error) {
	ix := newInstruction("configure", signer, solana.PublicKey{})
	var stored *pumpfun.GlobalConfig

	err := p.execute(ctx, ix, func(ctx context.Context) error {
		current, err := p.findConfig(ctx)
		if err != nil {
			return err
		}
		if current == nil && p.deployer != nil && !p.deployer.Equals(signer) {
			return fmt.Errorf("signer %s is not the deployer: %w", signer, pumpfun.ErrIncorrectAuthority)
		}

		stored, err = pumpfun.Configure(current, signer, next)
		if err != nil {
			return err
		}
		if err := p.storeConfig(ctx, stored); err != nil {
			return err
		}
		ix.emit(events.ConfigUpdatedEvent{
			BaseEvent: ix.base(events.ConfigUpdated),
			Authority: stored.Authority,
			Created:   current == nil,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// NominateAuthority starts a handover to newAdmin.
func (p *Program) NominateAuthority(ctx context.Context, signer, newAdmin solana.PublicKey) error {
	ix := newInstruction("nominate_authority", signer, solana.PublicKey{})
	return p.execute(ctx, ix, func(ctx context.Context) error {
		cfg, err := p.loadConfig(ctx)
		if err != nil {
			return err
		}
		if err := cfg.Nominate(signer, newAdmin); err != nil {
			return err
		}
		return p.storeConfig(ctx, cfg)
	})
}

// AcceptAuthority completes a handover. Only the nominated admin may call it.
func (p *Program) AcceptAuthority(ctx context.Context, signer solana.PublicKey) error {
	ix := newInstruction("accept_authority", signer, solana.PublicKey{})
	return p.execute(ctx, ix, func(ctx context.Context) error {
		cfg, err := p.loadConfig(ctx)
		if err != nil {
			return err
		}
		previous := cfg.Authority
		if err := cfg.Accept(signer); err != nil {
			return err
		}
		if err := p.storeConfig(ctx, cfg); err != nil {
			return err
		}
		ix.emit(events.AuthorityAcceptedEvent{
			BaseEvent: ix.base(events.AuthorityAccepted),
			Previous:  previous,
			Current:   cfg.Authority,
		})
		return nil
	})
}
