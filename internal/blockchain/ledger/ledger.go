// ============================================
// File: internal/blockchain/ledger/ledger.go
// ============================================

// Package ledger is the asset transfer service: base-currency balances, token mints and
// token accounts kept in the account store. Every call runs inside the storage transaction
// carried by its context, or opens its own.
package ledger

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/oraichain/pump-fun-smart-contract/internal/storage"
	"github.com/oraichain/pump-fun-smart-contract/internal/utils/fixedpoint"
)

var (
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrMintNotFound      = errors.New("ledger: mint not found")
	ErrMintExists        = errors.New("ledger: mint already exists")
	ErrAuthority         = errors.New("ledger: authority mismatch")
	ErrAuthorityRevoked  = errors.New("ledger: authority revoked")
	ErrOverflow          = errors.New("ledger: balance overflow")
)

// AuthorityType selects which mint authority SetAuthority changes.
type AuthorityType uint8

const (
	AuthorityMintTokens AuthorityType = iota
	AuthorityFreezeAccount
)

// Ledger moves assets between accounts.
type Ledger struct {
	store  storage.Store
	logger *zap.Logger
}

func New(store storage.Store, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger.Named("ledger"),
	}
}

// TokenAccountAddress returns where owner's balance of mint is kept.
func TokenAccountAddress(mint, owner solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive token account: %w", err)
	}
	return ata, nil
}

// MetadataAddress returns the metadata record of mint.
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), solana.TokenMetadataProgramID.Bytes(), mint.Bytes()},
		solana.TokenMetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	return addr, nil
}

// Lamports returns owner's base balance. Unknown owners hold zero.
func (l *Ledger) Lamports(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	var balance uint64
	err := l.store.View(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		acc, err := loadSystemAccount(tx, owner)
		if err != nil {
			return err
		}
		balance = acc.Lamports
		return nil
	})
	return balance, err
}

// Airdrop credits owner with newly created base currency.
func (l *Ledger) Airdrop(ctx context.Context, owner solana.PublicKey, amount uint64) error {
	return l.store.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		acc, err := loadSystemAccount(tx, owner)
		if err != nil {
			return err
		}
		if acc.Lamports, err = fixedpoint.CheckedAdd(acc.Lamports, amount); err != nil {
			return fmt.Errorf("airdrop to %s: %w", owner, ErrOverflow)
		}
		l.logger.Debug("Airdrop", zap.String("owner", owner.String()), zap.Uint64("amount", amount))
		return putAccount(tx, owner, systemAccountDiscriminator, acc)
	})
}

// TransferBase moves amount lamports from one owner to another. A zero amount is a no-op.
func (l *Ledger) TransferBase(ctx context.Context, from, to solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return l.store.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		src, err := loadSystemAccount(tx, from)
		if err != nil {
			return err
		}
		if src.Lamports < amount {
			return fmt.Errorf("%s holds %d lamports, needs %d: %w", from, src.Lamports, amount, ErrInsufficientFunds)
		}
		src.Lamports -= amount
		if err := putAccount(tx, from, systemAccountDiscriminator, src); err != nil {
			return err
		}

		dst, err := loadSystemAccount(tx, to)
		if err != nil {
			return err
		}
		if dst.Lamports, err = fixedpoint.CheckedAdd(dst.Lamports, amount); err != nil {
			return fmt.Errorf("credit %s: %w", to, ErrOverflow)
		}

		l.logger.Debug("Base transfer",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Uint64("amount", amount))
		return putAccount(tx, to, systemAccountDiscriminator, dst)
	})
}

// CreateMint registers a new mint with zero supply.
func (l *Ledger) CreateMint(ctx context.Context, mint solana.PublicKey, decimals uint8, mintAuthority, freezeAuthority *solana.PublicKey) error {
	return l.store.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.Get(mint); err == nil {
			return fmt.Errorf("%s: %w", mint, ErrMintExists)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		l.logger.Debug("Mint created", zap.String("mint", mint.String()), zap.Uint8("decimals", decimals))
		return putAccount(tx, mint, mintDiscriminator, &Mint{
			Decimals:        decimals,
			MintAuthority:   mintAuthority,
			FreezeAuthority: freezeAuthority,
		})
	})
}

// Mint returns the mint record.
func (l *Ledger) Mint(ctx context.Context, mint solana.PublicKey) (*Mint, error) {
	var out *Mint
	err := l.store.View(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		out, err = loadMint(tx, mint)
		return err
	})
	return out, err
}

// MintTo creates amount new tokens in owner's token account. authority must be the mint authority.
func (l *Ledger) MintTo(ctx context.Context, mint, owner solana.PublicKey, amount uint64, authority solana.PublicKey) error {
	return l.store.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		m, err := loadMint(tx, mint)
		if err != nil {
			return err
		}
		if m.MintAuthority == nil {
			return fmt.Errorf("mint %s: %w", mint, ErrAuthorityRevoked)
		}
		if !m.MintAuthority.Equals(authority) {
			return fmt.Errorf("mint %s: %w", mint, ErrAuthority)
		}
		if m.Supply, err = fixedpoint.CheckedAdd(m.Supply, amount); err != nil {
			return fmt.Errorf("mint %s supply: %w", mint, ErrOverflow)
		}
		if err := putAccount(tx, mint, mintDiscriminator, m); err != nil {
			return err
		}
		return l.credit(tx, mint, owner, amount)
	})
}

// SetAuthority replaces or revokes (next == nil) one of the mint's authorities.
func (l *Ledger) SetAuthority(ctx context.Context, mint solana.PublicKey, kind AuthorityType, current solana.PublicKey, next *solana.PublicKey) error {
	return l.store.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		m, err := loadMint(tx, mint)
		if err != nil {
			return err
		}

		slot := &m.MintAuthority
		if kind == AuthorityFreezeAccount {
			slot = &m.FreezeAuthority
		}
		if *slot == nil {
			return fmt.Errorf("mint %s: %w", mint, ErrAuthorityRevoked)
		}
		if !(*slot).Equals(current) {
			return fmt.Errorf("mint %s: %w", mint, ErrAuthority)
		}
		*slot = next
		return putAccount(tx, mint, mintDiscriminator, m)
	})
}

// TokenBalance returns owner's balance of mint. A missing token account holds zero.
func (l *Ledger) TokenBalance(ctx context.Context, mint, owner solana.PublicKey) (uint64, error) {
	var balance uint64
	err := l.store.View(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		acc, _, err := loadTokenAccount(tx, mint, owner)
		if err != nil {
			return err
		}
		balance = acc.Amount
		return nil
	})
	return balance, err
}

// TransferToken moves amount of mint from one owner's token account to another's, creating
// the destination account if needed. authority must own the source account. A zero amount
// is a no-op.
func (l *Ledger) TransferToken(ctx context.Context, mint, from, to solana.PublicKey, amount uint64, authority solana.PublicKey) error {
	if amount == 0 {
		return nil
	}
	if !from.Equals(authority) {
		return fmt.Errorf("%s cannot move tokens of %s: %w", authority, from, ErrAuthority)
	}
	return l.store.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		if _, err := loadMint(tx, mint); err != nil {
			return err
		}

		src, srcKey, err := loadTokenAccount(tx, mint, from)
		if err != nil {
			return err
		}
		if src.Amount < amount {
			return fmt.Errorf("%s holds %d of %s, needs %d: %w", from, src.Amount, mint, amount, ErrInsufficientFunds)
		}
		src.Amount -= amount
		if err := putAccount(tx, srcKey, tokenAccountDiscriminator, src); err != nil {
			return err
		}

		l.logger.Debug("Token transfer",
			zap.String("mint", mint.String()),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Uint64("amount", amount))
		return l.credit(tx, mint, to, amount)
	})
}

// CreateMetadata stores display information for mint. Only the mint authority may create it.
func (l *Ledger) CreateMetadata(ctx context.Context, md Metadata, mintAuthority solana.PublicKey) error {
	return l.store.Update(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		m, err := loadMint(tx, md.Mint)
		if err != nil {
			return err
		}
		if m.MintAuthority == nil || !m.MintAuthority.Equals(mintAuthority) {
			return fmt.Errorf("metadata for %s: %w", md.Mint, ErrAuthority)
		}
		addr, err := MetadataAddress(md.Mint)
		if err != nil {
			return err
		}
		return putAccount(tx, addr, metadataDiscriminator, &md)
	})
}

// Metadata returns the display information of mint.
func (l *Ledger) Metadata(ctx context.Context, mint solana.PublicKey) (*Metadata, error) {
	addr, err := MetadataAddress(mint)
	if err != nil {
		return nil, err
	}
	md := &Metadata{}
	err = l.store.View(ctx, func(ctx context.Context) error {
		tx, err := storage.TxFrom(ctx)
		if err != nil {
			return err
		}
		data, err := tx.Get(addr)
		if err != nil {
			return fmt.Errorf("metadata for %s: %w", mint, err)
		}
		return decode(data, metadataDiscriminator, md)
	})
	if err != nil {
		return nil, err
	}
	return md, nil
}

func (l *Ledger) credit(tx storage.Tx, mint, owner solana.PublicKey, amount uint64) error {
	dst, key, err := loadTokenAccount(tx, mint, owner)
	if err != nil {
		return err
	}
	if dst.Amount, err = fixedpoint.CheckedAdd(dst.Amount, amount); err != nil {
		return fmt.Errorf("credit %s: %w", owner, ErrOverflow)
	}
	return putAccount(tx, key, tokenAccountDiscriminator, dst)
}

func loadSystemAccount(tx storage.Tx, owner solana.PublicKey) (*SystemAccount, error) {
	acc := &SystemAccount{}
	data, err := tx.Get(owner)
	if errors.Is(err, storage.ErrNotFound) {
		return acc, nil
	}
	if err != nil {
		return nil, err
	}
	if err := decode(data, systemAccountDiscriminator, acc); err != nil {
		return nil, fmt.Errorf("account %s: %w", owner, err)
	}
	return acc, nil
}

func loadMint(tx storage.Tx, mint solana.PublicKey) (*Mint, error) {
	data, err := tx.Get(mint)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", mint, ErrMintNotFound)
	}
	if err != nil {
		return nil, err
	}
	m := &Mint{}
	if err := decode(data, mintDiscriminator, m); err != nil {
		return nil, fmt.Errorf("mint %s: %w", mint, err)
	}
	return m, nil
}

func loadTokenAccount(tx storage.Tx, mint, owner solana.PublicKey) (*TokenAccount, solana.PublicKey, error) {
	key, err := TokenAccountAddress(mint, owner)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	acc := &TokenAccount{Mint: mint, Owner: owner}
	data, err := tx.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return acc, key, nil
	}
	if err != nil {
		return nil, key, err
	}
	if err := decode(data, tokenAccountDiscriminator, acc); err != nil {
		return nil, key, fmt.Errorf("token account %s: %w", key, err)
	}
	return acc, key, nil
}

func putAccount(tx storage.Tx, key solana.PublicKey, d [8]byte, v bin.BinaryMarshaler) error {
	data, err := encode(d, v)
	if err != nil {
		return fmt.Errorf("failed to encode account %s: %w", key, err)
	}
	return tx.Put(key, data)
}
