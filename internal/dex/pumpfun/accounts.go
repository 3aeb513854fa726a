// =============================
// File: internal/dex/pumpfun/accounts.go
// =============================
package pumpfun

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// ProgramID is the launchpad program address all PDAs are derived from.
var ProgramID = solana.MustPublicKeyFromBase58("wenBqrmxFAvovtz2jVRyNKjQQWzFF23Qv5oz3PSvDEW")

const (
	SeedConfig       = "config"
	SeedGlobal       = "global"
	SeedBondingCurve = "bonding_curve"
)

// Account discriminators, sha256("account:<Name>")[:8].
var (
	GlobalConfigDiscriminator = accountDiscriminator("Config")
	BondingCurveDiscriminator = accountDiscriminator("BondingCurve")
)

func accountDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// ConfigAddress returns the PDA of the global configuration record.
func ConfigAddress(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(SeedConfig)}, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive config address: %w", err)
	}
	return addr, nil
}

// VaultAddress returns the PDA that holds custody of every curve's assets.
func VaultAddress(programID solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(SeedGlobal)}, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive vault address: %w", err)
	}
	return addr, nil
}

// BondingCurveAddress returns the PDA of the curve record for mint.
func BondingCurveAddress(programID, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{[]byte(SeedBondingCurve), mint.Bytes()}, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive bonding curve for %s: %w", mint, err)
	}
	return addr, nil
}

// MarshalWithEncoder writes the GlobalConfig body without discriminator.
func (c GlobalConfig) MarshalWithEncoder(enc *bin.Encoder) error {
	for _, key := range []solana.PublicKey{c.Authority, c.PendingAuthority, c.TeamWallet} {
		if err := enc.WriteBytes(key[:], false); err != nil {
			return err
		}
	}
	for _, fee := range []decimal.Decimal{c.PlatformBuyFee, c.PlatformSellFee, c.PlatformMigrationFee} {
		if err := enc.WriteBytes([]byte(fee.String()), true); err != nil {
			return err
		}
	}
	if err := enc.WriteUint64(c.CurveLimit, binary.LittleEndian); err != nil {
		return err
	}
	if err := c.LamportAmountConfig.MarshalWithEncoder(enc); err != nil {
		return err
	}
	if err := c.TokenSupplyConfig.MarshalWithEncoder(enc); err != nil {
		return err
	}
	return c.TokenDecimalsConfig.MarshalWithEncoder(enc)
}

// UnmarshalWithDecoder reads the layout written by MarshalWithEncoder.
func (c *GlobalConfig) UnmarshalWithDecoder(dec *bin.Decoder) error {
	for _, key := range []*solana.PublicKey{&c.Authority, &c.PendingAuthority, &c.TeamWallet} {
		raw, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		*key = solana.PublicKeyFromBytes(raw)
	}
	for _, fee := range []*decimal.Decimal{&c.PlatformBuyFee, &c.PlatformSellFee, &c.PlatformMigrationFee} {
		raw, err := dec.ReadByteSlice()
		if err != nil {
			return err
		}
		if *fee, err = decimal.NewFromString(string(raw)); err != nil {
			return fmt.Errorf("invalid fee %q: %w", raw, err)
		}
	}
	var err error
	if c.CurveLimit, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	if err := c.LamportAmountConfig.UnmarshalWithDecoder(dec); err != nil {
		return err
	}
	if err := c.TokenSupplyConfig.UnmarshalWithDecoder(dec); err != nil {
		return err
	}
	return c.TokenDecimalsConfig.UnmarshalWithDecoder(dec)
}

// MarshalWithEncoder writes the BondingCurve body without discriminator.
func (bc BondingCurve) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(bc.TokenMint[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(bc.Creator[:], false); err != nil {
		return err
	}
	for _, v := range []uint64{bc.InitLamport, bc.ReserveLamport, bc.ReserveToken} {
		if err := enc.WriteUint64(v, binary.LittleEndian); err != nil {
			return err
		}
	}
	if err := enc.WriteBool(bc.IsCompleted); err != nil {
		return err
	}
	return enc.WriteUint8(uint8(bc.Stage))
}

// UnmarshalWithDecoder reads the layout written by MarshalWithEncoder.
func (bc *BondingCurve) UnmarshalWithDecoder(dec *bin.Decoder) error {
	for _, key := range []*solana.PublicKey{&bc.TokenMint, &bc.Creator} {
		raw, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		*key = solana.PublicKeyFromBytes(raw)
	}
	for _, v := range []*uint64{&bc.InitLamport, &bc.ReserveLamport, &bc.ReserveToken} {
		n, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return err
		}
		*v = n
	}
	var err error
	if bc.IsCompleted, err = dec.ReadBool(); err != nil {
		return err
	}
	stage, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	bc.Stage = Stage(stage)
	return nil
}

// EncodeAccount prefixes the Borsh encoding of v with its discriminator.
func EncodeAccount(discriminator [8]byte, v bin.BinaryMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(discriminator[:])
	if err := v.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, fmt.Errorf("unable to encode account: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeAccount checks the discriminator and decodes the body into v.
func DecodeAccount(data []byte, discriminator [8]byte, v bin.BinaryUnmarshaler) error {
	if len(data) < len(discriminator) {
		return fmt.Errorf("account data too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], discriminator[:]) {
		return fmt.Errorf("account discriminator mismatch: got %x, want %x", data[:8], discriminator[:])
	}
	if err := v.UnmarshalWithDecoder(bin.NewBorshDecoder(data[8:])); err != nil {
		return fmt.Errorf("unable to decode account: %w", err)
	}
	return nil
}

// EncodeGlobalConfig returns the stored representation of cfg.
func EncodeGlobalConfig(cfg *GlobalConfig) ([]byte, error) {
	return EncodeAccount(GlobalConfigDiscriminator, cfg)
}

// DecodeGlobalConfig parses a stored GlobalConfig.
func DecodeGlobalConfig(data []byte) (*GlobalConfig, error) {
	cfg := &GlobalConfig{}
	if err := DecodeAccount(data, GlobalConfigDiscriminator, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EncodeBondingCurve returns the stored representation of bc.
func EncodeBondingCurve(bc *BondingCurve) ([]byte, error) {
	return EncodeAccount(BondingCurveDiscriminator, bc)
}

// DecodeBondingCurve parses a stored BondingCurve.
func DecodeBondingCurve(data []byte) (*BondingCurve, error) {
	bc := &BondingCurve{}
	if err := DecodeAccount(data, BondingCurveDiscriminator, bc); err != nil {
		return nil, err
	}
	return bc, nil
}
