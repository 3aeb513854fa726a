// ==============================================
// File: internal/blockchain/ledger/accounts.go
// ==============================================
package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	systemAccountDiscriminator = discriminator("SystemAccount")
	mintDiscriminator          = discriminator("Mint")
	tokenAccountDiscriminator  = discriminator("TokenAccount")
	metadataDiscriminator      = discriminator("Metadata")
)

func discriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// SystemAccount holds a base-currency balance.
type SystemAccount struct {
	Lamports uint64
}

// Mint is a token definition.
type Mint struct {
	Decimals uint8
	Supply   uint64
	// A nil authority is revoked and can never be set again.
	MintAuthority   *solana.PublicKey
	FreezeAuthority *solana.PublicKey
}

// TokenAccount holds one owner's balance of one mint. It lives at the owner's associated
// token address.
type TokenAccount struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// Metadata is the display information of a mint.
type Metadata struct {
	Mint            solana.PublicKey
	UpdateAuthority solana.PublicKey
	Name            string
	Symbol          string
	URI             string
}

func (a SystemAccount) MarshalWithEncoder(enc *bin.Encoder) error {
	return enc.WriteUint64(a.Lamports, binary.LittleEndian)
}

func (a *SystemAccount) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	a.Lamports, err = dec.ReadUint64(binary.LittleEndian)
	return err
}

func (m Mint) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(m.Decimals); err != nil {
		return err
	}
	if err := enc.WriteUint64(m.Supply, binary.LittleEndian); err != nil {
		return err
	}
	if err := writeOptionalKey(enc, m.MintAuthority); err != nil {
		return err
	}
	return writeOptionalKey(enc, m.FreezeAuthority)
}

func (m *Mint) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return err
	}
	if m.Supply, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	if m.MintAuthority, err = readOptionalKey(dec); err != nil {
		return err
	}
	m.FreezeAuthority, err = readOptionalKey(dec)
	return err
}

func (a TokenAccount) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(a.Mint[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(a.Owner[:], false); err != nil {
		return err
	}
	return enc.WriteUint64(a.Amount, binary.LittleEndian)
}

func (a *TokenAccount) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if a.Mint, err = readKey(dec); err != nil {
		return err
	}
	if a.Owner, err = readKey(dec); err != nil {
		return err
	}
	a.Amount, err = dec.ReadUint64(binary.LittleEndian)
	return err
}

func (m Metadata) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(m.Mint[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(m.UpdateAuthority[:], false); err != nil {
		return err
	}
	for _, s := range []string{m.Name, m.Symbol, m.URI} {
		if err := enc.WriteBytes([]byte(s), true); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metadata) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if m.Mint, err = readKey(dec); err != nil {
		return err
	}
	if m.UpdateAuthority, err = readKey(dec); err != nil {
		return err
	}
	for _, s := range []*string{&m.Name, &m.Symbol, &m.URI} {
		raw, err := dec.ReadByteSlice()
		if err != nil {
			return err
		}
		*s = string(raw)
	}
	return nil
}

func writeOptionalKey(enc *bin.Encoder, key *solana.PublicKey) error {
	if err := enc.WriteBool(key != nil); err != nil {
		return err
	}
	if key == nil {
		return nil
	}
	return enc.WriteBytes(key[:], false)
}

func readOptionalKey(dec *bin.Decoder) (*solana.PublicKey, error) {
	present, err := dec.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	key, err := readKey(dec)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func readKey(dec *bin.Decoder) (solana.PublicKey, error) {
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(raw), nil
}

func encode(d [8]byte, v bin.BinaryMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(d[:])
	if err := v.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, d [8]byte, v bin.BinaryUnmarshaler) error {
	if len(data) < 8 || !bytes.Equal(data[:8], d[:]) {
		return fmt.Errorf("account type mismatch")
	}
	return v.UnmarshalWithDecoder(bin.NewBorshDecoder(data[8:]))
}
