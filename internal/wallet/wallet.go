// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

var ErrWalletNotFound = errors.New("wallet not found")

// Wallet is a named signing identity.
type Wallet struct {
	Name       string
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

// NewWallet decodes a base58 ed25519 private key.
func NewWallet(name, privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(strings.TrimSpace(privateKeyBase58))
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	privateKey := solana.PrivateKey(privateKeyBytes)
	return &Wallet{
		Name:       name,
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
	}, nil
}

// Generate creates a wallet with a fresh random key.
func Generate(name string) (*Wallet, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Wallet{Name: name, PrivateKey: key, PublicKey: key.PublicKey()}, nil
}

func (w *Wallet) String() string {
	return w.PublicKey.String()
}

// Book is a set of wallets addressed by name.
type Book struct {
	wallets map[string]*Wallet
}

func NewBook(wallets ...*Wallet) *Book {
	b := &Book{wallets: make(map[string]*Wallet, len(wallets))}
	for _, w := range wallets {
		b.Add(w)
	}
	return b
}

// Add stores w, replacing any wallet with the same name.
func (b *Book) Add(w *Wallet) {
	b.wallets[w.Name] = w
}

// Get returns the wallet called name.
func (b *Book) Get(name string) (*Wallet, error) {
	w, ok := b.wallets[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrWalletNotFound)
	}
	return w, nil
}

// Resolve accepts a wallet name or a base58 public key.
func (b *Book) Resolve(nameOrKey string) (solana.PublicKey, error) {
	if w, ok := b.wallets[nameOrKey]; ok {
		return w.PublicKey, nil
	}
	key, err := solana.PublicKeyFromBase58(nameOrKey)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%q is neither a wallet name nor a public key: %w", nameOrKey, ErrWalletNotFound)
	}
	return key, nil
}

// Names lists the wallets in name order.
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.wallets))
	for name := range b.wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadWallets reads a CSV file with a header row and columns [Name, PrivateKeyBase58].
func LoadWallets(path string) (*Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ReadWallets(file)
}

// ReadWallets parses the CSV format of LoadWallets. Malformed rows fail the whole book.
func ReadWallets(r io.Reader) (*Book, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.New("CSV file is empty or missing data")
	}

	book := NewBook()
	for i, record := range records[1:] {
		if len(record) != 2 {
			return nil, fmt.Errorf("row %d: expected 2 columns, got %d", i+2, len(record))
		}
		w, err := NewWallet(strings.TrimSpace(record[0]), record[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		book.Add(w)
	}
	return book, nil
}

// SaveWallets writes book in the format LoadWallets reads.
func SaveWallets(path string, book *Book) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"Name", "PrivateKeyBase58"}); err != nil {
		return err
	}
	for _, name := range book.Names() {
		w := book.wallets[name]
		if err := cw.Write([]string{name, w.PrivateKey.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
