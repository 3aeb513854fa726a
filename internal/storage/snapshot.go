// ==================================
// File: internal/storage/snapshot.go
// ==================================
package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

var snapshotMagic = []byte("PFSTATE1")

// Save writes every account to path. The file is replaced atomically.
func (s *MemoryStore) Save(path string) error {
	s.mu.RLock()
	keys := make([]solana.PublicKey, 0, len(s.accounts))
	for key := range s.accounts {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b solana.PublicKey) int { return bytes.Compare(a[:], b[:]) })

	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	err := enc.WriteBytes(snapshotMagic, false)
	if err == nil {
		err = enc.WriteUint32(uint32(len(keys)), binary.LittleEndian)
	}
	for _, key := range keys {
		if err != nil {
			break
		}
		if err = enc.WriteBytes(key[:], false); err == nil {
			err = enc.WriteBytes(s.accounts[key], true)
		}
	}
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.logger.Debug("Snapshot saved", zap.String("path", path), zap.Int("accounts", len(keys)))
	return nil
}

// Load replaces the store's contents with the snapshot at path. A missing file leaves the
// store empty.
func (s *MemoryStore) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("No snapshot found, starting empty", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	accounts, err := decodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("invalid snapshot %s: %w", path, err)
	}

	s.mu.Lock()
	s.accounts = accounts
	s.mu.Unlock()

	s.logger.Debug("Snapshot loaded", zap.String("path", path), zap.Int("accounts", len(accounts)))
	return nil
}

func decodeSnapshot(data []byte) (map[solana.PublicKey][]byte, error) {
	dec := bin.NewBorshDecoder(data)
	magic, err := dec.ReadNBytes(len(snapshotMagic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, snapshotMagic) {
		return nil, fmt.Errorf("unexpected header %q", magic)
	}
	count, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	accounts := make(map[solana.PublicKey][]byte, count)
	for i := uint32(0); i < count; i++ {
		raw, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return nil, err
		}
		body, err := dec.ReadByteSlice()
		if err != nil {
			return nil, err
		}
		accounts[solana.PublicKeyFromBytes(raw)] = body
	}
	return accounts, nil
}
