// =================================
// File: internal/storage/journal.go
// =================================
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
)

// MemoryJournal keeps the instruction journal in memory, newest last.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []*models.Instruction
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Record(_ context.Context, entry *models.Instruction) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	copied := *entry
	copied.ID = uint(len(j.entries) + 1)
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now().UTC()
	}
	j.entries = append(j.entries, &copied)
	return nil
}

// List returns entries newest first.
func (j *MemoryJournal) List(_ context.Context, limit, offset int) ([]*models.Instruction, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*models.Instruction, 0, limit)
	for i := len(j.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		copied := *j.entries[i]
		out = append(out, &copied)
	}
	return out, nil
}
