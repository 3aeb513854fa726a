package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func entry(offset time.Duration, name, mint, status string, in, out uint64) *models.Instruction {
	return &models.Instruction{
		BaseModel: models.BaseModel{CreatedAt: base.Add(offset)},
		Name:      name,
		Mint:      mint,
		Status:    status,
		AmountIn:  in,
		AmountOut: out,
	}
}

func testEntries() []*models.Instruction {
	return []*models.Instruction{
		entry(3*time.Minute, "swap_sell", "MintAAAAAAAA", models.StatusSuccess, 5_000, 400),
		entry(0, "launch", "MintAAAAAAAA", models.StatusSuccess, 30_000, 0),
		entry(time.Minute, "swap_buy", "MintAAAAAAAA", models.StatusSuccess, 1_000, 9_000),
		entry(2*time.Minute, "swap_buy", "MintBBBBBBBB", models.StatusFailed, 2_000, 0),
	}
}

func newExporter(t *testing.T) *JournalExporter {
	e := NewJournalExporter(zaptest.NewLogger(t))
	e.now = func() time.Time { return base }
	return e
}

func TestExportCSV(t *testing.T) {
	path, err := newExporter(t).Export(testEntries(), Options{Format: FormatCSV, OutputDir: t.TempDir()})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 5)
	assert.Equal(t, csvHeaders, rows[0])
	assert.Equal(t, "launch", rows[1][2])
	assert.Equal(t, "swap_sell", rows[4][2])
}

func TestExportJSONSummary(t *testing.T) {
	path, err := newExporter(t).Export(testEntries(), Options{Format: FormatJSON, OutputDir: t.TempDir()})
	require.NoError(t, err)
	assert.Contains(t, path, "journal_all_20260301_120000.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Summary Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	s := doc.Summary
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.ByName["swap_buy"])
	assert.Equal(t, 2, s.UniqueMints)
	assert.Equal(t, uint64(1_000), s.BuyLamports)
	assert.Equal(t, uint64(400), s.SellLamports)
	assert.True(t, s.StartDate.Equal(base))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		want    int
	}{
		{"all", Options{}, 4},
		{"mint", Options{Mint: "MintBBBBBBBB"}, 1},
		{"instruction", Options{Instruction: "swap_buy"}, 2},
		{"only success", Options{OnlySuccess: true}, 3},
		{"time window", Options{StartTime: base.Add(30 * time.Second), EndTime: base.Add(150 * time.Second)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Filter(testEntries(), tt.options), tt.want)
		})
	}
}

func TestExportErrors(t *testing.T) {
	e := newExporter(t)
	_, err := e.Export(testEntries(), Options{Format: FormatCSV, Mint: "nope", OutputDir: t.TempDir()})
	assert.ErrorContains(t, err, "no journal entries")

	_, err = e.Export(testEntries(), Options{Format: "xml", OutputDir: t.TempDir()})
	assert.ErrorContains(t, err, "unsupported format")

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
