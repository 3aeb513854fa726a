// internal/export/export.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/oraichain/pump-fun-smart-contract/internal/storage/models"
)

// Format is the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Options selects the journal entries to export and where to put them.
type Options struct {
	Format      Format
	StartTime   time.Time
	EndTime     time.Time
	Mint        string
	Instruction string
	OnlySuccess bool
	OutputDir   string
}

// Summary aggregates an export.
type Summary struct {
	Total        int            `json:"total"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	ByName       map[string]int `json:"by_instruction"`
	UniqueMints  int            `json:"unique_mints"`
	BuyLamports  uint64         `json:"buy_lamports"`
	SellLamports uint64         `json:"sell_lamports"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
}

// JournalExporter writes instruction journal entries to files.
type JournalExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewJournalExporter(logger *zap.Logger) *JournalExporter {
	return &JournalExporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// Export writes the entries matching options and returns the file path.
func (e *JournalExporter) Export(entries []*models.Instruction, options Options) (string, error) {
	filtered := Filter(entries, options)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no journal entries match the export criteria")
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	if err := os.MkdirAll(options.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(options.OutputDir, e.filename(options))

	var err error
	switch options.Format {
	case FormatCSV:
		err = writeCSV(filtered, outputPath)
	case FormatJSON:
		err = e.writeJSON(filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	e.logger.Info("Journal exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))
	return outputPath, nil
}

// Filter returns the entries selected by options.
func Filter(entries []*models.Instruction, options Options) []*models.Instruction {
	var out []*models.Instruction
	for _, entry := range entries {
		if !options.StartTime.IsZero() && entry.CreatedAt.Before(options.StartTime) {
			continue
		}
		if !options.EndTime.IsZero() && entry.CreatedAt.After(options.EndTime) {
			continue
		}
		if options.Mint != "" && entry.Mint != options.Mint {
			continue
		}
		if options.Instruction != "" && entry.Name != options.Instruction {
			continue
		}
		if options.OnlySuccess && entry.Status != models.StatusSuccess {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func (e *JournalExporter) filename(options Options) string {
	prefix := "journal_all"
	if options.Instruction != "" {
		prefix = "journal_" + options.Instruction
	}
	if len(options.Mint) >= 8 {
		prefix += "_" + options.Mint[:8]
	}
	return fmt.Sprintf("%s_%s.%s", prefix, e.now().Format("20060102_150405"), options.Format)
}

var csvHeaders = []string{
	"time", "instruction_id", "instruction", "status", "signer", "mint",
	"amount_in", "amount_out", "error_code", "error", "execution_seconds",
}

func writeCSV(entries []*models.Instruction, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, entry := range entries {
		row := []string{
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.InstructionID,
			entry.Name,
			entry.Status,
			entry.Signer,
			entry.Mint,
			strconv.FormatUint(entry.AmountIn, 10),
			strconv.FormatUint(entry.AmountOut, 10),
			strconv.FormatUint(uint64(entry.ErrorCode), 10),
			entry.ErrorMessage,
			strconv.FormatFloat(entry.ExecutionTime, 'f', 6, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (e *JournalExporter) writeJSON(entries []*models.Instruction, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time             `json:"export_time"`
		Summary    Summary               `json:"summary"`
		Entries    []*models.Instruction `json:"entries"`
	}{
		ExportTime: e.now().UTC(),
		Summary:    Summarize(entries),
		Entries:    entries,
	}
	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Summarize aggregates entries, which must be sorted oldest first. Swap volume counts the
// lamport side of successful swaps only.
func Summarize(entries []*models.Instruction) Summary {
	s := Summary{Total: len(entries), ByName: make(map[string]int)}
	if len(entries) == 0 {
		return s
	}
	s.StartDate = entries[0].CreatedAt
	s.EndDate = entries[len(entries)-1].CreatedAt

	mints := make(map[string]struct{})
	for _, entry := range entries {
		s.ByName[entry.Name]++
		if entry.Mint != "" {
			mints[entry.Mint] = struct{}{}
		}
		if entry.Status != models.StatusSuccess {
			s.Failed++
			continue
		}
		s.Succeeded++
		switch entry.Name {
		case "swap_buy":
			s.BuyLamports += entry.AmountIn
		case "swap_sell":
			s.SellLamports += entry.AmountOut
		}
	}
	s.UniqueMints = len(mints)
	return s
}
