package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ayushterm/api/internal/domain/terminology"
)

// Loader performs the one-time ingestion of terminology tables from CSV or
// XLSX files. Loads replace prior rows for their scope; query traffic is
// assumed not to start until loading completes.
type Loader struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func New(pool *pgxpool.Pool, logger zerolog.Logger) *Loader {
	return &Loader{pool: pool, logger: logger}
}

// ConceptRow is one parsed traditional-medicine concept.
type ConceptRow struct {
	Code       string
	Display    string
	NativeTerm string
}

// MappingRow is one parsed concept-to-ICD-11 mapping.
type MappingRow struct {
	SourceCode      string
	TargetCode      string
	TargetTitle     string
	Confidence      *float64
	EquivalenceHint string
}

// ICD11Row is one parsed ICD-11 classification entry.
type ICD11Row struct {
	Code  string
	Title string
	IsTM2 bool
}

// LoadConcepts replaces one system's concepts from a file.
func (l *Loader) LoadConcepts(ctx context.Context, path, system string) (int, error) {
	system = strings.ToLower(system)
	if !terminology.KnownSystem(system) {
		return 0, fmt.Errorf("unknown system: %s", system)
	}

	records, err := readTable(path)
	if err != nil {
		return 0, err
	}
	concepts, err := ParseConcepts(records)
	if err != nil {
		return 0, err
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM namaste_codes WHERE system = $1`, system); err != nil {
		return 0, fmt.Errorf("clear concepts: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range concepts {
		batch.Queue(
			`INSERT INTO namaste_codes (code, display, native_term, system) VALUES ($1, $2, NULLIF($3, ''), $4)`,
			c.Code, c.Display, c.NativeTerm, system)
	}
	if err := flushBatch(ctx, tx, batch); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit load: %w", err)
	}

	l.logger.Info().Str("system", system).Int("rows", len(concepts)).Msg("loaded concepts")
	return len(concepts), nil
}

// LoadICD11 replaces the ICD-11 code table from a file.
func (l *Loader) LoadICD11(ctx context.Context, path string) (int, error) {
	records, err := readTable(path)
	if err != nil {
		return 0, err
	}
	codes, err := ParseICD11(records)
	if err != nil {
		return 0, err
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE icd11_codes`); err != nil {
		return 0, fmt.Errorf("clear icd11 codes: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range codes {
		batch.Queue(
			`INSERT INTO icd11_codes (code, title, is_tm2) VALUES ($1, $2, $3)`,
			c.Code, c.Title, c.IsTM2)
	}
	if err := flushBatch(ctx, tx, batch); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit load: %w", err)
	}

	l.logger.Info().Int("rows", len(codes)).Msg("loaded icd11 codes")
	return len(codes), nil
}

// LoadMappings replaces one system's mappings from a file.
func (l *Loader) LoadMappings(ctx context.Context, path, system string) (int, error) {
	system = strings.ToLower(system)
	if !terminology.KnownSystem(system) {
		return 0, fmt.Errorf("unknown system: %s", system)
	}

	records, err := readTable(path)
	if err != nil {
		return 0, err
	}
	mappings, err := ParseMappings(records)
	if err != nil {
		return 0, err
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM icd_mappings WHERE source_system = $1`, system); err != nil {
		return 0, fmt.Errorf("clear mappings: %w", err)
	}

	batch := &pgx.Batch{}
	for _, m := range mappings {
		batch.Queue(
			`INSERT INTO icd_mappings (namc_code, source_system, icd_code, icd_title, similarity_score, equivalence_hint)
			 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''))`,
			m.SourceCode, system, m.TargetCode, m.TargetTitle, m.Confidence, m.EquivalenceHint)
	}
	if err := flushBatch(ctx, tx, batch); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit load: %w", err)
	}

	l.logger.Info().Str("system", system).Int("rows", len(mappings)).Msg("loaded mappings")
	return len(mappings), nil
}

// ParseConcepts converts header-plus-data records into concept rows. The
// header row names columns; recognized names are code/namc_code,
// display/term, and native_term.
func ParseConcepts(records [][]string) ([]ConceptRow, error) {
	idx, err := headerIndex(records, "code", "display")
	if err != nil {
		return nil, err
	}

	var out []ConceptRow
	for _, row := range records[1:] {
		c := ConceptRow{
			Code:       cell(row, idx["code"]),
			Display:    cell(row, idx["display"]),
			NativeTerm: cell(row, idx["native_term"]),
		}
		if c.Code == "" || c.Display == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseICD11 converts records into ICD-11 rows. Recognized columns are
// code, title, and is_tm2.
func ParseICD11(records [][]string) ([]ICD11Row, error) {
	idx, err := headerIndex(records, "code", "title")
	if err != nil {
		return nil, err
	}

	var out []ICD11Row
	for _, row := range records[1:] {
		c := ICD11Row{
			Code:  cell(row, idx["code"]),
			Title: cell(row, idx["title"]),
		}
		if c.Code == "" || c.Title == "" {
			continue
		}
		switch strings.ToLower(cell(row, idx["is_tm2"])) {
		case "true", "1", "yes":
			c.IsTM2 = true
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseMappings converts records into mapping rows. Recognized columns are
// namc_code/code, icd_code, icd_title, similarity_score, and
// equivalence_hint. A row with no target is kept as an explicit unmapped
// record with no score.
func ParseMappings(records [][]string) ([]MappingRow, error) {
	idx, err := headerIndex(records, "namc_code")
	if err != nil {
		return nil, err
	}

	var out []MappingRow
	for _, row := range records[1:] {
		m := MappingRow{
			SourceCode:      cell(row, idx["namc_code"]),
			TargetCode:      cell(row, idx["icd_code"]),
			TargetTitle:     cell(row, idx["icd_title"]),
			EquivalenceHint: cell(row, idx["equivalence_hint"]),
		}
		if m.SourceCode == "" {
			continue
		}
		if m.TargetCode == "" {
			m.TargetTitle = ""
			m.EquivalenceHint = ""
		} else if raw := cell(row, idx["similarity_score"]); raw != "" {
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("bad similarity_score %q for %s", raw, m.SourceCode)
			}
			m.Confidence = &score
		}
		out = append(out, m)
	}
	return out, nil
}

// headerIndex normalizes the header row and checks required columns exist.
// Column name aliases are folded to their canonical names.
func headerIndex(records [][]string, required ...string) (map[string]int, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	aliases := map[string]string{
		"namc_term": "display",
		"term":      "display",
		"namc_id":   "code",
	}

	idx := make(map[string]int)
	for i, h := range records[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		name = strings.ReplaceAll(name, " ", "_")
		if canonical, ok := aliases[name]; ok {
			if _, taken := idx[canonical]; !taken {
				idx[canonical] = i
			}
			continue
		}
		idx[name] = i
	}
	if _, hasNamc := idx["namc_code"]; !hasNamc {
		if i, ok := idx["code"]; ok {
			idx["namc_code"] = i
		}
	}

	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// readTable dispatches on file extension: .xlsx via excelize, anything else
// as CSV.
func readTable(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		records = append(records, row)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%s has no sheets", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

func flushBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("batch insert row %d: %w", i, err)
		}
	}
	return results.Close()
}
