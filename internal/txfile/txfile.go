// Package txfile reads and writes transaction collections as JSON arrays or
// CSV files.
package txfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"fintrack/internal/core"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FormatOf picks the format from the file extension, JSON unless it ends in .csv.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// csvRow keeps every column as text so malformed values survive import.
type csvRow struct {
	ID          string `csv:"id"`
	CreatedAt   string `csv:"createdAt"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Type        string `csv:"type"`
	Category    string `csv:"category"`
}

func ReadFile(path string) ([]core.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	txs, err := Read(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return txs, nil
}

func Read(r io.Reader, format Format) ([]core.Transaction, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	default:
		return ReadJSON(r)
	}
}

// ReadJSON decodes a JSON array of transactions. Amounts of any JSON type
// are accepted.
func ReadJSON(r io.Reader) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := json.NewDecoder(r).Decode(&txs); err != nil {
		if err == io.EOF {
			return []core.Transaction{}, nil
		}
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

// ReadCSV reads a header-led CSV. Columns are matched by name and may be
// missing or reordered.
func ReadCSV(r io.Reader) ([]core.Transaction, error) {
	var rows []csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if err == gocsv.ErrEmptyCSVFile {
			return []core.Transaction{}, nil
		}
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	txs := make([]core.Transaction, 0, len(rows))
	for i, row := range rows {
		t, err := row.transaction()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func (r csvRow) transaction() (core.Transaction, error) {
	t := core.Transaction{
		Amount:      core.Amount(strings.TrimSpace(r.Amount)),
		Description: r.Description,
		Type:        core.TxType(strings.ToLower(strings.TrimSpace(r.Type))),
		Category:    r.Category,
	}
	if s := strings.TrimSpace(r.ID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return t, fmt.Errorf("invalid id %q", r.ID)
		}
		t.ID = id
	}
	if s := strings.TrimSpace(r.CreatedAt); s != "" {
		created, err := parseTime(s)
		if err != nil {
			return t, fmt.Errorf("invalid createdAt %q", r.CreatedAt)
		}
		t.CreatedAt = created
	}
	return t, nil
}

// parseTime accepts RFC 3339 or epoch milliseconds.
func parseTime(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func WriteJSON(w io.Writer, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(txs)
}

func WriteCSV(w io.Writer, txs []core.Transaction) error {
	rows := make([]csvRow, 0, len(txs))
	for _, t := range txs {
		row := csvRow{
			ID:          strconv.FormatInt(t.ID, 10),
			Amount:      string(t.Amount),
			Description: t.Description,
			Type:        string(t.Type),
			Category:    t.Category,
		}
		if !t.CreatedAt.IsZero() {
			row.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339Nano)
		}
		rows = append(rows, row)
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func Write(w io.Writer, txs []core.Transaction, format Format) error {
	if format == FormatCSV {
		return WriteCSV(w, txs)
	}
	return WriteJSON(w, txs)
}
