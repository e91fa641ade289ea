// Package importer loads legacy traceability spreadsheets (one CSV per
// month, latin-1, ';'-separated) into the database. Import is best-effort:
// a bad file is reported and skipped, the rest proceed.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/services"
	"github.com/sceu/clinic/pkg/logger"
)

// FieldMapping maps traceability field names to CSV column headers,
// e.g. {"invoice_number": "FACTURA", "purchase_date": "FECHA"}.
type FieldMapping map[string]string

// DefaultMapping matches the workshop's historical spreadsheet headers.
var DefaultMapping = FieldMapping{
	"invoice_number":  "FACTURA",
	"purchase_date":   "FECHA",
	"supplies":        "DETALLE",
	"amount":          "CANTIDAD",
	"supplier":        "PROVEEDOR",
	"batch_number":    "LOTE",
	"invima_registry": "REGISTRO INVIMA",
	"expiration_date": "FECHA DE CADUCIDAD",
	"value":           "VALOR",
}

// dateLayouts are tried in order when parsing spreadsheet dates.
var dateLayouts = []string{"2/1/2006", "02/01/2006", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseInvoice normalizes invoice numbers: spreadsheets often store them as
// floats ("10234.0").
func parseInvoice(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// parseAmount parses a quantity that may use a decimal comma.
func parseAmount(s string) (float64, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// parseValue parses a price with thousands separators ("1,250,000").
func parseValue(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}

// ParseFile reads one CSV and converts its rows to traceability entries.
// Rows whose mapped cells are all empty are skipped (blank spreadsheet
// lines); a row with an unparsable required cell fails the file.
func ParseFile(r io.Reader, mapping FieldMapping, delimiter rune) ([]*models.Traceability, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}
	for field, column := range mapping {
		if _, ok := colIndex[column]; !ok {
			return nil, fmt.Errorf("column %q (for %s) not found in header", column, field)
		}
	}

	var entries []*models.Traceability
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cell := func(field string) string {
			column, ok := mapping[field]
			if !ok {
				return ""
			}
			idx := colIndex[column]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		empty := true
		for field := range mapping {
			if cell(field) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		t := &models.Traceability{
			InvoiceNumber:  parseInvoice(cell("invoice_number")),
			Supplies:       cell("supplies"),
			Supplier:       cell("supplier"),
			BatchNumber:    cell("batch_number"),
			InvimaRegistry: cell("invima_registry"),
		}

		if v := cell("purchase_date"); v != "" {
			date, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: purchase date: %w", line, err)
			}
			t.PurchaseDate = date
		}
		if v := cell("amount"); v != "" {
			amount, err := parseAmount(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: amount: %w", line, err)
			}
			t.Amount = amount
		}
		if v := cell("expiration_date"); v != "" {
			date, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: expiration date: %w", line, err)
			}
			t.ExpirationDate = &date
		}
		if v := cell("value"); v != "" {
			value, err := parseValue(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: value: %w", line, err)
			}
			t.Value = &value
		}

		entries = append(entries, t)
	}

	return entries, nil
}

// Importer loads parsed CSV entries into the database.
type Importer struct {
	traceability *services.TraceabilityService
}

// New creates an Importer
func New(traceability *services.TraceabilityService) *Importer {
	return &Importer{traceability: traceability}
}

// Summary reports what an ImportDir run did.
type Summary struct {
	Files    int
	Inserted int64
	Errors   []string
}

// decoderFor returns the character decoder for the given encoding name.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// ImportDir imports every CSV file found in dir. Files that fail to parse
// are reported in the summary; the remaining files are still imported.
func (im *Importer) ImportDir(ctx context.Context, dir string, mapping FieldMapping, delimiter rune, encodingName string) (*Summary, error) {
	decoder, err := decoderFor(encodingName)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	summary := &Summary{}
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		summary.Files++

		path := filepath.Join(dir, entry.Name())
		n, err := im.importFile(ctx, path, mapping, delimiter, decoder)
		if err != nil {
			logger.Error("import failed", "file", entry.Name(), "error", err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}
		logger.Info("imported file", "file", entry.Name(), "rows", n)
		summary.Inserted += n
	}

	return summary, nil
}

func (im *Importer) importFile(ctx context.Context, path string, mapping FieldMapping, delimiter rune, decoder *encoding.Decoder) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if decoder != nil {
		r = transform.NewReader(f, decoder)
	}

	entries, err := ParseFile(r, mapping, delimiter)
	if err != nil {
		return 0, err
	}

	return im.traceability.BulkInsert(ctx, entries)
}
