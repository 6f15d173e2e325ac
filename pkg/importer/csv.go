// Package importer implements the contact CSV import pipeline: CSV parsing,
// header-to-field mapping, and date normalization.
package importer

import (
	"encoding/csv"
	"io"
	"strings"
)

// Row is one CSV data row keyed by its lower-cased, trimmed header name.
// A row shorter than the header keeps only the cells that are present.
type Row map[string]string

// ParseCSV tokenizes raw CSV text into header-keyed rows. The first
// non-blank line is the header; blank lines are discarded. Quoted fields
// may contain commas and escaped double-quotes (""). Returns an empty
// slice when fewer than two non-blank lines exist.
//
// Parsing is deliberately lenient: short rows are kept (missing trailing
// cells are simply absent from the map) and malformed rows are skipped
// rather than failing the whole upload.
func ParseCSV(text string) []Row {
	lines := splitNonBlankLines(text)
	if len(lines) < 2 {
		return nil
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		row := make(Row, len(header))
		for i, h := range header {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// splitNonBlankLines splits on \r?\n and drops lines that are empty or
// whitespace-only.
func splitNonBlankLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
