package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

const (
	CSVFileName    = "hsu_leads_data.csv"
	CSVContentType = "text/csv; charset=utf-8"
	utf8BOM        = "\uFEFF"
)

// EncodeCSV renders records with a BOM for spreadsheet apps, the localized header row,
// every value quoted and rows separated by a single newline.
func EncodeCSV(records []models.StudentRecord) []byte {
	var b strings.Builder
	b.WriteString(utf8BOM)

	header := make([]string, len(models.StudentFields))
	for i, f := range models.StudentFields {
		header[i] = f.Label
	}
	writeCSVRow(&b, header)

	for _, r := range records {
		b.WriteByte('\n')
		writeCSVRow(&b, r.Values())
	}

	return []byte(b.String())
}

func writeCSVRow(b *strings.Builder, values []string) {
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(v, `"`, `""`))
		b.WriteByte('"')
	}
}

// ParseCSV reads a document produced by EncodeCSV back into records.
// A CRLF inside a quoted value comes back as a bare LF.
func ParseCSV(data []byte) ([]models.StudentRecord, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = len(models.StudentFields)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	records := make([]models.StudentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.StudentRecordFromValues(row))
	}
	return records, nil
}
