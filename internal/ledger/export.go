package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader is the fixed export column order, shared with the remote
// row sink.
var csvHeader = []string{"date", "merchant", "category", "total", "vat", "summary"}

// Row renders a record in the fixed column order with two-decimal
// monetary values. Both the CSV export and the remote row sink use
// this shape.
func Row(rec Record) []string {
	return []string{
		rec.Date,
		rec.Merchant,
		rec.Category,
		Pounds(rec.TotalPence),
		Pounds(rec.VATPence),
		rec.Summary,
	}
}

// WriteCSV exports records as a comma-separated UTF-8 table with a
// header row, one record per line.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(Row(rec)); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// ReadCSV parses an exported table back into records, field for field.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected header with %d columns", len(header))
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		total, err := ParsePounds(row[3])
		if err != nil {
			return nil, err
		}
		vat, err := ParsePounds(row[4])
		if err != nil {
			return nil, err
		}

		records = append(records, Record{
			Date:       row[0],
			Merchant:   row[1],
			Category:   row[2],
			TotalPence: total,
			VATPence:   vat,
			Summary:    row[5],
		})
	}
	return records, nil
}
