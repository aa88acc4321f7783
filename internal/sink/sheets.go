package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/zinct/zinct/internal/ledger"
)

const sheetsTimeout = 15 * time.Second

// Sheets appends ledger records as rows to a Google Sheets
// spreadsheet. Rows use the fixed column order
// [date, merchant, category, total, vat, summary] followed by the
// record's capture ID, so a duplicated retry row can be identified
// downstream.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	writeRange    string
}

// NewSheets creates a Sheets sink. With an empty credentials file path
// the client falls back to application default credentials.
func NewSheets(ctx context.Context, credentialsFile, spreadsheetID, writeRange string) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if writeRange == "" {
		writeRange = "A:G"
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	return &Sheets{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		writeRange:    writeRange,
	}, nil
}

// Append mirrors one record to the spreadsheet, retrying once. The
// retry is only safe because the trailing capture ID column makes a
// duplicated row detectable.
func (s *Sheets) Append(ctx context.Context, rec ledger.Record) error {
	err := s.appendOnce(ctx, rec)
	if err == nil {
		return nil
	}
	slog.Warn("Sheets append failed, retrying once", "capture_id", rec.CaptureID, "error", err)

	if err := s.appendOnce(ctx, rec); err != nil {
		return &Error{Sink: "sheets", Err: err}
	}
	return nil
}

func (s *Sheets) appendOnce(ctx context.Context, rec ledger.Record) error {
	ctx, cancel := context.WithTimeout(ctx, sheetsTimeout)
	defer cancel()

	row := make([]interface{}, 0, 7)
	for _, v := range ledger.Row(rec) {
		row = append(row, v)
	}
	row = append(row, rec.CaptureID)

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.writeRange, &sheets.ValueRange{
			Values: [][]interface{}{row},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// Close closes the Sheets sink (no-op, the HTTP client is shared)
func (s *Sheets) Close() error {
	return nil
}
