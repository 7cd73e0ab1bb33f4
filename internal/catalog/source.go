package catalog

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// RowSource fetches the current header row and data rows of the catalog.
// The sheets-backed implementation is the only production source; tests use
// in-memory fakes.
type RowSource interface {
	Fetch(ctx context.Context) (header []string, rows [][]string, err error)
}

// SheetsSource reads the catalog from a Google Sheet via the Sheets API.
type SheetsSource struct {
	svc         *sheets.Service
	sheetID     string
	valuesRange string
}

// SheetsConfig holds the settings for creating a SheetsSource.
type SheetsConfig struct {
	SheetID     string
	ValuesRange string // A1 notation, e.g. "TTHC!A1:Q"

	// CredentialsJSON authenticates with a service account key. APIKey
	// authenticates with an API key (public sheets). When both are empty,
	// Application Default Credentials are used.
	CredentialsJSON string
	APIKey          string
}

// NewSheetsSource creates a read-only Sheets API client.
func NewSheetsSource(ctx context.Context, cfg SheetsConfig) (*SheetsSource, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.APIKey != "":
		opts = []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsSource{
		svc:         svc,
		sheetID:     cfg.SheetID,
		valuesRange: cfg.ValuesRange,
	}, nil
}

// Fetch returns the header row and data rows of the configured range.
func (s *SheetsSource) Fetch(ctx context.Context) ([]string, [][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, s.valuesRange).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("get sheet values: %w", err)
	}

	values := resp.Values
	if len(values) == 0 {
		return nil, nil, nil
	}

	header := stringRow(values[0])
	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		rows = append(rows, stringRow(raw))
	}
	return header, rows, nil
}

// stringRow converts a Sheets API row of any-typed cells to strings.
func stringRow(raw []interface{}) []string {
	row := make([]string, len(raw))
	for i, cell := range raw {
		row[i] = fmt.Sprint(cell)
	}
	return row
}
