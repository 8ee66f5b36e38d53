package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"dx-metrics/internal/metrics"

	"github.com/rs/zerolog/log"
)

// SheetsConfig holds the spreadsheet sink settings.
type SheetsConfig struct {
	SpreadsheetID string
	Token         string

	// BaseURL overrides the Google Sheets API endpoint, mainly for tests.
	BaseURL string
}

const (
	defaultSheetsBaseURL = "https://sheets.googleapis.com"
	sheetNameDaily       = "Daily"
	sheetNameWeekly      = "Weekly"
)

// SheetsSink appends flattened repository rows to a spreadsheet, one
// sheet per reporting period. New metric columns discovered at report
// time are appended to the running header row instead of causing a
// schema error.
type SheetsSink struct {
	cfg        SheetsConfig
	httpClient *http.Client
}

// NewSheetsSink builds a spreadsheet sink.
func NewSheetsSink(cfg SheetsConfig) *SheetsSink {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSheetsBaseURL
	}
	return &SheetsSink{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// PublishRows reconciles the sheet header with the rows' columns, then
// appends one data row per repository.
func (s *SheetsSink) PublishRows(ctx context.Context, period metrics.Period, rows []metrics.Row) error {
	sheet := sheetNameDaily
	if period == metrics.Weekly {
		sheet = sheetNameWeekly
	}

	header, err := s.fetchHeader(ctx, sheet)
	if err != nil {
		return fmt.Errorf("reading sheet header: %w", err)
	}

	header, values := reconcile(header, rows)

	if err := s.updateHeader(ctx, sheet, header); err != nil {
		return fmt.Errorf("updating sheet header: %w", err)
	}
	if err := s.appendRows(ctx, sheet, values); err != nil {
		return fmt.Errorf("appending rows: %w", err)
	}

	log.Info().Str("sheet", sheet).Int("rows", len(values)).Msg("Published report rows")
	return nil
}

// reconcile aligns every row with the header, appending columns for
// metric ids the header has not seen before. Existing columns keep their
// positions.
func reconcile(header []string, rows []metrics.Row) ([]string, [][]any) {
	known := make(map[string]bool, len(header))
	for _, col := range header {
		known[col] = true
	}

	addColumn := func(col string) {
		if !known[col] {
			known[col] = true
			header = append(header, col)
		}
	}

	addColumn("name")
	addColumn("date")
	for _, row := range rows {
		for _, col := range sortedFieldKeys(row.Fields) {
			addColumn(col)
		}
	}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		record := make([]any, len(header))
		for i, col := range header {
			switch col {
			case "name":
				record[i] = row.Name
			case "date":
				record[i] = row.Date
			default:
				if v, ok := row.Fields[col]; ok {
					record[i] = v
				}
			}
		}
		values = append(values, record)
	}

	return header, values
}

func (s *SheetsSink) fetchHeader(ctx context.Context, sheet string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		s.cfg.BaseURL, s.cfg.SpreadsheetID, url.PathEscape(sheet+"!1:1"))

	var response struct {
		Values [][]string `json:"values"`
	}
	if err := s.do(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	if len(response.Values) == 0 {
		return nil, nil
	}
	return response.Values[0], nil
}

func (s *SheetsSink) updateHeader(ctx context.Context, sheet string, header []string) error {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		s.cfg.BaseURL, s.cfg.SpreadsheetID, url.PathEscape(sheet+"!1:1"))

	body := map[string]any{"values": [][]string{header}}
	return s.do(ctx, http.MethodPut, endpoint, body, nil)
}

func (s *SheetsSink) appendRows(ctx context.Context, sheet string, values [][]any) error {
	if len(values) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		s.cfg.BaseURL, s.cfg.SpreadsheetID, url.PathEscape(sheet+"!A2:A"))

	body := map[string]any{"values": values}
	return s.do(ctx, http.MethodPost, endpoint, body, nil)
}

func (s *SheetsSink) do(ctx context.Context, method, endpoint string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sheets API returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func sortedFieldKeys(fields map[string]float64) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
