// Package export turns persisted collections into spreadsheets: a
// downloadable xlsx workbook, optionally pushed to a shared Google Sheets
// document for the analysts who live there.
package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dparodi/hacienda/internal/record"
)

// Sheet is one tab of an export: a label, a fixed column order and rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

type Service struct {
	credentialsFile string
}

func NewService(credentialsFile string) *Service {
	return &Service{credentialsFile: credentialsFile}
}

// FromRecords flattens records into a sheet. Column order follows the given
// fields; with none given, field names are sorted so exports are stable
// across runs. Dates render as dd/mm/yyyy.
func FromRecords(name string, recs []record.Record, fields []string) Sheet {
	if len(fields) == 0 && len(recs) > 0 {
		for f := range recs[0] {
			fields = append(fields, f)
		}

		sort.Strings(fields)
	}

	rows := make([][]any, 0, len(recs))

	for _, r := range recs {
		row := make([]any, len(fields))

		for i, f := range fields {
			switch v := r[f].(type) {
			case time.Time:
				row[i] = v.Format("02/01/2006")
			default:
				row[i] = v
			}
		}

		rows = append(rows, row)
	}

	return Sheet{Name: name, Header: fields, Rows: rows}
}

// Workbook builds one xlsx file with one tab per sheet.
func (s *Service) Workbook(tabs []Sheet) (*excelize.File, error) {
	if len(tabs) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()

	for i, tab := range tabs {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", tab.Name); err != nil {
				return nil, fmt.Errorf("naming sheet %s: %w", tab.Name, err)
			}
		} else {
			if _, err := f.NewSheet(tab.Name); err != nil {
				return nil, fmt.Errorf("adding sheet %s: %w", tab.Name, err)
			}
		}

		header := make([]any, len(tab.Header))
		for j, h := range tab.Header {
			header[j] = h
		}

		if err := f.SetSheetRow(tab.Name, "A1", &header); err != nil {
			return nil, fmt.Errorf("writing header of %s: %w", tab.Name, err)
		}

		for j, row := range tab.Rows {
			cell := fmt.Sprintf("A%d", j+2)

			row := row
			if err := f.SetSheetRow(tab.Name, cell, &row); err != nil {
				return nil, fmt.Errorf("writing row %d of %s: %w", j+2, tab.Name, err)
			}
		}
	}

	return f, nil
}

// Upload pushes each sheet to the external spreadsheet, replacing the tab's
// contents from A1.
func (s *Service) Upload(ctx context.Context, spreadsheetID string, tabs []Sheet) error {
	if s.credentialsFile == "" {
		return fmt.Errorf("no sheets credentials configured")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(s.credentialsFile))
	if err != nil {
		return fmt.Errorf("creating sheets client: %w", err)
	}

	for _, tab := range tabs {
		values := make([][]any, 0, len(tab.Rows)+1)

		header := make([]any, len(tab.Header))
		for i, h := range tab.Header {
			header[i] = h
		}

		values = append(values, header)
		values = append(values, tab.Rows...)

		vr := &sheets.ValueRange{Values: values}

		_, err := svc.Spreadsheets.Values.
			Update(spreadsheetID, fmt.Sprintf("%s!A1", tab.Name), vr).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("uploading sheet %s: %w", tab.Name, err)
		}
	}

	return nil
}
