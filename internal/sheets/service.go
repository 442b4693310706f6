package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vestiga-portal/internal/applications/entities"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Service keeps the spreadsheet row-per-application view in step with the
// record store. Column A holds the application id and is how rows are found
// again.
type Service struct {
	sheets        *sheets.Service
	spreadsheetID string
	readRange     string
}

func NewService(ctx context.Context, credentialsPath, spreadsheetID, readRange string) (*Service, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize sheets client: %w", err)
	}

	return &Service{
		sheets:        srv,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

func (s *Service) sheetName() string {
	return strings.SplitN(s.readRange, "!", 2)[0]
}

func applicationRow(app entities.Application) []interface{} {
	photo := app.Photo
	if photo == "" {
		photo = "No photo"
	}
	return []interface{}{
		app.ID,
		app.Name,
		app.IDNumber,
		app.Address,
		app.Mobile,
		app.Email,
		photo,
		string(app.PaymentStatus),
		app.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Service) AppendApplication(ctx context.Context, app entities.Application) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{applicationRow(app)},
	}

	_, err := s.sheets.Spreadsheets.Values.Append(s.spreadsheetID, s.readRange, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append application %s: %w", app.ID, err)
	}
	return nil
}

// findRow returns the 1-indexed sheet row holding the application id, or 0.
func (s *Service) findRow(ctx context.Context, applicationID string) (int, error) {
	searchRange := s.sheetName() + "!A:A"
	resp, err := s.sheets.Spreadsheets.Values.Get(s.spreadsheetID, searchRange).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("search application rows: %w", err)
	}

	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprintf("%v", row[0]) == applicationID {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (s *Service) UpdateApplication(ctx context.Context, app entities.Application) error {
	rowIndex, err := s.findRow(ctx, app.ID)
	if err != nil {
		return err
	}
	if rowIndex == 0 {
		// Never synced; fall back to appending instead of losing the update.
		return s.AppendApplication(ctx, app)
	}

	updateRange := fmt.Sprintf("%s!A%d:I%d", s.sheetName(), rowIndex, rowIndex)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{applicationRow(app)},
	}

	_, err = s.sheets.Spreadsheets.Values.Update(s.spreadsheetID, updateRange, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update application %s: %w", app.ID, err)
	}
	return nil
}

func (s *Service) DeleteApplication(ctx context.Context, applicationID string) error {
	rowIndex, err := s.findRow(ctx, applicationID)
	if err != nil {
		return err
	}
	if rowIndex == 0 {
		return nil
	}

	clearRange := fmt.Sprintf("%s!A%d:I%d", s.sheetName(), rowIndex, rowIndex)
	_, err = s.sheets.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("delete application %s: %w", applicationID, err)
	}
	return nil
}
