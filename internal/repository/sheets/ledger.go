package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/docelar/docelar/internal/config"
	"github.com/docelar/docelar/internal/domain/models"
)

const (
	salesLedgerRange      = "Sales!A:H"
	productionLedgerRange = "Productions!A:E"
	dateFormat            = "2006-01-02"
)

// Ledger mirrors the day's transactions into a bookkeeping spreadsheet.
type Ledger interface {
	ExportDay(ctx context.Context, state models.AppState, day time.Time) error
}

// GoogleSheetLedger implements Ledger using the official Google Sheets API.
type GoogleSheetLedger struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetLedger builds a Google Sheets backed ledger instance.
func NewGoogleSheetLedger(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetLedger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetLedger{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ExportDay appends the day's sales and production runs as rows.
func (l *GoogleSheetLedger) ExportDay(ctx context.Context, state models.AppState, day time.Time) error {
	var saleRows [][]interface{}
	for _, sale := range state.Sales {
		if !sameDay(sale.Date, day) {
			continue
		}
		saleRows = append(saleRows, []interface{}{
			sale.Date.Format(dateFormat),
			sale.ProductName,
			sale.Quantity,
			sale.Total,
			sale.UnitCost,
			sale.PaymentMethod,
			sale.SellerName,
			sale.CommissionValue,
		})
	}

	var productionRows [][]interface{}
	for _, run := range state.Productions {
		if !sameDay(run.Date, day) {
			continue
		}
		productionRows = append(productionRows, []interface{}{
			run.Date.Format(dateFormat),
			run.ProductName,
			run.Quantity,
			run.TotalCost,
			run.ProductID,
		})
	}

	if err := l.appendRows(ctx, salesLedgerRange, saleRows); err != nil {
		return err
	}
	if err := l.appendRows(ctx, productionLedgerRange, productionRows); err != nil {
		return err
	}

	l.logger.Info("ledger export complete",
		zap.String("day", day.Format(dateFormat)),
		zap.Int("sales", len(saleRows)),
		zap.Int("productions", len(productionRows)))
	return nil
}

func (l *GoogleSheetLedger) appendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}

	call := l.service.Spreadsheets.Values.Append(l.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	l.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
