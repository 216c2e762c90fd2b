package exporter

import (
	"context"

	"github.com/xuri/excelize/v2"

	"mspro-labs/coin-filter/internal/logging"
	"mspro-labs/coin-filter/internal/models"
)

// SheetName is the worksheet holding the export.
const SheetName = "Coins"

// XLSXSink writes an Excel workbook with numeric cells for known values.
type XLSXSink struct {
	path string
}

func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

func (s *XLSXSink) Path() string {
	return s.path
}

func (s *XLSXSink) Write(ctx context.Context, run models.Run, coins []models.Coin) error {
	logger := logging.Component("exporter")
	logger.Info().
		Str("file_path", s.path).
		Str("run_id", run.ID).
		Int("record_count", len(coins)).
		Msg("writing XLSX workbook")

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return ioErr("create sheet", s.path, err)
	}
	for col, title := range Header {
		if err := setCell(f, col+1, 1, title); err != nil {
			return ioErr("write xlsx header", s.path, err)
		}
	}

	for i, coin := range coins {
		if err := ctx.Err(); err != nil {
			return ioErr("write xlsx", s.path, err)
		}
		row := i + 2
		if err := setCell(f, 1, row, coin.Name); err != nil {
			return ioErr("write xlsx record", s.path, err)
		}
		for col, n := range []models.Number{coin.Price, coin.CirculatingSupply} {
			if !n.Valid {
				continue
			}
			if err := setCell(f, col+2, row, n.Value); err != nil {
				return ioErr("write xlsx record", s.path, err)
			}
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return ioErr("save xlsx", s.path, err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SheetName, cell, value)
}
