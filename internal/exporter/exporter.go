package exporter

import (
	"context"
	"fmt"

	"mspro-labs/coin-filter/internal/apperr"
	"mspro-labs/coin-filter/internal/models"
)

// Header is the first row of every tabular export.
var Header = []string{"Name", "Price (USD)", "Circulating Supply"}

// Sink writes the accepted coins of a run to one output file.
type Sink interface {
	Write(ctx context.Context, run models.Run, coins []models.Coin) error
	Path() string
}

// New returns the sink for format ("csv", "xlsx" or "sqlite") writing to path.
func New(format, path string) (Sink, error) {
	switch format {
	case "csv":
		return NewCSVSink(path), nil
	case "xlsx":
		return NewXLSXSink(path), nil
	case "sqlite":
		return NewSQLiteSink(path), nil
	default:
		return nil, apperr.Configf("unsupported output format %q", format)
	}
}

// Row renders a coin as text fields; unknown values become empty fields.
func Row(coin models.Coin) []string {
	return []string{coin.Name, coin.Price.String(), coin.CirculatingSupply.String()}
}

func ioErr(op, path string, err error) error {
	return apperr.New(apperr.IO, op, fmt.Errorf("%s: %w", path, err))
}
