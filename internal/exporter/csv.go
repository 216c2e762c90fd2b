package exporter

import (
	"context"
	"encoding/csv"
	"os"

	"mspro-labs/coin-filter/internal/logging"
	"mspro-labs/coin-filter/internal/models"
)

// CSVSink writes a comma-separated file, replacing any existing one.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Path() string {
	return s.path
}

// Write creates the file, writes the header and one row per coin, and
// returns only after the file has been flushed and closed.
func (s *CSVSink) Write(ctx context.Context, run models.Run, coins []models.Coin) error {
	logger := logging.Component("exporter")
	logger.Info().
		Str("file_path", s.path).
		Str("run_id", run.ID).
		Int("record_count", len(coins)).
		Msg("writing CSV file")

	file, err := os.Create(s.path)
	if err != nil {
		return ioErr("create csv", s.path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		file.Close()
		return ioErr("write csv header", s.path, err)
	}
	for _, coin := range coins {
		if err := ctx.Err(); err != nil {
			file.Close()
			return ioErr("write csv", s.path, err)
		}
		if err := writer.Write(Row(coin)); err != nil {
			file.Close()
			return ioErr("write csv record", s.path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return ioErr("flush csv", s.path, err)
	}
	if err := file.Close(); err != nil {
		return ioErr("close csv", s.path, err)
	}
	return nil
}
