package metrics

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"shootout/internal/model"
)

var header = []string{
	"timestamp",
	"source",
	"count",
	"fraction",
}

// WriteCSV writes samples to CSV with a fixed column order.
func WriteCSV(w io.Writer, items []model.Sample) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return err
	}
	for _, s := range items {
		if err := writer.Write(record(s)); err != nil {
			return err
		}
	}

	return writer.Error()
}

// AppendCSV appends samples to a CSV file, writing the header only when
// the file is new or empty.
func AppendCSV(path string, items []model.Sample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return err
		}
	}
	for _, s := range items {
		if err := writer.Write(record(s)); err != nil {
			return err
		}
	}

	return writer.Error()
}

func record(s model.Sample) []string {
	return []string{
		s.Timestamp.UTC().Format(time.RFC3339Nano),
		s.Source,
		strconv.FormatInt(s.Count, 10),
		strconv.FormatFloat(s.Fraction, 'f', 4, 64),
	}
}
