package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"internet-fijo/models"
)

// CSVTableWriter writes each table to <dir>/<table name>.csv.
type CSVTableWriter struct {
	dir string
}

// NewCSVTableWriter creates dir if needed and returns a writer targeting it.
func NewCSVTableWriter(dir string) (*CSVTableWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVTableWriter{dir: dir}, nil
}

// WriteTables writes every table, truncating files from earlier runs.
func (c *CSVTableWriter) WriteTables(tables []models.Table) error {
	for _, t := range tables {
		if err := c.writeTable(t); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSVTableWriter) writeTable(t models.Table) error {
	path := filepath.Join(c.dir, t.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return f.Close()
}

// Close is a no-op; every table file is closed as soon as it is written.
func (c *CSVTableWriter) Close() error {
	return nil
}
