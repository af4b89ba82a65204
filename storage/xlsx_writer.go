package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"internet-fijo/models"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// XLSXTableWriter collects tables as sheets of a single workbook, saved on Close.
type XLSXTableWriter struct {
	path   string
	file   *excelize.File
	sheets int
}

// NewXLSXTableWriter prepares a workbook that will be saved at path.
func NewXLSXTableWriter(path string) (*XLSXTableWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &XLSXTableWriter{path: path, file: excelize.NewFile()}, nil
}

// WriteTables adds one sheet per table. Numeric cells are stored as numbers.
func (x *XLSXTableWriter) WriteTables(tables []models.Table) error {
	for _, t := range tables {
		sheet := sheetName(t.Name)
		if x.sheets == 0 {
			if err := x.file.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("xlsx: rename sheet: %w", err)
			}
		} else if _, err := x.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("xlsx: new sheet %q: %w", sheet, err)
		}
		x.sheets++

		header := make([]any, len(t.Header))
		for i, h := range t.Header {
			header[i] = h
		}
		if err := x.file.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("xlsx: write header: %w", err)
		}
		for i, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			values := make([]any, len(row))
			for j, v := range row {
				values[j] = cellValue(v)
			}
			if err := x.file.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// Close saves the workbook and releases it.
func (x *XLSXTableWriter) Close() error {
	if err := x.file.SaveAs(x.path); err != nil {
		_ = x.file.Close()
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return x.file.Close()
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}

func cellValue(v string) any {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
