package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/unicode/norm"

	"internet-fijo/models"
	"internet-fijo/utils"
)

// ErrInputNotFound is returned by Load when the CSV file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// headRows is how many rows the exploration preview shows.
const headRows = 5

// nullMarkers are the cell values read as null.
var nullMarkers = []string{"", "NA", "NaN", "nan"}

// Loader reads the dataset CSV into raw records.
type Loader struct {
	logger *utils.Logger
}

// NewLoader creates a Loader with the given logger.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load opens path and parses it.
func (l *Loader) Load(path string) ([]*models.RawRecord, *models.Exploration, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, nil, fmt.Errorf("loader: open %q: %w", path, err)
	}
	defer f.Close()

	l.logger.Debug("[loader] Reading %s", path)
	return l.Read(f)
}

// Read parses CSV data from r. Every column is kept as text; type coercion
// is the cleaner's job.
func (l *Loader) Read(r io.Reader) ([]*models.RawRecord, *models.Exploration, error) {
	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nullMarkers),
	)
	if df.Err != nil {
		return nil, nil, fmt.Errorf("loader: parse csv: %w", df.Err)
	}

	rows, cols := df.Dims()
	exp := &models.Exploration{
		Rows:            rows,
		Columns:         cols,
		OriginalColumns: df.Names(),
	}

	df, err := renameColumns(df)
	if err != nil {
		return nil, nil, err
	}
	exp.RenamedColumns = df.Names()

	if rows > 0 {
		n := min(rows, headRows)
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		exp.Head = df.Subset(idx).String()
	}

	records := make([]*models.RawRecord, rows)
	for i := range records {
		records[i] = &models.RawRecord{}
	}
	for _, col := range models.RecordColumns {
		s := df.Col(col)
		values := s.Records()
		nulls := s.IsNaN()
		for i, rec := range records {
			if nulls[i] {
				continue
			}
			rec.SetField(col, values[i])
		}
	}

	l.logger.Info("[loader] Loaded %d rows x %d columns", rows, cols)
	return records, exp, nil
}

// renameColumns maps dataset headers to internal names and checks that
// every expected column is present.
func renameColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, name := range df.Names() {
		target, ok := models.SourceColumns[normalizeHeader(name)]
		if !ok || target == name {
			continue
		}
		df = df.Rename(target, name)
		if df.Err != nil {
			return df, fmt.Errorf("loader: rename %q: %w", name, df.Err)
		}
	}

	present := make(map[string]struct{}, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = struct{}{}
	}
	var missing []string
	for _, col := range models.RecordColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return df, fmt.Errorf("loader: missing columns: %s", strings.Join(missing, ", "))
	}
	return df, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(h))
}
