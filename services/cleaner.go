package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"internet-fijo/models"
	"internet-fijo/utils"
)

// Cleaner turns raw records into typed, filtered Records.
type Cleaner struct {
	logger *utils.Logger
	upper  cases.Caser
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{
		logger: logger,
		upper:  cases.Upper(language.Spanish),
	}
}

// Clean coerces the numeric columns, drops rows whose access count is not
// a number and derives the period and segment type columns. A malformed
// year or quarter on a kept row is returned as an error.
func (c *Cleaner) Clean(raw []*models.RawRecord) ([]*models.Record, *models.CleanReport, error) {
	report := &models.CleanReport{
		RowsBefore:  len(raw),
		NullsBefore: rawNullCounts(raw),
	}

	result := make([]*models.Record, 0, len(raw))
	for i, r := range raw {
		accesses, ok := parseNumber(r.Accesses)
		if !ok {
			c.logger.Debug("[cleaner] Row %d: non-numeric access count %q", i, r.Accesses)
			continue
		}

		year, err := parseInteger(r.Year)
		if err != nil {
			return nil, nil, fmt.Errorf("cleaner: row %d: year: %w", i, err)
		}
		quarter, err := parseInteger(r.Quarter)
		if err != nil {
			return nil, nil, fmt.Errorf("cleaner: row %d: quarter: %w", i, err)
		}

		result = append(result, &models.Record{
			Year:             year,
			Quarter:          quarter,
			Provider:         r.Provider,
			DepartmentCode:   r.DepartmentCode,
			Department:       r.Department,
			MunicipalityCode: r.MunicipalityCode,
			Municipality:     r.Municipality,
			Segment:          r.Segment,
			Technology:       r.Technology,
			DownloadSpeed:    parseSpeed(r.DownloadSpeed),
			UploadSpeed:      parseSpeed(r.UploadSpeed),
			Accesses:         accesses,
			Period:           fmt.Sprintf("%d-T%d", year, quarter),
			SegmentType:      c.classifySegment(r.Segment),
		})
	}

	report.RowsAfter = len(result)
	report.Dropped = len(raw) - len(result)
	report.NullsAfter = cleanNullCounts(result)
	report.SegmentCounts = countBy(result, func(r *models.Record) string { return string(r.SegmentType) })

	c.logger.Info("[cleaner] Cleaned %d → %d records (dropped %d with null accesses)",
		report.RowsBefore, report.RowsAfter, report.Dropped)
	return result, report, nil
}

// classifySegment maps the free-text segment to RESIDENCIAL, CORPORATIVO or
// OTRO, ignoring case.
func (c *Cleaner) classifySegment(seg string) models.SegmentType {
	if seg == "" {
		return models.SegmentOther
	}
	text := c.upper.String(seg)
	if strings.Contains(text, string(models.SegmentResidential)) {
		return models.SegmentResidential
	}
	if strings.Contains(text, string(models.SegmentCorporate)) {
		return models.SegmentCorporate
	}
	return models.SegmentOther
}

// parseNumber reads a decimal-point number. Empty, NaN, infinite and
// otherwise malformed values are rejected.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// parseSpeed accepts a decimal comma ("12,5") as well as a decimal point.
func parseSpeed(raw string) *float64 {
	v, ok := parseNumber(strings.ReplaceAll(raw, ",", "."))
	if !ok {
		return nil
	}
	return &v
}

func parseInteger(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return int(d.IntPart()), nil
}

func rawNullCounts(raw []*models.RawRecord) []models.ColumnCount {
	counts := make([]models.ColumnCount, len(models.RecordColumns))
	for i, col := range models.RecordColumns {
		counts[i].Column = col
		for _, r := range raw {
			if r.Field(col) == "" {
				counts[i].Count++
			}
		}
	}
	return counts
}

func cleanNullCounts(records []*models.Record) []models.ColumnCount {
	cols := append(append([]string{}, models.RecordColumns...), models.ColPeriod, models.ColSegmentType)
	counts := make([]models.ColumnCount, len(cols))
	for i, col := range cols {
		counts[i].Column = col
		for _, r := range records {
			if r.IsNull(col) {
				counts[i].Count++
			}
		}
	}
	return counts
}
