package models

import (
	"math"
	"strconv"
)

// Entry is one grouped value.
type Entry struct {
	Key   string
	Value float64
}

// Ranking is a list of grouped values, ordered by the producer.
type Ranking []Entry

// Top returns at most the first n entries.
func (r Ranking) Top(n int) Ranking {
	if n < 0 || len(r) <= n {
		return r
	}
	return r[:n]
}

// Total sums the values, skipping NaN.
func (r Ranking) Total() float64 {
	var sum float64
	for _, e := range r {
		if !math.IsNaN(e.Value) {
			sum += e.Value
		}
	}
	return sum
}

// Keys returns the entry keys in order.
func (r Ranking) Keys() []string {
	keys := make([]string, len(r))
	for i, e := range r {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the value stored under key.
func (r Ranking) Get(key string) (float64, bool) {
	for _, e := range r {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// YearTotal is the access total for one year.
type YearTotal struct {
	Year     int
	Accesses float64
}

// CrossTab holds access totals by year (rows) and technology (columns).
// Cells[i][j] is NaN when the technology had no rows that year.
type CrossTab struct {
	Years        []int
	Technologies []string
	Cells        [][]float64
}

// Column returns the values for one technology, aligned with Years.
func (c *CrossTab) Column(tech string) []float64 {
	for j, t := range c.Technologies {
		if t != tech {
			continue
		}
		col := make([]float64, len(c.Years))
		for i := range c.Years {
			col[i] = c.Cells[i][j]
		}
		return col
	}
	return nil
}

// AccessStats is the describe() style summary of the access column.
type AccessStats struct {
	Count float64
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// ColumnCount pairs a column name with a count.
type ColumnCount struct {
	Column string
	Count  int
}

// Exploration is the first look at the loaded table.
type Exploration struct {
	Rows            int
	Columns         int
	OriginalColumns []string
	RenamedColumns  []string
	Head            string
}

// CleanReport summarises what the cleaner did.
type CleanReport struct {
	RowsBefore    int
	RowsAfter     int
	Dropped       int
	NullsBefore   []ColumnCount
	NullsAfter    []ColumnCount
	SegmentCounts Ranking
}

// AnalysisReport holds the computed aggregates over the cleaned dataset.
type AnalysisReport struct {
	TotalRecords int
	Accesses     AccessStats

	ByDepartment      Ranking
	ByTechnology      Ranking
	BySegmentType     Ranking
	ByYear            []YearTotal
	TopMunicipalities Ranking

	LatestYear         int
	ByDepartmentLatest Ranking

	TopTechnologies     []string
	TechnologyEvolution *CrossTab

	MeanDownloadByTechnology Ranking
	SegmentShare             Ranking
}

// Table is a named, rectangular view of one aggregate.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Tables converts the report into exportable tables.
func (r *AnalysisReport) Tables() []Table {
	tables := []Table{
		rankingTable("accesos_por_departamento", "departamento", "accesos", r.ByDepartment),
		rankingTable("accesos_por_tecnologia", "tecnologia", "accesos", r.ByTechnology),
		rankingTable("accesos_por_tipo_segmento", "tipo_segmento", "accesos", r.BySegmentType),
		yearTable(r.ByYear),
		rankingTable("top10_municipios", "municipio", "accesos", r.TopMunicipalities),
		rankingTable("departamentos_"+strconv.Itoa(r.LatestYear), "departamento", "accesos", r.ByDepartmentLatest),
	}
	if r.TechnologyEvolution != nil {
		tables = append(tables, crossTabTable("evolucion_top3_tecnologias", r.TechnologyEvolution))
	}
	tables = append(tables,
		rankingTable("velocidad_media_tecnologia", "tecnologia", "velocidad_bajada_media", r.MeanDownloadByTechnology),
		rankingTable("porcentaje_por_segmento", "tipo_segmento", "porcentaje", r.SegmentShare),
	)
	return tables
}

func rankingTable(name, keyCol, valueCol string, r Ranking) Table {
	t := Table{Name: name, Header: []string{keyCol, valueCol}}
	for _, e := range r {
		t.Rows = append(t.Rows, []string{e.Key, FormatFloat(e.Value)})
	}
	return t
}

func yearTable(years []YearTotal) Table {
	t := Table{Name: "accesos_por_anio", Header: []string{"anio", "accesos"}}
	for _, y := range years {
		t.Rows = append(t.Rows, []string{strconv.Itoa(y.Year), FormatFloat(y.Accesses)})
	}
	return t
}

func crossTabTable(name string, c *CrossTab) Table {
	t := Table{Name: name, Header: append([]string{"anio"}, c.Technologies...)}
	for i, year := range c.Years {
		row := []string{strconv.Itoa(year)}
		for _, v := range c.Cells[i] {
			row = append(row, FormatFloat(v))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatFloat renders a value without a trailing ".0" for whole numbers and
// as an empty string for NaN.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
