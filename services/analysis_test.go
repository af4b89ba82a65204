package services

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internet-fijo/models"
)

func sampleRecords() []*models.Record {
	return []*models.Record{
		record(2020, "ANTIOQUIA", "MEDELLÍN", "A", models.SegmentResidential, 100, ptr(50)),
		record(2020, "BOGOTÁ D.C.", "BOGOTÁ D.C.", "B", models.SegmentCorporate, 50, ptr(100)),
		record(2021, "BOGOTÁ D.C.", "BOGOTÁ D.C.", "B", models.SegmentResidential, 150, nil),
		record(2021, "ANTIOQUIA", "ENVIGADO", "A", models.SegmentOther, 50, ptr(30)),
	}
}

func TestGenerateTotals(t *testing.T) {
	svc := NewAnalysisService(newTestLogger())
	report := svc.Generate(sampleRecords())

	assert.Equal(t, 4, report.TotalRecords)
	assert.Equal(t, []models.YearTotal{{Year: 2020, Accesses: 150}, {Year: 2021, Accesses: 200}}, report.ByYear)
	assert.Equal(t, models.Ranking{{Key: "B", Value: 200}, {Key: "A", Value: 150}}, report.ByTechnology)
	assert.Equal(t, models.Ranking{
		{Key: "BOGOTÁ D.C.", Value: 200},
		{Key: "ANTIOQUIA", Value: 150},
	}, report.ByDepartment)
	assert.Equal(t, models.Ranking{
		{Key: "RESIDENCIAL", Value: 250},
		{Key: "CORPORATIVO", Value: 50},
		{Key: "OTRO", Value: 50},
	}, report.BySegmentType)
}

func TestGeneratePartitionsCoverAllAccesses(t *testing.T) {
	svc := NewAnalysisService(newTestLogger())
	report := svc.Generate(sampleRecords())

	total := 350.0
	assert.Equal(t, total, report.ByDepartment.Total())
	assert.Equal(t, total, report.ByTechnology.Total())
	assert.Equal(t, total, report.BySegmentType.Total())

	var yearly float64
	for _, y := range report.ByYear {
		yearly += y.Accesses
	}
	assert.Equal(t, total, yearly)
	assert.InDelta(t, 100.0, report.SegmentShare.Total(), 1e-9)
}

func TestGenerateLatestYear(t *testing.T) {
	svc := NewAnalysisService(newTestLogger())
	report := svc.Generate(sampleRecords())

	assert.Equal(t, 2021, report.LatestYear)
	assert.Equal(t, models.Ranking{
		{Key: "BOGOTÁ D.C.", Value: 150},
		{Key: "ANTIOQUIA", Value: 50},
	}, report.ByDepartmentLatest)
}

func TestGenerateTopMunicipalities(t *testing.T) {
	var records []*models.Record
	for i := 0; i < 12; i++ {
		records = append(records, record(2020, "D", string(rune('A'+i)), "T", models.SegmentOther, float64(i+1), nil))
	}

	report := NewAnalysisService(newTestLogger()).Generate(records)
	require.Len(t, report.TopMunicipalities, TopMunicipalities)
	assert.Equal(t, "L", report.TopMunicipalities[0].Key)
	assert.Equal(t, "C", report.TopMunicipalities[9].Key)
}

func TestGenerateTechnologyEvolution(t *testing.T) {
	records := append(sampleRecords(),
		record(2021, "ANTIOQUIA", "MEDELLÍN", "C", models.SegmentResidential, 20, nil),
		record(2020, "ANTIOQUIA", "MEDELLÍN", "D", models.SegmentResidential, 10, nil),
	)

	report := NewAnalysisService(newTestLogger()).Generate(records)
	assert.Equal(t, []string{"B", "A", "C"}, report.TopTechnologies)

	evo := report.TechnologyEvolution
	require.NotNil(t, evo)
	assert.Equal(t, []int{2020, 2021}, evo.Years)
	assert.Equal(t, []string{"A", "B", "C"}, evo.Technologies)
	assert.Equal(t, []float64{50, 150}, evo.Column("B"))
	c := evo.Column("C")
	assert.True(t, math.IsNaN(c[0]))
	assert.Equal(t, 20.0, c[1])
}

func TestGenerateMeanDownload(t *testing.T) {
	report := NewAnalysisService(newTestLogger()).Generate(sampleRecords())

	assert.Equal(t, models.Ranking{{Key: "B", Value: 100}, {Key: "A", Value: 40}}, report.MeanDownloadByTechnology)
}

func TestGenerateEmpty(t *testing.T) {
	svc := NewAnalysisService(newTestLogger())
	report := svc.Generate(nil)

	assert.Equal(t, 0, report.TotalRecords)
	assert.Empty(t, report.ByDepartment)
	assert.Nil(t, report.TechnologyEvolution)
	assert.True(t, math.IsNaN(report.Accesses.Mean))

	var buf bytes.Buffer
	svc.Print(&buf, report)
	assert.Contains(t, buf.String(), "Sin datos")
}

func TestPrintReport(t *testing.T) {
	svc := NewAnalysisService(newTestLogger())
	report := svc.Generate(sampleRecords())

	var buf bytes.Buffer
	svc.Print(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "ANÁLISIS DESCRIPTIVO GENERAL")
	assert.Contains(t, out, "ANÁLISIS ADICIONAL")
	assert.Contains(t, out, "BOGOTÁ D.C.")
	assert.Contains(t, out, "Año más reciente en el dataset")
	assert.Contains(t, out, "2021")
	assert.Contains(t, out, "%")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 10))
	assert.Equal(t, "SAN ANDRÉS...", truncate("SAN ANDRÉS Y PROVIDENCIA", 13))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(math.NaN(), 10, 20))
	assert.Equal(t, "", bar(5, 0, 20))
	assert.Equal(t, 10, len([]rune(bar(5, 10, 20))))
}

func TestGenerateFromCleanedRows(t *testing.T) {
	raw := []*models.RawRecord{
		rawRow("2020", "1", "ANTIOQUIA", "MEDELLÍN", "Residencial", "A", "10", "100"),
		rawRow("2020", "2", "ANTIOQUIA", "MEDELLÍN", "Residencial", "A", "10", "50"),
		rawRow("2021", "1", "ANTIOQUIA", "MEDELLÍN", "Corporativo", "B", "10", "200"),
	}
	records, _, err := NewCleaner(newTestLogger()).Clean(raw)
	require.NoError(t, err)

	report := NewAnalysisService(newTestLogger()).Generate(records)
	assert.Equal(t, []models.YearTotal{{Year: 2020, Accesses: 150}, {Year: 2021, Accesses: 200}}, report.ByYear)
	assert.Equal(t, models.Ranking{{Key: "B", Value: 200}, {Key: "A", Value: 150}}, report.ByTechnology)
}
