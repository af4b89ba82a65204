package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internet-fijo/models"
)

func record(year int, dept, muni, tech string, seg models.SegmentType, accesses float64, down *float64) *models.Record {
	return &models.Record{
		Year:          year,
		Quarter:       1,
		Department:    dept,
		Municipality:  muni,
		Technology:    tech,
		SegmentType:   seg,
		Accesses:      accesses,
		DownloadSpeed: down,
	}
}

func TestRankDescendingBreaksTiesByKey(t *testing.T) {
	got := rankDescending(map[string]float64{
		"C": 5,
		"A": 5,
		"B": 9,
		"D": math.NaN(),
		"E": 1,
	})

	require.Len(t, got, 5)
	assert.Equal(t, []string{"B", "A", "C", "E", "D"}, got.Keys())
	assert.True(t, math.IsNaN(got[4].Value))
}

func TestSumByMissingKeysGrouped(t *testing.T) {
	records := []*models.Record{
		record(2020, "ANTIOQUIA", "MEDELLÍN", "Cable", models.SegmentResidential, 10, nil),
		record(2020, "", "", "Cable", models.SegmentResidential, 5, nil),
	}

	got := sumBy(records, byDepartment)
	assert.Equal(t, models.Ranking{
		{Key: "ANTIOQUIA", Value: 10},
		{Key: missingKey, Value: 5},
	}, got)
	assert.Equal(t, 15.0, got.Total())
}

func TestMeanByIgnoresMissingValues(t *testing.T) {
	records := []*models.Record{
		record(2020, "A", "M", "Fibra", models.SegmentResidential, 1, ptr(100)),
		record(2020, "A", "M", "Fibra", models.SegmentResidential, 1, nil),
		record(2020, "A", "M", "Fibra", models.SegmentResidential, 1, ptr(300)),
		record(2020, "A", "M", "Cable", models.SegmentResidential, 1, ptr(50)),
		record(2020, "A", "M", "Satelital", models.SegmentResidential, 1, nil),
	}

	got := meanBy(records, byTechnology, func(r *models.Record) *float64 { return r.DownloadSpeed })
	require.Len(t, got, 3)
	assert.Equal(t, models.Entry{Key: "Fibra", Value: 200}, got[0])
	assert.Equal(t, models.Entry{Key: "Cable", Value: 50}, got[1])
	assert.Equal(t, "Satelital", got[2].Key)
	assert.True(t, math.IsNaN(got[2].Value))
}

func TestYearTotalsAscending(t *testing.T) {
	records := []*models.Record{
		record(2022, "A", "M", "T", models.SegmentOther, 3, nil),
		record(2020, "A", "M", "T", models.SegmentOther, 1, nil),
		record(2022, "A", "M", "T", models.SegmentOther, 4, nil),
	}

	assert.Equal(t, []models.YearTotal{
		{Year: 2020, Accesses: 1},
		{Year: 2022, Accesses: 7},
	}, yearTotals(records))
}

func TestCrossTabMissingCellsAreNaN(t *testing.T) {
	records := []*models.Record{
		record(2020, "A", "M", "Fibra", models.SegmentOther, 10, nil),
		record(2020, "A", "M", "Cable", models.SegmentOther, 20, nil),
		record(2021, "A", "M", "Cable", models.SegmentOther, 30, nil),
		record(2021, "A", "M", "Cable", models.SegmentOther, 5, nil),
	}

	c := crossTab(records)
	assert.Equal(t, []int{2020, 2021}, c.Years)
	assert.Equal(t, []string{"Cable", "Fibra"}, c.Technologies)

	assert.Equal(t, []float64{20, 35}, c.Column("Cable"))
	fibra := c.Column("Fibra")
	require.Len(t, fibra, 2)
	assert.Equal(t, 10.0, fibra[0])
	assert.True(t, math.IsNaN(fibra[1]))
	assert.Nil(t, c.Column("xDSL"))
}

func TestSharesSumToHundred(t *testing.T) {
	got := shares(models.Ranking{
		{Key: "RESIDENCIAL", Value: 300},
		{Key: "CORPORATIVO", Value: 100},
		{Key: "OTRO", Value: 100},
	})

	require.Len(t, got, 3)
	assert.InDelta(t, 60.0, got[0].Value, 1e-9)
	assert.InDelta(t, 20.0, got[1].Value, 1e-9)
	assert.InDelta(t, 100.0, got.Total(), 1e-9)
}

func TestSharesOfZeroTotal(t *testing.T) {
	assert.Nil(t, shares(models.Ranking{{Key: "OTRO", Value: 0}}))
	assert.Nil(t, shares(nil))
}

func TestDescribe(t *testing.T) {
	st := describe([]float64{4, 1, 3, 2})

	assert.Equal(t, 4.0, st.Count)
	assert.InDelta(t, 2.5, st.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), st.Std, 1e-9)
	assert.Equal(t, 1.0, st.Min)
	assert.InDelta(t, 1.75, st.Q25, 1e-9)
	assert.InDelta(t, 2.5, st.Q50, 1e-9)
	assert.InDelta(t, 3.25, st.Q75, 1e-9)
	assert.Equal(t, 4.0, st.Max)
}

func TestDescribeSingleValue(t *testing.T) {
	st := describe([]float64{7})

	assert.Equal(t, 1.0, st.Count)
	assert.Equal(t, 7.0, st.Mean)
	assert.True(t, math.IsNaN(st.Std))
	assert.Equal(t, 7.0, st.Q25)
	assert.Equal(t, 7.0, st.Max)
}

func TestDescribeEmpty(t *testing.T) {
	st := describe(nil)

	assert.Equal(t, 0.0, st.Count)
	assert.True(t, math.IsNaN(st.Mean))
	assert.True(t, math.IsNaN(st.Max))
}

func TestQuantile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{0.25, 20},
		{0.5, 30},
		{0.9, 46},
		{1, 50},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, quantile(sorted, tt.p), 1e-9, "quantile(%v)", tt.p)
	}
}
