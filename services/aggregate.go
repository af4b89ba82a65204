package services

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"internet-fijo/models"
)

// missingKey groups rows whose key column is empty, so that every grouping
// still covers all rows.
const missingKey = "SIN DATO"

func groupKey(s string) string {
	if s == "" {
		return missingKey
	}
	return s
}

func byDepartment(r *models.Record) string   { return groupKey(r.Department) }
func byMunicipality(r *models.Record) string { return groupKey(r.Municipality) }
func byTechnology(r *models.Record) string   { return groupKey(r.Technology) }
func bySegmentType(r *models.Record) string  { return string(r.SegmentType) }

// sumBy totals Accesses per key.
func sumBy(records []*models.Record, key func(*models.Record) string) models.Ranking {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[key(r)] += r.Accesses
	}
	return rankDescending(totals)
}

// countBy counts rows per key.
func countBy(records []*models.Record, key func(*models.Record) string) models.Ranking {
	counts := make(map[string]float64)
	for _, r := range records {
		counts[key(r)]++
	}
	return rankDescending(counts)
}

// meanBy averages the non-nil values per key. A key with no values gets NaN.
func meanBy(records []*models.Record, key func(*models.Record) string, value func(*models.Record) *float64) models.Ranking {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		k := key(r)
		n := counts[k]
		if v := value(r); v != nil {
			sums[k] += *v
			n++
		}
		counts[k] = n
	}
	means := make(map[string]float64, len(counts))
	for k, n := range counts {
		if n == 0 {
			means[k] = math.NaN()
			continue
		}
		means[k] = sums[k] / float64(n)
	}
	return rankDescending(means)
}

// rankDescending orders keys ascending, then stable-sorts by value
// descending. Ties keep ascending key order and NaN values go last.
func rankDescending(values map[string]float64) models.Ranking {
	keys := lo.Keys(values)
	sort.Strings(keys)
	ranking := lo.Map(keys, func(k string, _ int) models.Entry {
		return models.Entry{Key: k, Value: values[k]}
	})
	sort.SliceStable(ranking, func(i, j int) bool {
		return greater(ranking[i].Value, ranking[j].Value)
	})
	return ranking
}

func greater(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

// yearTotals sums Accesses per year, ascending by year.
func yearTotals(records []*models.Record) []models.YearTotal {
	totals := make(map[int]float64)
	for _, r := range records {
		totals[r.Year] += r.Accesses
	}
	years := lo.Keys(totals)
	sort.Ints(years)
	return lo.Map(years, func(y int, _ int) models.YearTotal {
		return models.YearTotal{Year: y, Accesses: totals[y]}
	})
}

// crossTab sums Accesses by year and technology. Technologies are ordered
// by name; combinations with no rows are NaN.
func crossTab(records []*models.Record) *models.CrossTab {
	years := lo.Uniq(lo.Map(records, func(r *models.Record, _ int) int { return r.Year }))
	sort.Ints(years)
	techs := lo.Uniq(lo.Map(records, func(r *models.Record, _ int) string { return byTechnology(r) }))
	sort.Strings(techs)

	yearIdx := lo.SliceToMap(lo.Range(len(years)), func(i int) (int, int) { return years[i], i })
	techIdx := lo.SliceToMap(lo.Range(len(techs)), func(j int) (string, int) { return techs[j], j })

	cells := make([][]float64, len(years))
	for i := range cells {
		cells[i] = make([]float64, len(techs))
		for j := range cells[i] {
			cells[i][j] = math.NaN()
		}
	}
	for _, r := range records {
		i, j := yearIdx[r.Year], techIdx[byTechnology(r)]
		if math.IsNaN(cells[i][j]) {
			cells[i][j] = 0
		}
		cells[i][j] += r.Accesses
	}
	return &models.CrossTab{Years: years, Technologies: techs, Cells: cells}
}

// shares expresses each value as a percentage of the ranking total.
func shares(r models.Ranking) models.Ranking {
	total := r.Total()
	if total == 0 {
		return nil
	}
	return lo.Map(r, func(e models.Entry, _ int) models.Entry {
		return models.Entry{Key: e.Key, Value: e.Value / total * 100}
	})
}

// describe computes count, mean, sample standard deviation, min, quartiles
// and max of x.
func describe(x []float64) models.AccessStats {
	if len(x) == 0 {
		nan := math.NaN()
		return models.AccessStats{Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	std := math.NaN()
	if len(x) > 1 {
		std = stat.StdDev(x, nil)
	}
	return models.AccessStats{
		Count: float64(len(x)),
		Mean:  stat.Mean(x, nil),
		Std:   std,
		Min:   floats.Min(x),
		Q25:   quantile(sorted, 0.25),
		Q50:   quantile(sorted, 0.50),
		Q75:   quantile(sorted, 0.75),
		Max:   floats.Max(x),
	}
}

// quantile interpolates linearly between the closest ranks of sorted data:
// h = (n-1)p, q = x[floor(h)] + (h-floor(h)) * (x[floor(h)+1] - x[floor(h)]).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	k := int(math.Floor(h))
	if k >= n-1 {
		return sorted[n-1]
	}
	return sorted[k] + (h-float64(k))*(sorted[k+1]-sorted[k])
}
