package services

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"internet-fijo/models"
	"internet-fijo/utils"
)

const (
	TopDepartments    = 10
	TopMunicipalities = 10
	TopTechnologies   = 3
	TopSpeeds         = 8
)

// AnalysisService computes the descriptive aggregates of the dataset.
type AnalysisService struct {
	logger *utils.Logger
	num    *message.Printer
}

func NewAnalysisService(logger *utils.Logger) *AnalysisService {
	return &AnalysisService{
		logger: logger,
		num:    message.NewPrinter(language.Spanish),
	}
}

func (s *AnalysisService) Generate(records []*models.Record) *models.AnalysisReport {
	report := &models.AnalysisReport{TotalRecords: len(records)}
	if len(records) == 0 {
		s.logger.Warn("[analysis] No records to analyse")
		report.Accesses = describe(nil)
		return report
	}

	report.Accesses = describe(lo.Map(records, func(r *models.Record, _ int) float64 { return r.Accesses }))

	report.ByDepartment = sumBy(records, byDepartment)
	report.ByTechnology = sumBy(records, byTechnology)
	report.BySegmentType = sumBy(records, bySegmentType)
	report.ByYear = yearTotals(records)
	report.TopMunicipalities = sumBy(records, byMunicipality).Top(TopMunicipalities)

	report.LatestYear = lo.Max(lo.Map(records, func(r *models.Record, _ int) int { return r.Year }))
	latest := lo.Filter(records, func(r *models.Record, _ int) bool { return r.Year == report.LatestYear })
	report.ByDepartmentLatest = sumBy(latest, byDepartment)

	report.TopTechnologies = report.ByTechnology.Top(TopTechnologies).Keys()
	top := lo.SliceToMap(report.TopTechnologies, func(t string) (string, struct{}) { return t, struct{}{} })
	report.TechnologyEvolution = crossTab(lo.Filter(records, func(r *models.Record, _ int) bool {
		_, ok := top[byTechnology(r)]
		return ok
	}))

	report.MeanDownloadByTechnology = meanBy(records, byTechnology, func(r *models.Record) *float64 { return r.DownloadSpeed })
	report.SegmentShare = shares(report.BySegmentType)

	s.logger.Debug("[analysis] %d departments, %d technologies, %d years, latest %d",
		len(report.ByDepartment), len(report.ByTechnology), len(report.ByYear), report.LatestYear)
	return report
}

func (s *AnalysisService) Print(w io.Writer, r *models.AnalysisReport) {
	section(w, "ANÁLISIS DESCRIPTIVO GENERAL")

	heading(w, "Estadísticas básicas de 'accesos'")
	st := r.Accesses
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"count", st.Count}, {"mean", st.Mean}, {"std", st.Std}, {"min", st.Min},
		{"25%", st.Q25}, {"50%", st.Q50}, {"75%", st.Q75}, {"max", st.Max},
	} {
		fmt.Fprintf(w, "  %-6s %s\n", row.name, s.decimal(row.value))
	}
	fmt.Fprintln(w)

	heading(w, fmt.Sprintf("Top %d departamentos por número total de accesos", TopDepartments))
	s.printRanking(w, r.ByDepartment.Top(TopDepartments), s.count)

	heading(w, "Accesos totales por tecnología")
	s.printRanking(w, r.ByTechnology, s.count)

	heading(w, "Accesos totales por tipo de segmento")
	s.printRanking(w, r.BySegmentType, s.count)

	heading(w, "Accesos totales por año")
	if len(r.ByYear) == 0 {
		fmt.Fprintf(w, "  Sin datos\n")
	}
	for _, y := range r.ByYear {
		fmt.Fprintf(w, "  %-30d %s\n", y.Year, s.count(y.Accesses))
	}
	fmt.Fprintln(w)

	section(w, "ANÁLISIS ADICIONAL")

	heading(w, fmt.Sprintf("Top %d municipios por accesos totales", TopMunicipalities))
	s.printRanking(w, r.TopMunicipalities, s.count)

	if r.TotalRecords > 0 {
		fmt.Fprintf(w, "  Año más reciente en el dataset: \033[1m%d\033[0m\n\n", r.LatestYear)
		heading(w, fmt.Sprintf("Top %d departamentos por accesos en el año %d", TopDepartments, r.LatestYear))
		s.printRanking(w, r.ByDepartmentLatest.Top(TopDepartments), s.count)
	}

	heading(w, fmt.Sprintf("Top %d tecnologías por accesos totales", TopTechnologies))
	fmt.Fprintf(w, "  %s\n\n", strings.Join(r.TopTechnologies, ", "))

	heading(w, fmt.Sprintf("Evolución anual de accesos para las %d tecnologías principales", TopTechnologies))
	s.printCrossTab(w, r.TechnologyEvolution)

	heading(w, "Velocidad promedio de bajada por tecnología (Mbps)")
	s.printRanking(w, r.MeanDownloadByTechnology, s.decimal)

	heading(w, "Porcentaje de accesos por tipo de segmento")
	s.printRanking(w, r.SegmentShare, s.percent)
}

func (s *AnalysisService) printRanking(w io.Writer, r models.Ranking, format func(float64) string) {
	if len(r) == 0 {
		fmt.Fprintf(w, "  Sin datos\n\n")
		return
	}
	max := lo.Max(lo.Map(r, func(e models.Entry, _ int) float64 {
		if math.IsNaN(e.Value) {
			return 0
		}
		return e.Value
	}))
	for _, e := range r {
		fmt.Fprintf(w, "  %-30s %-22s %s\n", truncate(e.Key, 28), bar(e.Value, max, 20), format(e.Value))
	}
	fmt.Fprintln(w)
}

func (s *AnalysisService) printCrossTab(w io.Writer, c *models.CrossTab) {
	if c == nil || len(c.Years) == 0 {
		fmt.Fprintf(w, "  Sin datos\n\n")
		return
	}
	fmt.Fprintf(w, "  %-6s", "anio")
	for _, t := range c.Technologies {
		fmt.Fprintf(w, " %18s", truncate(t, 18))
	}
	fmt.Fprintln(w)
	for i, year := range c.Years {
		fmt.Fprintf(w, "  %-6d", year)
		for _, v := range c.Cells[i] {
			fmt.Fprintf(w, " %18s", s.count(v))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

func (s *AnalysisService) count(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return s.num.Sprintf("%.0f", v)
}

func (s *AnalysisService) decimal(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return s.num.Sprintf("%.2f", v)
}

// percent rounds half away from zero to two decimals before printing.
func (s *AnalysisService) percent(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	rounded := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	return s.num.Sprintf("%.2f %%", rounded)
}

func section(w io.Writer, title string) {
	sep := strings.Repeat("═", 60)
	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  %s\033[0m\n", title)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", 60))
}

func bar(v, max float64, width int) string {
	if max <= 0 || math.IsNaN(v) || v <= 0 {
		return ""
	}
	n := int(math.Round(v / max * float64(width)))
	return strings.Repeat("█", n)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
