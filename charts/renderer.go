// Package charts renders the analysis aggregates as PNG charts.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"internet-fijo/models"
	"internet-fijo/services"
	"internet-fijo/utils"
)

// errNoData marks a chart that was skipped because its aggregate is empty.
var errNoData = errors.New("no data")

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

const accessesLabel = "Número de accesos"

// Renderer writes one PNG per aggregate into a directory.
type Renderer struct {
	logger *utils.Logger
	dir    string
	width  vg.Length
	height vg.Length
	num    *message.Printer
}

// NewRenderer creates a Renderer writing widthIn x heightIn inch images into dir.
func NewRenderer(logger *utils.Logger, dir string, widthIn, heightIn float64) *Renderer {
	return &Renderer{
		logger: logger,
		dir:    dir,
		width:  vg.Length(widthIn) * vg.Inch,
		height: vg.Length(heightIn) * vg.Inch,
		num:    message.NewPrinter(language.Spanish),
	}
}

type barChart struct {
	file   string
	title  string
	xLabel string
	yLabel string
	data   models.Ranking
	rotate bool
}

type lineSeries struct {
	name   string
	values []float64
}

type lineChart struct {
	file   string
	title  string
	xLabel string
	yLabel string
	years  []int
	series []lineSeries
	legend bool
}

// Render writes every chart of the report and returns the paths written.
// Charts whose aggregate is empty are skipped.
func (r *Renderer) Render(report *models.AnalysisReport) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("charts: create output dir: %w", err)
	}

	years := lo.Map(report.ByYear, func(y models.YearTotal, _ int) int { return y.Year })
	yearly := lo.Map(report.ByYear, func(y models.YearTotal, _ int) float64 { return y.Accesses })

	var evolution []lineSeries
	var evolutionYears []int
	if c := report.TechnologyEvolution; c != nil {
		evolutionYears = c.Years
		for _, tech := range c.Technologies {
			evolution = append(evolution, lineSeries{name: tech, values: c.Column(tech)})
		}
	}

	charts := []any{
		barChart{
			file:   "top10_departamentos_historico.png",
			title:  "Top 10 departamentos por accesos de internet fijo (histórico)",
			xLabel: "Departamento", yLabel: accessesLabel,
			data: report.ByDepartment.Top(services.TopDepartments), rotate: true,
		},
		barChart{
			file:   "accesos_por_tecnologia.png",
			title:  "Accesos de internet fijo por tecnología (histórico)",
			xLabel: "Tecnología", yLabel: accessesLabel,
			data: report.ByTechnology, rotate: true,
		},
		barChart{
			file:   "accesos_por_tipo_segmento.png",
			title:  "Accesos de internet fijo por tipo de segmento",
			xLabel: "Tipo de segmento", yLabel: accessesLabel,
			data: report.BySegmentType,
		},
		lineChart{
			file:   "evolucion_accesos_por_anio.png",
			title:  "Evolución de accesos de internet fijo por año",
			xLabel: "Año", yLabel: accessesLabel,
			years: years, series: []lineSeries{{name: "accesos", values: yearly}},
		},
		barChart{
			file:   "top10_municipios.png",
			title:  "Top 10 municipios por accesos de internet fijo",
			xLabel: "Municipio", yLabel: accessesLabel,
			data: report.TopMunicipalities, rotate: true,
		},
		barChart{
			file:   fmt.Sprintf("top10_departamentos_%d.png", report.LatestYear),
			title:  fmt.Sprintf("Top 10 departamentos por accesos en %d", report.LatestYear),
			xLabel: "Departamento", yLabel: accessesLabel,
			data: report.ByDepartmentLatest.Top(services.TopDepartments), rotate: true,
		},
		lineChart{
			file:   "evolucion_top3_tecnologias.png",
			title:  "Evolución de accesos por año (top 3 tecnologías)",
			xLabel: "Año", yLabel: accessesLabel,
			years: evolutionYears, series: evolution, legend: true,
		},
		barChart{
			file:   "velocidad_promedio_tecnologia_top8.png",
			title:  "Velocidad promedio de bajada por tecnología (top 8)",
			xLabel: "Tecnología", yLabel: "Velocidad promedio (Mbps)",
			data: report.MeanDownloadByTechnology.Top(services.TopSpeeds), rotate: true,
		},
		barChart{
			file:   "porcentaje_accesos_segmento.png",
			title:  "Porcentaje de accesos por tipo de segmento",
			xLabel: "Tipo de segmento", yLabel: "Porcentaje de accesos (%)",
			data: report.SegmentShare,
		},
	}

	var written []string
	for _, c := range charts {
		var (
			path string
			err  error
		)
		switch c := c.(type) {
		case barChart:
			path, err = r.saveBar(c)
		case lineChart:
			path, err = r.saveLine(c)
		}
		if errors.Is(err, errNoData) {
			r.logger.Warn("[charts] Skipping %s: no data", filepath.Base(path))
			continue
		}
		if err != nil {
			return written, err
		}
		r.logger.Debug("[charts] Wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}

func (r *Renderer) saveBar(c barChart) (string, error) {
	path := filepath.Join(r.dir, c.file)
	data := lo.Filter(c.data, func(e models.Entry, _ int) bool { return !math.IsNaN(e.Value) })
	if len(data) == 0 {
		return path, errNoData
	}

	p := r.newPlot(c.title, c.xLabel, c.yLabel)

	values := make(plotter.Values, len(data))
	for i, e := range data {
		values[i] = e.Value
	}
	bars, err := plotter.NewBarChart(values, r.barWidth(len(values)))
	if err != nil {
		return path, fmt.Errorf("charts: %s: %w", c.file, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(data.Keys()...)
	if c.rotate {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YTop
	}
	p.Y.Min = 0

	if err := p.Save(r.width, r.height, path); err != nil {
		return path, fmt.Errorf("charts: save %s: %w", c.file, err)
	}
	return path, nil
}

func (r *Renderer) saveLine(c lineChart) (string, error) {
	path := filepath.Join(r.dir, c.file)

	p := r.newPlot(c.title, c.xLabel, c.yLabel)
	p.Add(plotter.NewGrid())

	drawn := 0
	for i, s := range c.series {
		// Missing cells leave a gap in the table; the line joins the
		// neighbouring points instead.
		var pts plotter.XYs
		for k, year := range c.years {
			if v := s.values[k]; !math.IsNaN(v) {
				pts = append(pts, plotter.XY{X: float64(year), Y: v})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return path, fmt.Errorf("charts: %s: %w", c.file, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		if c.legend {
			p.Legend.Add(s.name, line, points)
		}
		drawn++
	}
	if drawn == 0 {
		return path, errNoData
	}

	p.Legend.Top = true
	p.X.Tick.Marker = yearTicks(c.years)

	if err := p.Save(r.width, r.height, path); err != nil {
		return path, fmt.Errorf("charts: save %s: %w", c.file, err)
	}
	return path, nil
}

func (r *Renderer) newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Y.Tick.Marker = groupedTicks{num: r.num}
	return p
}

// barWidth spreads the bars over roughly 70% of the figure width.
func (r *Renderer) barWidth(n int) vg.Length {
	w := r.width * 0.7 / vg.Length(n)
	return min(w, vg.Points(40))
}

// groupedTicks keeps the default tick positions and prints the labels with
// locale digit grouping.
type groupedTicks struct {
	num *message.Printer
}

func (t groupedTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		v := ticks[i].Value
		if v == math.Trunc(v) {
			ticks[i].Label = t.num.Sprintf("%.0f", v)
		} else {
			ticks[i].Label = t.num.Sprintf("%.2f", v)
		}
	}
	return ticks
}

func yearTicks(years []int) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(years))
	for i, y := range years {
		ticks[i] = plot.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}
	return ticks
}
