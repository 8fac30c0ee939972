// Package report renders grouping results as self-contained HTML charts
// and plan-view PNG plots for quick visual inspection of a run.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lumen-data/multiphase/internal/catalog"
	"github.com/lumen-data/multiphase/internal/grouping"
	"github.com/lumen-data/multiphase/internal/model"
)

// viridis is the color ramp used for group membership across all charts.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// WriteGroupPage renders a plan-view scatter of aperture centers colored
// by group plus a bar chart of group sizes, as one HTML page. Apertures
// not covered by any record plot as group index 0 (the static set).
func WriteGroupPage(w io.Writer, m *model.Model, records []grouping.GroupRecord, title string) error {
	groupIdx := make(map[string]int)
	for i, rec := range records {
		for _, ap := range rec.Apertures {
			// Group 0 is reserved for static apertures.
			groupIdx[ap] = i + 1
		}
	}

	apertures := m.Apertures()
	data := make([]opts.ScatterData, 0, len(apertures))
	maxAbs := 0.0
	staticCount := 0
	for _, ap := range apertures {
		c := ap.Center()
		if math.Abs(c.X) > maxAbs {
			maxAbs = math.Abs(c.X)
		}
		if math.Abs(c.Y) > maxAbs {
			maxAbs = math.Abs(c.Y)
		}
		idx, ok := groupIdx[ap.Identifier]
		if !ok {
			staticCount++
		}
		data = append(data, opts.ScatterData{
			Name:  ap.Identifier,
			Value: []interface{}{c.X, c.Y, idx},
		})
	}

	// Add a small padding so points at the edges are visible
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("model=%s groups=%d apertures=%d static=%d", m.Identifier, len(records), len(apertures), staticCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(len(records)),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("apertures", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	names := make([]string, 0, len(records))
	sizes := make([]opts.BarData, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Identifier)
		sizes = append(sizes, opts.BarData{Value: len(rec.Apertures)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Apertures per group"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("apertures", sizes,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(scatter, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render group page: %w", err)
	}
	return nil
}

// WriteSweepChart renders group count against clustering threshold for a
// sweep of the same model.
func WriteSweepChart(w io.Writer, points []catalog.SweepPoint, title string) error {
	data := make([]opts.ScatterData, 0, len(points))
	maxThreshold := 0.0
	maxGroups := 0
	for _, p := range points {
		if p.Threshold > maxThreshold {
			maxThreshold = p.Threshold
		}
		if p.GroupCount > maxGroups {
			maxGroups = p.GroupCount
		}
		data = append(data, opts.ScatterData{Value: []interface{}{p.Threshold, p.GroupCount}})
	}
	if maxThreshold == 0 {
		maxThreshold = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("samples=%d", len(points)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: maxThreshold * 1.05, Name: "RMSE threshold", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: float64(maxGroups + 1), Name: "Groups", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("groups", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render sweep chart: %w", err)
	}
	return nil
}
