// Package charts renders pack simulation statistics as interactive HTML
// charts.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string // Chart title
	Subtitle   string // Chart subtitle
	SeriesName string // Name of the data series
	Width      string // Chart width (e.g., "900px")
	Height     string // Chart height (e.g., "500px")
	Theme      string // Chart theme
	Color      string // Bar color
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "",
		Subtitle:   "",
		SeriesName: "Cards",
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		Color:      "#5470C6",
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// RenderBarChart writes an interactive bar chart as a standalone HTML page.
func RenderBarChart(w io.Writer, data []DataPoint, config ChartConfig) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Color,
		}),
	)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries(config.SeriesName, yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(true),
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
