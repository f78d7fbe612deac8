package report

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/pkg/errors"
)

// ChartInput is one histogram phase to draw on the HTML page.
type ChartInput struct {
	Title string
	Rows  []Row
}

// newHistogramChart draws actual counts as bars with the expected counts as
// an overlaid line.
func newHistogramChart(in ChartInput) *charts.Bar {
	labels := make([]string, len(in.Rows))
	actual := make([]opts.BarData, len(in.Rows))
	expected := make([]opts.LineData, len(in.Rows))
	for i, r := range in.Rows {
		labels[i] = strconv.FormatFloat(r.Value, 'f', 3, 64)
		actual[i] = opts.BarData{Value: r.Actual}
		expected[i] = opts.LineData{Value: r.Expected}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme:     types.ThemeWesteros,
		PageTitle: in.Title,
	}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithTitleOpts(opts.Title{
			Title: in.Title,
		}))
	bar.SetXAxis(labels).AddSeries("Actual", actual)

	line := charts.NewLine()
	line.SetXAxis(labels).AddSeries("Expected", expected,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "orange", Width: 2}))
	bar.Overlap(line)
	return bar
}

// WriteHTML renders one chart per input onto a single page.
func WriteHTML(w io.Writer, inputs []ChartInput) error {
	if len(inputs) == 0 {
		return errors.New("no histograms to chart")
	}
	page := components.NewPage()
	page.PageTitle = "Resampling histograms"
	for _, in := range inputs {
		page.AddCharts(newHistogramChart(in))
	}
	return errors.Wrap(page.Render(w), "rendering chart page")
}

// ChartDir builds chart inputs from every histogram CSV in dir.
func ChartDir(dir string) ([]ChartInput, error) {
	files, err := ListCSV(dir)
	if err != nil {
		return nil, err
	}
	inputs := make([]ChartInput, 0, len(files))
	for _, f := range files {
		rows, err := ReadCSV(f.Path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, ChartInput{Title: f.Label + " " + string(f.Phase), Rows: rows})
	}
	return inputs, nil
}
