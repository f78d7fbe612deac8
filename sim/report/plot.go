package report

import (
	"image/color"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	actualFill    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	expectedColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// PNGPath returns the image path for a CSV file: the same name with .png.
func PNGPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".png"
}

// NewPlot draws the actual bucket counts as a histogram with the expected
// counts overlaid as a line.
func NewPlot(title string, rows []Row) (*plot.Plot, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to plot")
	}
	width := 1.0
	if len(rows) > 1 {
		width = rows[1].Value - rows[0].Value
	}
	if width <= 0 {
		// Degenerate range: every bucket shares one center.
		width = 1
	}

	bins := make([]plotter.HistogramBin, len(rows))
	expected := make(plotter.XYs, len(rows))
	for i, r := range rows {
		bins[i] = plotter.HistogramBin{Min: r.Value - width/2, Max: r.Value + width/2, Weight: float64(r.Actual)}
		expected[i].X = r.Value
		expected[i].Y = float64(r.Expected)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Value"
	p.Y.Label.Text = "Count"
	p.Add(plotter.NewGrid())

	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     width,
		FillColor: actualFill,
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(hist)
	p.Legend.Add("actual", hist)

	line, err := plotter.NewLine(expected)
	if err != nil {
		return nil, errors.Wrap(err, "expected-count line")
	}
	line.Color = expectedColor
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("expected", line)
	p.Legend.Top = true

	return p, nil
}

// SavePNG renders rows to a 6x4 inch PNG at path.
func SavePNG(path, title string, rows []Row) error {
	p, err := NewPlot(title, rows)
	if err != nil {
		return errors.Wrap(err, path)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

// PlotDir renders every histogram CSV in dir to a PNG next to it and returns
// the written paths.
func PlotDir(dir string) ([]string, error) {
	files, err := ListCSV(dir)
	if err != nil {
		return nil, err
	}
	written := make([]string, 0, len(files))
	for _, f := range files {
		rows, err := ReadCSV(f.Path)
		if err != nil {
			return written, err
		}
		out := PNGPath(f.Path)
		if err := SavePNG(out, f.Label+" "+string(f.Phase), rows); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}
