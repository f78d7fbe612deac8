// Package report writes experiment histograms as CSV and renders them as PNG
// plots and an HTML chart page.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/inference-sim/resampling/sim"
)

// csvHeader is the first line of every histogram CSV file.
var csvHeader = []string{"Value", "Expected Count", "Actual Count"}

// Row is one bucket of a histogram CSV file.
type Row struct {
	Value    float64 // bucket center
	Expected int
	Actual   int
}

// Rows converts a histogram into CSV rows, one per bucket.
func Rows(h *sim.Histogram) []Row {
	rows := make([]Row, len(h.Buckets))
	for i, b := range h.Buckets {
		rows[i] = Row{Value: b.Center, Expected: b.Expected, Actual: b.Actual}
	}
	return rows
}

// CSVPath returns the file a histogram phase is written to: <dir>/<label>.<phase>.csv.
func CSVPath(dir, label string, phase sim.Phase) string {
	return filepath.Join(dir, label+"."+string(phase)+".csv")
}

// WriteCSV writes the histogram to path, creating the parent directory.
func WriteCSV(path string, h *sim.Histogram) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()
	if err := EncodeCSV(f, Rows(h)); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// EncodeCSV writes the header and rows. Values use six decimal places.
func EncodeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			fmt.Sprintf("%f", r.Value),
			strconv.Itoa(r.Expected),
			strconv.Itoa(r.Actual),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a histogram CSV file written by WriteCSV.
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	rows, err := DecodeCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return rows, nil
}

// DecodeCSV parses the header and rows of a histogram CSV document.
func DecodeCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header")
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		return nil, errors.Errorf("unexpected header %q", records[0])
	}
	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		var row Row
		if row.Value, err = strconv.ParseFloat(rec[0], 64); err != nil {
			return nil, errors.Wrapf(err, "line %d: value", i+2)
		}
		if row.Expected, err = strconv.Atoi(rec[1]); err != nil {
			return nil, errors.Wrapf(err, "line %d: expected count", i+2)
		}
		if row.Actual, err = strconv.Atoi(rec[2]); err != nil {
			return nil, errors.Wrapf(err, "line %d: actual count", i+2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CSVSink writes each histogram phase to a CSV file under Dir.
type CSVSink struct {
	Dir string
}

// WriteHistogram implements sim.HistogramSink.
func (s CSVSink) WriteHistogram(label string, phase sim.Phase, h *sim.Histogram) (string, error) {
	path := CSVPath(s.Dir, label, phase)
	if err := WriteCSV(path, h); err != nil {
		return "", err
	}
	return path, nil
}

// Remove implements sim.HistogramSink. A file that is already gone is not an error.
func (s CSVSink) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", path)
	}
	return nil
}

// HistogramFile is a CSV file found in an output directory.
type HistogramFile struct {
	Path  string
	Label string
	Phase sim.Phase
}

// ListCSV finds the <label>.<phase>.csv files in dir, sorted by label then
// with the start phase before the end phase.
func ListCSV(dir string) ([]HistogramFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	files := make([]HistogramFile, 0, len(paths))
	for _, p := range paths {
		base := strings.TrimSuffix(filepath.Base(p), ".csv")
		dot := strings.LastIndex(base, ".")
		if dot <= 0 {
			continue
		}
		phase := sim.Phase(base[dot+1:])
		if phase != sim.PhaseStart && phase != sim.PhaseEnd {
			continue
		}
		files = append(files, HistogramFile{Path: p, Label: base[:dot], Phase: phase})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Label != files[j].Label {
			return files[i].Label < files[j].Label
		}
		return files[i].Phase == sim.PhaseStart && files[j].Phase == sim.PhaseEnd
	})
	return files, nil
}
