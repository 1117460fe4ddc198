package main

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/mtraver/gaelog"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/store"
)

// monthlyRequest parses the year and type shared by the monthly endpoints and averages
// the snapshot's readings accordingly.
func monthlyRequest(r *http.Request, st *store.Store, defaultYear int) (int, measurement.Type, []measurement.MonthlyAverage, error) {
	snap := st.Snapshot()
	if err := snap.Ready(); err != nil {
		return 0, 0, nil, newError(http.StatusServiceUnavailable, "No data yet")
	}

	year, err := parseYear(r, "year", defaultYear)
	if err != nil {
		return 0, 0, nil, err
	}
	t, err := parseType(r, "type", measurement.Temperature)
	if err != nil {
		return 0, 0, nil, err
	}

	return year, t, measurement.MonthlyAverages(snap.Readings, year, t), nil
}

type monthlyHandler struct {
	Store       *store.Store
	DefaultYear int
}

func (h monthlyHandler) serve(w http.ResponseWriter, r *http.Request) error {
	year, t, avgs, err := monthlyRequest(r, h.Store, h.DefaultYear)
	if err != nil {
		return err
	}

	respondJSON(w, r, http.StatusOK, struct {
		Year   int                          `json:"year"`
		Type   measurement.Type             `json:"type"`
		Unit   string                       `json:"unit"`
		Months []measurement.MonthlyAverage `json:"months"`
	}{year, t, t.Unit(), avgs})
	return nil
}

// monthlyChartHandler renders the monthly averages as a PNG bar chart.
type monthlyChartHandler struct {
	Store       *store.Store
	DefaultYear int
}

func (h monthlyChartHandler) serve(w http.ResponseWriter, r *http.Request) error {
	year, t, avgs, err := monthlyRequest(r, h.Store, h.DefaultYear)
	if err != nil {
		return err
	}

	png, err := renderMonthlyChart(year, t, avgs)
	if err != nil {
		return err
	}

	gaelog.Infof(newContext(r), "Rendered %v chart for %d (%d bytes)", t, year, len(png))
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, err = w.Write(png)
	return err
}

func renderMonthlyChart(year int, t measurement.Type, avgs []measurement.MonthlyAverage) ([]byte, error) {
	lo, hi := 0.0, 0.0
	found := false
	bars := make([]chart.Value, len(avgs))
	for i, m := range avgs {
		bars[i] = chart.Value{Value: m.Average, Label: m.Month.String()[:3]}
		if m.Count > 0 {
			found = true
			lo = math.Min(lo, m.Average)
			hi = math.Max(hi, m.Average)
		}
	}

	if !found {
		return nil, newError(http.StatusNotFound, "No %v readings in %d", t, year)
	}

	// go-chart can't draw a zero-height range.
	if hi == lo {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("Average %v by month, %d", t, year),
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Name:  t.Unit(),
			Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return buf.Bytes(), nil
}
