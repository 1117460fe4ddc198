package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/mtraver/gaelog"

	"github.com/Muhammad-Zunain/air-monitoring/aqi"
	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/stats"
	"github.com/Muhammad-Zunain/air-monitoring/store"
)

// rootHandler renders the dashboard for one day: stat cards for each measurement type,
// summary statistics, the dust AQI and a table of that day's readings.
type rootHandler struct {
	Store    *store.Store
	Template *template.Template
}

// cardGroup is the stat cards of one type, in the order they're displayed.
type cardGroup struct {
	Type  measurement.Type
	Cards []stats.DerivedStat
}

func (h rootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Ensure that we only serve the root.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ctx := newContext(r)
	snap := h.Store.Snapshot()

	latestDate := measurement.LatestDate(snap.Readings)
	date := latestDate
	if d := r.FormValue("date"); d != "" {
		date = d
	}

	if r.Method == http.MethodPost {
		switch formName := r.FormValue("form-name"); formName {
		case "date":
			if _, err := time.Parse(measurement.DateLayout, date); err != nil {
				http.Error(w, fmt.Sprintf("Bad date: %v", err), http.StatusBadRequest)
				return
			}
		case "latest":
			date = latestDate
		default:
			http.Error(w, "Unknown form name", http.StatusBadRequest)
			return
		}
	}

	day := measurement.ForDate(snap.Readings, date)

	var wg sync.WaitGroup

	var cards []cardGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()

		for _, t := range measurement.Types() {
			cards = append(cards, cardGroup{Type: t, Cards: stats.Compute(day, t)})
		}

		gaelog.Infof(ctx, "Done computing stat cards; took %v", time.Since(start))
	}()

	var summary map[measurement.Type]Stats
	jsonBytes := []byte{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()

		summary = summaryStats(day)

		var err error
		jsonBytes, err = readingsToJSON(day)
		if err != nil {
			gaelog.Errorf(ctx, "Error marshaling readings to JSON: %v", err)
		}

		gaelog.Infof(ctx, "Done computing summary; took %v", time.Since(start))
	}()

	wg.Wait()

	var dustLevel *aqi.Level
	if vals := measurement.Values(day, measurement.Dust); len(vals) > 0 {
		l := aqi.DustLevel(vals[len(vals)-1])
		dustLevel = &l
	}

	data := struct {
		Date      string
		Dates     []string
		Cards     []cardGroup
		Summary   map[measurement.Type]Stats
		DustAQI   *aqi.Level
		Readings  []measurement.Reading
		Plot      template.JS
		FetchedAt time.Time
		Loading   bool
		Error     error
	}{
		Date:      date,
		Dates:     measurement.Dates(snap.Readings),
		Cards:     cards,
		Summary:   summary,
		DustAQI:   dustLevel,
		Readings:  day,
		Plot:      template.JS(jsonBytes),
		FetchedAt: snap.FetchedAt,
		Loading:   snap.Loading,
		Error:     snap.Ready(),
	}
	if data.Error == nil {
		data.Error = snap.Err
	}

	if err := h.Template.ExecuteTemplate(w, "index", data); err != nil {
		gaelog.Errorf(ctx, "Could not execute template: %v", err)
	}
}

// plotPoint is one value on a plot. The JSON keys are short because the page
// embeds a point for every reading of the day.
type plotPoint struct {
	// Offset from the epoch in milliseconds.
	Timestamp int64   `json:"ts"`
	Value     float64 `json:"v"`
}

// readingsToJSON converts readings into a JSON array with one element per measurement
// type, each holding that type's values in order. Types come out in the order of
// measurement.Types so each always gets the same plot color.
func readingsToJSON(readings []measurement.Reading) ([]byte, error) {
	type series struct {
		ID     string      `json:"id"`
		Unit   string      `json:"unit"`
		Values []plotPoint `json:"values"`
	}

	data := make([]series, 0, len(measurement.Types()))
	for _, t := range measurement.Types() {
		vals := []plotPoint{}
		for _, r := range readings {
			if v, ok := r.Value(t); ok {
				vals = append(vals, plotPoint{r.Timestamp.UnixMilli(), v})
			}
		}
		data = append(data, series{t.String(), t.Unit(), vals})
	}
	return json.Marshal(data)
}
