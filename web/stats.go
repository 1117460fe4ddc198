package main

import (
	"net/http"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/stats"
	"github.com/Muhammad-Zunain/air-monitoring/store"
)

type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

func summaryStats(readings []measurement.Reading) map[measurement.Type]Stats {
	min := measurement.Min(readings)
	max := measurement.Max(readings)
	mean := measurement.Mean(readings)
	stdDev := measurement.StdDev(readings)

	summary := make(map[measurement.Type]Stats)
	for t := range mean {
		summary[t] = Stats{
			Min:    min[t],
			Max:    max[t],
			Mean:   mean[t],
			StdDev: stdDev[t],
		}
	}

	return summary
}

// statsHandler serves stat cards as JSON. With a type parameter it returns that type's
// cards; without, an object keyed by type name. A date parameter restricts the readings
// to that day.
type statsHandler struct {
	Store *store.Store
}

func (h statsHandler) serve(w http.ResponseWriter, r *http.Request) error {
	snap := h.Store.Snapshot()
	if err := snap.Ready(); err != nil {
		return newError(http.StatusServiceUnavailable, "No data yet")
	}

	date, err := parseDate(r, "date")
	if err != nil {
		return err
	}

	readings := snap.Readings
	all := snap.Stats
	if date != "" {
		readings = measurement.ForDate(readings, date)
		all = stats.ComputeAll(readings)
	}

	if r.FormValue("type") == "" {
		// Copy rather than fill in the snapshot's map, which other readers share.
		out := make(map[measurement.Type][]stats.DerivedStat, len(all))
		for _, t := range measurement.Types() {
			out[t] = all[t]
			if out[t] == nil {
				out[t] = []stats.DerivedStat{}
			}
		}
		respondJSON(w, r, http.StatusOK, out)
		return nil
	}

	t, err := parseType(r, "type", measurement.Temperature)
	if err != nil {
		return err
	}

	cards := all[t]
	if cards == nil {
		cards = []stats.DerivedStat{}
	}
	respondJSON(w, r, http.StatusOK, cards)
	return nil
}
