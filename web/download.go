package main

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/store"
)

// downloadHandler serves the readings as a CSV report, optionally only one day's.
type downloadHandler struct {
	Store *store.Store
}

func (h downloadHandler) serve(w http.ResponseWriter, r *http.Request) error {
	snap := h.Store.Snapshot()
	if err := snap.Ready(); err != nil {
		return newError(http.StatusServiceUnavailable, "No data yet")
	}

	date, err := parseDate(r, "date")
	if err != nil {
		return err
	}

	readings := snap.Readings
	name := "air-report.csv"
	if date != "" {
		readings = measurement.ForDate(readings, date)
		name = fmt.Sprintf("air-report-%s.csv", date)
	}

	// Buffer so that a write error can still become a proper error response.
	var buf bytes.Buffer
	if err := measurement.WriteCSV(&buf, readings); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, err = buf.WriteTo(w)
	return err
}
