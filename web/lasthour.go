package main

import (
	"net/http"
	"time"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/store"
)

const maxWindow = 24 * time.Hour

// lastHourHandler serves half-hourly averages over the hour, or the given window,
// before the most recent fetch.
type lastHourHandler struct {
	Store *store.Store
}

func (h lastHourHandler) serve(w http.ResponseWriter, r *http.Request) error {
	snap := h.Store.Snapshot()
	if err := snap.Ready(); err != nil {
		return newError(http.StatusServiceUnavailable, "No data yet")
	}

	window := time.Hour
	if s := r.FormValue("window"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d < measurement.BucketDuration || d > maxWindow {
			return newError(http.StatusBadRequest, "Bad window: %q", s)
		}
		window = d
	}

	buckets := measurement.HalfHourlyAverages(snap.Readings, snap.FetchedAt, window)
	respondJSON(w, r, http.StatusOK, buckets)
	return nil
}
