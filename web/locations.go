package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mtraver/gaelog"

	"github.com/Muhammad-Zunain/air-monitoring/airapi"
)

// locationsHandler serves controller locations along with a count of controllers per
// country, which is what the geography map is colored by.
type locationsHandler struct {
	Backend Backend
}

func (h locationsHandler) serve(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(newContext(r), defaultTimeout)
	defer cancel()

	start := time.Now()
	locs, err := h.Backend.ControllerLocations(ctx)
	if err != nil {
		return fmt.Errorf("fetching controller locations: %w", err)
	}
	gaelog.Infof(ctx, "Done getting controller locations; took %v", time.Since(start))

	if locs == nil {
		locs = []airapi.Location{}
	}

	respondJSON(w, r, http.StatusOK, struct {
		Locations []airapi.Location     `json:"locations"`
		Countries []airapi.CountryCount `json:"countries"`
	}{locs, airapi.CountByCountry(locs)})
	return nil
}
