package airapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/stats"
)

var ErrNotBin = errors.New("airapi: firmware file must have a .bin extension")

// AirData fetches every reading the backend has, oldest first.
func (client *Client) AirData(ctx context.Context) ([]measurement.Reading, error) {
	var readings []measurement.Reading
	if err := client.get(ctx, "/get-air-data", nil, &readings); err != nil {
		return nil, err
	}

	client.log(ctx, slog.LevelDebug, "Air data fetched", "count", len(readings))
	return readings, nil
}

// FetchAirData is AirData without the cache lookup, for callers that poll and must see
// every change. The response is still cached for AirData.
func (client *Client) FetchAirData(ctx context.Context) ([]measurement.Reading, error) {
	var readings []measurement.Reading
	if err := client.fetch(ctx, "/get-air-data", nil, &readings, true); err != nil {
		return nil, err
	}

	client.log(ctx, slog.LevelDebug, "Air data fetched", "count", len(readings), "fresh", true)
	return readings, nil
}

// MonthlyAverages fetches the backend's per-month averages of type t for year. The
// backend keys months by English name; months it leaves out come back with a zero
// Average. Count is always zero since the backend doesn't report it.
func (client *Client) MonthlyAverages(ctx context.Context, year int, t measurement.Type) ([]measurement.MonthlyAverage, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	query.Set("type", t.String())

	// Each month is an object keyed by type name, which is the shape of a Reading.
	var byMonth map[string]measurement.Reading
	if err := client.get(ctx, "/get-monthly-averages", query, &byMonth); err != nil {
		return nil, err
	}

	avgs := make([]measurement.MonthlyAverage, 12)
	for i := range avgs {
		avgs[i].Month = time.Month(i + 1)
	}

	for name, r := range byMonth {
		m, err := time.Parse("January", name)
		if err != nil {
			client.log(ctx, slog.LevelWarn, "Skipping unknown month", "month", name)
			continue
		}
		if v, ok := r.Value(t); ok {
			avgs[m.Month()-1].Average = v
		}
	}

	return avgs, nil
}

// StatData fetches the stat cards the backend derives itself. Entries for types this
// client doesn't know are dropped.
func (client *Client) StatData(ctx context.Context) (map[measurement.Type][]stats.DerivedStat, error) {
	var raw map[string][]stats.DerivedStat
	if err := client.get(ctx, "/get-stat-data/", nil, &raw); err != nil {
		return nil, err
	}

	out := make(map[measurement.Type][]stats.DerivedStat, len(raw))
	for name, s := range raw {
		t, err := measurement.ParseType(name)
		if err != nil {
			client.log(ctx, slog.LevelWarn, "Skipping stats for unknown type", "type", name)
			continue
		}
		out[t] = s
	}
	return out, nil
}

// HalfHourlyAverages fetches the backend's half-hour buckets for the last hour.
func (client *Client) HalfHourlyAverages(ctx context.Context) ([]measurement.Bucket, error) {
	var buckets []measurement.Bucket
	if err := client.get(ctx, "/get-data-last-hour", nil, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// ControllerLocations fetches where each sensor controller is installed.
func (client *Client) ControllerLocations(ctx context.Context) ([]Location, error) {
	var locs []Location
	if err := client.get(ctx, "/get-controllers-location/", nil, &locs); err != nil {
		return nil, err
	}
	return locs, nil
}

// UploadFirmware sends a firmware image to the backend, which flashes it onto the
// controllers. name must end in ".bin".
func (client *Client) UploadFirmware(ctx context.Context, name string, r io.Reader) error {
	if !strings.EqualFold(filepath.Ext(name), ".bin") {
		return fmt.Errorf("%w: %q", ErrNotBin, name)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return fmt.Errorf("airapi: failed to create form file: %w", err)
	}
	n, err := io.Copy(part, r)
	if err != nil {
		return fmt.Errorf("airapi: failed to read firmware: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("airapi: failed to finish form: %w", err)
	}

	const path = "upload-bin-file"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.url(path, nil), &buf)
	if err != nil {
		return fmt.Errorf("airapi: failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", mw.FormDataContentType())

	if _, err := client.do(request, path); err != nil {
		return err
	}

	client.log(ctx, slog.LevelInfo, "Firmware uploaded", "file", name, "bytes", n)
	return nil
}
