package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Muhammad-Zunain/air-monitoring/airapi"
	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/store"
)

type fakeSink struct {
	saved [][]measurement.Reading
	err   error
}

func (s *fakeSink) Save(ctx context.Context, readings []measurement.Reading) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, readings)
	return nil
}

func ids(readings []measurement.Reading) []string {
	var out []string
	for _, r := range readings {
		out = append(out, r.ID)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefreshJob(t *testing.T) {
	backend := &fakeBackend{readings: testReadings()[:2]}
	sink := &fakeSink{}
	st := store.New(time.UTC)
	job := NewRefreshJob(backend, st, sink, 0, discardLogger())

	job.Run()

	snap := st.Snapshot()
	if err := snap.Ready(); err != nil {
		t.Fatalf("Store not ready after a successful run: %v", err)
	}
	if snap.Loading {
		t.Errorf("Store still loading after run")
	}
	if diff := cmp.Diff(ids(snap.Readings), []string{"1", "2"}); diff != "" {
		t.Errorf("Unexpected readings (-got +want):\n%s", diff)
	}
	if len(snap.Stats[measurement.Temperature]) != 3 {
		t.Errorf("got %d temperature stats, want 3", len(snap.Stats[measurement.Temperature]))
	}

	// A second run with nothing new doesn't write to the sink.
	job.Run()

	backend.readings = testReadings()
	job.Run()

	want := [][]string{{"1", "2"}, {"3", "4"}}
	var got [][]string
	for _, batch := range sink.saved {
		got = append(got, ids(batch))
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Unexpected sink writes (-got +want):\n%s", diff)
	}
	if backend.calls != 3 {
		t.Errorf("got %d fetches, want 3", backend.calls)
	}
}

func TestRefreshJobErrors(t *testing.T) {
	backend := &fakeBackend{readings: testReadings()}
	sink := &fakeSink{err: errors.New("influx down")}
	st := store.New(time.UTC)
	job := NewRefreshJob(backend, st, sink, time.Second, discardLogger())

	job.Run()
	if len(sink.saved) != 0 {
		t.Fatalf("Unexpected sink writes: %v", sink.saved)
	}

	// Readings that failed to sync are retried on the next run.
	sink.err = nil
	job.Run()
	if len(sink.saved) != 1 || len(sink.saved[0]) != 4 {
		t.Errorf("got sink writes %v, want one batch of 4", sink.saved)
	}

	// A failed fetch keeps the last good readings and records the error.
	backend.err = errors.New("backend down")
	job.Run()

	snap := st.Snapshot()
	if err := snap.Ready(); err != nil {
		t.Errorf("Store lost its readings after a failed fetch: %v", err)
	}
	if !errors.Is(snap.Err, backend.err) {
		t.Errorf("got error %v, want %v", snap.Err, backend.err)
	}
	if len(snap.Readings) != 4 {
		t.Errorf("got %d readings, want 4", len(snap.Readings))
	}
}

// Each run must publish what the backend has now, even while the client's response
// cache still holds the previous body.
func TestRefreshJobBypassesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		fmt.Fprintf(w, `{"data":[{"_id":"%d","timestamp":"2024-03-05T15:00:00Z","temperature":%d}]}`, n, 20+n)
	}))
	defer srv.Close()

	client := airapi.New(airapi.Config{
		BaseURL:  srv.URL,
		CacheTTL: airapi.DefaultCacheTTL,
	})
	st := store.New(time.UTC)
	job := NewRefreshJob(client, st, nil, time.Second, discardLogger())

	for _, want := range []float64{21, 22, 23} {
		job.Run()

		snap := st.Snapshot()
		if err := snap.Ready(); err != nil {
			t.Fatalf("Store not ready: %v", err)
		}
		got := measurement.Values(snap.Readings, measurement.Temperature)
		if diff := cmp.Diff(got, []float64{want}); diff != "" {
			t.Errorf("Unexpected result (-got +want):\n%s", diff)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("got %d requests, want 3", got)
	}
}
