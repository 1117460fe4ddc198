package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

func floatPtr(f float64) *float64 {
	return &f
}

var fetchedAt = time.Date(2024, time.March, 5, 16, 0, 0, 0, time.UTC)

func testReadings() []measurement.Reading {
	return []measurement.Reading{
		{ID: "1", Timestamp: time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC), Temperature: floatPtr(20)},
		{ID: "2", Timestamp: time.Date(2024, time.March, 5, 13, 30, 0, 0, time.UTC), Temperature: floatPtr(25)},
		{ID: "3", Timestamp: time.Date(2024, time.March, 5, 15, 45, 0, 0, time.UTC), Temperature: floatPtr(22)},
	}
}

func TestEmpty(t *testing.T) {
	s := New(nil)
	snap := s.Snapshot()

	if !errors.Is(snap.Ready(), ErrNoData) {
		t.Errorf("got %v, want ErrNoData", snap.Ready())
	}
	if len(snap.Readings) != 0 {
		t.Errorf("got %d readings, want 0", len(snap.Readings))
	}
}

func TestSetData(t *testing.T) {
	s := New(time.UTC)
	in := testReadings()
	s.SetLoading()
	s.SetData(in, fetchedAt)

	snap := s.Snapshot()
	if err := snap.Ready(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if snap.Loading {
		t.Errorf("Expected loading to be cleared")
	}

	var got []string
	for _, r := range snap.Readings {
		got = append(got, r.Date+" "+r.Time)
	}
	want := []string{"2024-03-05 09:00 AM", "2024-03-05 01:30 PM", "2024-03-05 03:45 PM"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Unexpected result (-got +want):\n%s", diff)
	}

	temp := snap.Stats[measurement.Temperature]
	if len(temp) != 3 || temp[0].Value != "22°C" || temp[1].Value != "25°C" || temp[2].Value != "20°C" {
		t.Errorf("Unexpected temperature stats: %+v", temp)
	}
	if len(snap.Stats[measurement.Dust]) != 0 {
		t.Errorf("Expected no dust stats, got %+v", snap.Stats[measurement.Dust])
	}

	// The input slice is not retained.
	in[0].ID = "changed"
	if s.Snapshot().Readings[0].ID != "1" {
		t.Errorf("Store shares the caller's slice")
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	s := New(time.UTC)
	s.SetData(testReadings(), fetchedAt)
	before := s.Snapshot()

	s.SetData(testReadings()[:1], fetchedAt.Add(time.Minute))

	if len(before.Readings) != 3 {
		t.Errorf("Old snapshot changed: got %d readings, want 3", len(before.Readings))
	}
	if got := len(s.Snapshot().Readings); got != 1 {
		t.Errorf("got %d readings, want 1", got)
	}
}

func TestSetError(t *testing.T) {
	fetchErr := errors.New("connection refused")

	t.Run("before_data", func(t *testing.T) {
		s := New(time.UTC)
		s.SetError(fetchErr)

		err := s.Snapshot().Ready()
		if !errors.Is(err, ErrNoData) || !errors.Is(err, fetchErr) {
			t.Errorf("got %v, want both ErrNoData and the fetch error", err)
		}
	})

	t.Run("keeps_data", func(t *testing.T) {
		s := New(time.UTC)
		s.SetData(testReadings(), fetchedAt)
		s.SetLoading()
		s.SetError(fetchErr)

		snap := s.Snapshot()
		if snap.Ready() != nil {
			t.Errorf("Expected old data to stay ready, got %v", snap.Ready())
		}
		if snap.Err != fetchErr || snap.Loading {
			t.Errorf("got (err %v, loading %v), want (%v, false)", snap.Err, snap.Loading, fetchErr)
		}
		if len(snap.Readings) != 3 {
			t.Errorf("got %d readings, want 3", len(snap.Readings))
		}
	})

	t.Run("cleared_by_success", func(t *testing.T) {
		s := New(time.UTC)
		s.SetError(fetchErr)
		s.SetData(testReadings(), fetchedAt)

		if err := s.Snapshot().Err; err != nil {
			t.Errorf("got %v, want nil", err)
		}
	})
}

func TestConcurrentAccess(t *testing.T) {
	s := New(time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetData(testReadings(), fetchedAt)
		}()
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			if n := len(snap.Readings); n != 0 && n != 3 {
				t.Errorf("Saw a partial snapshot with %d readings", n)
			}
		}()
	}
	wg.Wait()
}
