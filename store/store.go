// Package store holds the dashboard's client-side state: the last batch of readings
// fetched from the backend and the stats derived from it.
//
// A Store is an ordinary value owned by whoever creates it. Readers get a Snapshot,
// which is never modified after it's published; a refresh builds a new Snapshot and
// swaps it in whole.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/stats"
)

// ErrNoData is returned by Ready when no fetch has succeeded yet.
var ErrNoData = errors.New("store: no data fetched yet")

type Snapshot struct {
	// Readings have their display Date and Time set.
	Readings  []measurement.Reading
	Stats     map[measurement.Type][]stats.DerivedStat
	FetchedAt time.Time

	// Err is the error from the most recent fetch, if it failed. Readings are then
	// from the last fetch that succeeded.
	Err     error
	Loading bool
}

// Ready returns nil if the snapshot has data to show.
func (s Snapshot) Ready() error {
	if s.FetchedAt.IsZero() {
		if s.Err != nil {
			return errors.Join(ErrNoData, s.Err)
		}
		return ErrNoData
	}
	return nil
}

type Store struct {
	loc *time.Location

	mu   sync.RWMutex
	snap *Snapshot
}

// New returns an empty Store. Display dates and times are derived in loc.
func New(loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{
		loc:  loc,
		snap: &Snapshot{Stats: map[measurement.Type][]stats.DerivedStat{}},
	}
}

func (s *Store) Location() *time.Location {
	return s.loc
}

// Snapshot returns the current state. The caller must not modify the readings.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return *s.snap
}

// SetLoading marks a fetch as in flight.
func (s *Store) SetLoading() {
	s.update(func(snap *Snapshot) {
		snap.Loading = true
	})
}

// SetData replaces the readings with a freshly fetched batch and recomputes every
// derived stat. The batch is copied, so the caller may reuse it.
func (s *Store) SetData(readings []measurement.Reading, fetchedAt time.Time) {
	prepared := make([]measurement.Reading, len(readings))
	for i, r := range readings {
		prepared[i] = r.WithDisplayTime(s.loc)
	}

	next := &Snapshot{
		Readings:  prepared,
		Stats:     stats.ComputeAll(prepared),
		FetchedAt: fetchedAt,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = next
}

// SetError records a failed fetch. The previous readings stay in place.
func (s *Store) SetError(err error) {
	s.update(func(snap *Snapshot) {
		snap.Err = err
		snap.Loading = false
	})
}

// update copies the current snapshot, applies f to the copy and publishes it.
func (s *Store) update(f func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.snap
	f(&next)
	s.snap = &next
}
