package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/store"
)

// RefreshJob fetches all readings from the backend and publishes them to the store.
// It implements cron.Job.
type RefreshJob struct {
	Backend Backend
	Store   *store.Store
	Timeout time.Duration

	// Sink, if not nil, gets every reading newer than the newest one it was given
	// on a previous run.
	Sink   Sink
	Logger *slog.Logger

	// lastSynced is only touched by Run, which cron never runs concurrently with
	// itself when wrapped in cron.SkipIfStillRunning.
	lastSynced *time.Time
}

func NewRefreshJob(backend Backend, st *store.Store, sink Sink, timeout time.Duration, logger *slog.Logger) *RefreshJob {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &RefreshJob{
		Backend:    backend,
		Store:      st,
		Timeout:    timeout,
		Sink:       sink,
		Logger:     logger,
		lastSynced: new(time.Time),
	}
}

func (j *RefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.Timeout)
	defer cancel()

	start := time.Now()
	j.Store.SetLoading()
	readings, err := j.Backend.FetchAirData(ctx)
	if err != nil {
		j.Logger.Error("Failed to fetch air data", "error", err)
		j.Store.SetError(err)
		return
	}

	j.Store.SetData(readings, time.Now())
	j.Logger.Info("Refreshed air data", "readings", len(readings), "took", time.Since(start))

	if n := j.Backend.CleanCache(); n > 0 {
		j.Logger.Debug("Cleaned response cache", "removed", n)
	}

	if j.Sink != nil {
		j.sync(ctx, readings)
	}
}

func (j *RefreshJob) sync(ctx context.Context, readings []measurement.Reading) {
	var fresh []measurement.Reading
	newest := *j.lastSynced
	for _, r := range readings {
		if r.Timestamp.After(*j.lastSynced) {
			fresh = append(fresh, r)
			if r.Timestamp.After(newest) {
				newest = r.Timestamp
			}
		}
	}

	if len(fresh) == 0 {
		return
	}

	if err := j.Sink.Save(ctx, fresh); err != nil {
		j.Logger.Error("Failed to mirror readings", "error", err, "readings", len(fresh))
		return
	}

	*j.lastSynced = newest
	j.Logger.Debug("Mirrored readings", "readings", len(fresh), "newest", newest)
}
