package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"tour-analytics/internal/models"
	"tour-analytics/internal/observability"
)

// ErrAnalyticsUnavailable is wrapped by every error returned from Snapshot.
// Callers test for it with errors.Is.
var ErrAnalyticsUnavailable = errors.New("analytics data unavailable")

// Source provides the raw collections analytics are computed from.
type Source interface {
	Tours(ctx context.Context) ([]models.Tour, error)
	Contacts(ctx context.Context) ([]models.Contact, error)
	Tourists(ctx context.Context) ([]models.Tourist, error)
	Applications(ctx context.Context) ([]models.Application, error)
}

type dataset struct {
	tours        []models.Tour
	contacts     []models.Contact
	tourists     []models.Tourist
	applications []models.Application
}

type loadInfo struct {
	at       time.Time
	duration time.Duration
	records  models.RecordCounts
	err      string
}

// Analytics fetches fresh data for every snapshot; nothing is kept between
// calls except bookkeeping for Stats. Requests that arrive while a load is
// in flight share its result.
type Analytics struct {
	source Source
	logger *slog.Logger
	group  singleflight.Group
	now    func() time.Time

	loads     atomic.Int64
	failures  atomic.Int64
	shared    atomic.Int64
	abandoned atomic.Int64

	mu   sync.RWMutex
	last loadInfo
}

func NewAnalytics(source Source, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot fetches all collections concurrently and aggregates them. If any
// fetch fails no snapshot is produced and the error wraps
// ErrAnalyticsUnavailable.
//
// The load itself runs detached so that callers sharing it are unaffected
// when one of them goes away; a caller whose ctx ends stops waiting and
// gets ctx's error.
func (a *Analytics) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	loadCtx := context.WithoutCancel(ctx)

	ch := a.group.DoChan("snapshot", func() (any, error) {
		return a.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			a.shared.Add(1)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Snapshot), nil
	case <-ctx.Done():
		a.abandoned.Add(1)
		return nil, fmt.Errorf("%w: %w", ErrAnalyticsUnavailable, ctx.Err())
	}
}

func (a *Analytics) load(ctx context.Context) (*models.Snapshot, error) {
	start := a.now()
	a.loads.Add(1)

	ds, err := a.fetchAll(ctx)
	duration := time.Since(start)
	if err != nil {
		a.failures.Add(1)
		observability.RecordSnapshot("error")
		a.logger.Error("analytics fetch failed",
			"error", err,
			"duration", duration,
			"request_id", observability.GetRequestID(ctx),
		)
		a.setLast(loadInfo{at: start, duration: duration, err: err.Error()})
		return nil, fmt.Errorf("%w: %w", ErrAnalyticsUnavailable, err)
	}

	snapshot := BuildSnapshot(ds.tours, ds.contacts, ds.tourists, ds.applications, a.now())
	observability.RecordSnapshot("ok")
	observability.SetSnapshotRecords("tours", snapshot.Records.Tours)
	observability.SetSnapshotRecords("contacts", snapshot.Records.Contacts)
	observability.SetSnapshotRecords("tourists", snapshot.Records.Tourists)
	observability.SetSnapshotRecords("applications", snapshot.Records.Applications)

	a.logger.Info("analytics snapshot computed",
		"tours", snapshot.Records.Tours,
		"contacts", snapshot.Records.Contacts,
		"tourists", snapshot.Records.Tourists,
		"applications", snapshot.Records.Applications,
		"duration", duration,
	)
	a.setLast(loadInfo{at: start, duration: duration, records: snapshot.Records})
	return snapshot, nil
}

// fetchAll returns only once every fetch has finished; the first failure
// cancels the remaining ones.
func (a *Analytics) fetchAll(ctx context.Context) (*dataset, error) {
	g, ctx := errgroup.WithContext(ctx)
	var ds dataset

	g.Go(func() error { return fetchInto(ctx, "tours", a.source.Tours, &ds.tours) })
	g.Go(func() error { return fetchInto(ctx, "contacts", a.source.Contacts, &ds.contacts) })
	g.Go(func() error { return fetchInto(ctx, "tourists", a.source.Tourists, &ds.tourists) })
	g.Go(func() error { return fetchInto(ctx, "applications", a.source.Applications, &ds.applications) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func fetchInto[T any](ctx context.Context, collection string, fetch func(context.Context) ([]T, error), dst *[]T) error {
	start := time.Now()
	items, err := fetch(ctx)

	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.RecordFetch(collection, status, time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("fetch %s: %w", collection, err)
	}
	*dst = items
	return nil
}

// BuildSnapshot runs every aggregation over one consistent set of inputs.
func BuildSnapshot(tours []models.Tour, contacts []models.Contact, tourists []models.Tourist, applications []models.Application, now time.Time) *models.Snapshot {
	apps := ComputeApplicationAnalytics(applications, tours, tourists)
	return &models.Snapshot{
		Clients:      ComputeClientAnalytics(tourists, contacts, applications),
		Tours:        ComputeTourAnalytics(tours, applications),
		Applications: apps,
		Insights:     ComputeMixedInsights(apps),
		Records: models.RecordCounts{
			Tours:        len(tours),
			Contacts:     len(contacts),
			Tourists:     len(tourists),
			Applications: len(applications),
		},
		GeneratedAt: now.UTC(),
	}
}

func (a *Analytics) setLast(info loadInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = info
}

// Stats reports load bookkeeping for monitoring.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := map[string]any{
		"loads":           a.loads.Load(),
		"failures":        a.failures.Load(),
		"shared_loads":    a.shared.Load(),
		"abandoned_waits": a.abandoned.Load(),
		"last_records":    a.last.records,
		"last_duration":   a.last.duration.String(),
		"last_loaded_at":  a.last.at,
	}
	if a.last.err != "" {
		stats["last_error"] = a.last.err
	}
	return stats
}
