package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sxdsl/tthc-chatbot-go/internal/errors"
	"github.com/sxdsl/tthc-chatbot-go/internal/logger"
	"github.com/sxdsl/tthc-chatbot-go/internal/metrics"
	"github.com/sxdsl/tthc-chatbot-go/internal/timeouts"
)

// refreshWrap tags refresh failures with module and operation and carries
// the user-facing busy message up to the webhook layer.
var refreshWrap = errors.NewWrapper("catalog", "refresh")

// Snapshot is one immutable load of the catalog: the records in source
// order plus the id index. Snapshots are replaced whole, never mutated.
type Snapshot struct {
	Records  []Record
	byID     map[string]int
	LoadedAt time.Time
}

// Cache holds the current catalog snapshot and refreshes it lazily when the
// TTL has elapsed. Concurrent refreshes are collapsed with singleflight; a
// failed refresh keeps serving the previous snapshot.
type Cache struct {
	source  RowSource
	ttl     time.Duration
	logger  *logger.Logger
	metrics *metrics.Metrics

	group    singleflight.Group
	snapshot atomic.Pointer[Snapshot]
}

// NewCache creates an empty cache over the given source. The first
// EnsureFresh call performs the initial load.
func NewCache(source RowSource, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *Cache {
	return &Cache{
		source:  source,
		ttl:     ttl,
		logger:  log.WithModule("catalog"),
		metrics: m,
	}
}

// EnsureFresh refreshes the snapshot if it is missing or older than the
// TTL. It returns ErrSourceUnavailable only when no snapshot exists and the
// fetch fails or yields no rows; a stale snapshot is served silently on
// later failures.
func (c *Cache) EnsureFresh(ctx context.Context) error {
	if snap := c.snapshot.Load(); snap != nil && time.Since(snap.LoadedAt) < c.ttl {
		if c.metrics != nil {
			c.metrics.CacheHitsTotal.Inc()
		}
		return nil
	}
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}

	_, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		// Re-check inside the flight: a concurrent caller may have
		// refreshed while this one waited.
		if snap := c.snapshot.Load(); snap != nil && time.Since(snap.LoadedAt) < c.ttl {
			return nil, nil
		}
		// The refresh serves every waiter, so it must not die with the
		// caller that happened to start it. Detach from that caller's
		// cancellation and bound the fetch on its own.
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.SheetFetch)
		defer cancel()
		return nil, c.refresh(refreshCtx)
	})
	return err
}

// refresh fetches, parses and swaps in a new snapshot.
func (c *Cache) refresh(ctx context.Context) error {
	start := time.Now()
	header, rows, err := c.source.Fetch(ctx)
	if c.metrics != nil {
		c.metrics.SheetFetchDuration.Observe(time.Since(start).Seconds())
	}

	prev := c.snapshot.Load()

	if err == nil && len(rows) == 0 {
		err = fmt.Errorf("source returned no data rows")
	}

	if err != nil {
		if c.metrics != nil {
			c.metrics.SheetFetchesTotal.WithLabelValues("error").Inc()
		}
		if prev != nil {
			// Stale-but-available: keep the old snapshot and move on.
			if c.metrics != nil {
				c.metrics.StaleSnapshotsServed.Inc()
			}
			c.logger.WithError(err).
				WithField("loaded_at", prev.LoadedAt).
				Warn("Catalog refresh failed, serving previous snapshot")
			return nil
		}
		return refreshWrap.Wrap(
			fmt.Errorf("%w: %v", errors.ErrSourceUnavailable, err),
			errors.SourceBusyMessage,
		)
	}

	snap, err := buildSnapshot(header, rows)
	if err != nil {
		if c.metrics != nil {
			c.metrics.SheetFetchesTotal.WithLabelValues("error").Inc()
		}
		if prev != nil {
			if c.metrics != nil {
				c.metrics.StaleSnapshotsServed.Inc()
			}
			c.logger.WithError(err).Warn("Catalog parse failed, serving previous snapshot")
			return nil
		}
		return refreshWrap.Wrap(err, errors.SourceBusyMessage)
	}

	c.snapshot.Store(snap)
	if c.metrics != nil {
		c.metrics.SheetFetchesTotal.WithLabelValues("success").Inc()
		c.metrics.CatalogSize.Set(float64(len(snap.Records)))
	}
	c.logger.WithField("records", len(snap.Records)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("Catalog snapshot refreshed")
	return nil
}

// buildSnapshot maps the header row to column positions, projects the data
// rows into records and filters out rows with an empty name.
func buildSnapshot(header []string, rows [][]string) (*Snapshot, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	if _, ok := idx[ColName]; !ok {
		return nil, fmt.Errorf("%w: missing required column %q", errors.ErrSourceMalformed, ColName)
	}

	records := make([]Record, 0, len(rows))
	byID := make(map[string]int, len(rows))
	for _, row := range rows {
		rec := newRecord(func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		})
		if rec.Name == "" {
			continue
		}
		records = append(records, rec)
		if rec.ID != "" {
			if _, dup := byID[rec.ID]; !dup {
				byID[rec.ID] = len(records) - 1
			}
		}
	}

	return &Snapshot{
		Records:  records,
		byID:     byID,
		LoadedAt: time.Now(),
	}, nil
}

// FindByID returns the record with the given id from the current snapshot.
func (c *Cache) FindByID(id string) (Record, error) {
	snap := c.snapshot.Load()
	if snap == nil {
		return Record{}, errors.ErrNotFound
	}
	i, ok := snap.byID[id]
	if !ok {
		return Record{}, errors.ErrNotFound
	}
	return snap.Records[i], nil
}

// All returns the records of the current snapshot in source order. The
// returned slice must not be modified.
func (c *Cache) All() []Record {
	snap := c.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.Records
}

// Len returns the number of records in the current snapshot.
func (c *Cache) Len() int {
	return len(c.All())
}

// LoadedAt returns when the current snapshot was loaded, or the zero time
// when nothing has been loaded yet.
func (c *Cache) LoadedAt() time.Time {
	snap := c.snapshot.Load()
	if snap == nil {
		return time.Time{}
	}
	return snap.LoadedAt
}
