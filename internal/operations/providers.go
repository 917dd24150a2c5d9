// Package operations holds the tool catalogue: one file per operation source,
// each exposing its registration through the compiled-in provider table below.
package operations

import (
	"time"

	"sentinelmcp/internal/config"
	"sentinelmcp/internal/timespan"
	"sentinelmcp/internal/tools"
	"sentinelmcp/internal/worker"
)

// Providers returns the registration entry points of every operation source.
// The serve command hands this table to tools.Discover; there is no run-time
// scanning, absence of the Tool interface is a compile error.
//
// All operations share one worker pool so the configured bound covers total
// backend concurrency, not per-tool concurrency.
func Providers(cfg config.Config) []tools.Provider {
	pool := worker.New(cfg.Query.WorkerPoolSize)

	return []tools.Provider{
		func(r *tools.Registry) error {
			search := newLogsSearchTool(cfg, pool)
			if err := r.Register(search); err != nil {
				return err
			}
			return r.Register(newLogsDummyDataTool(search))
		},
		func(r *tools.Registry) error {
			return r.Register(newTablesListTool(cfg, pool))
		},
		func(r *tools.Registry) error {
			return r.Register(newIncidentGetTool(cfg, pool))
		},
	}
}

// resolverOptions maps the query configuration onto the timespan resolver
// tunables.
func resolverOptions(q config.QueryConfig) timespan.Options {
	return timespan.Options{
		Default:       time.Duration(q.DefaultTimespanDays) * 24 * time.Hour,
		Ceiling:       time.Duration(q.MaxTimespanDays) * 24 * time.Hour,
		BufferPercent: q.BufferPercent,
		MinBuffer:     time.Duration(q.MinBufferDays) * 24 * time.Hour,
	}
}

// queryTimeout returns the per-call deadline for backend queries.
func queryTimeout(q config.QueryConfig) time.Duration {
	if q.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(q.TimeoutSeconds) * time.Second
}
