// Package query composes the hazard feeds into location reports: fetch the
// requested kinds concurrently, evaluate every record against the query
// point, and rank per kind.
package query

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/locations"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/metrics"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/source"
)

// Report is the answer to one location query.
type Report struct {
	RunID       string                         `json:"run_id"`
	QueryTime   time.Time                      `json:"query_time"`
	Location    locations.Location             `json:"location"`
	RadiusMiles float64                        `json:"radius_miles"`
	Results     map[hazard.Kind][]hazard.Result `json:"results"`
	Summary     Summary                        `json:"summary"`
}

// Summary carries per-kind and total result counts.
type Summary struct {
	Total  int                 `json:"total"`
	ByKind map[hazard.Kind]int `json:"by_kind"`
}

// HasResults reports whether any hazard survived ranking.
func (r *Report) HasResults() bool {
	return r.Summary.Total > 0
}

// Service answers proximity queries over a set of registered feeds.
type Service struct {
	sources map[hazard.Kind]source.Source
	metrics *metrics.Metrics
}

// NewService registers the given feeds. A later source of the same kind
// replaces an earlier one.
func NewService(m *metrics.Metrics, sources ...source.Source) *Service {
	byKind := make(map[hazard.Kind]source.Source, len(sources))
	for _, s := range sources {
		byKind[s.Kind()] = s
	}
	return &Service{sources: byKind, metrics: m}
}

// Kinds returns the kinds this service can answer for, in display order.
func (s *Service) Kinds() []hazard.Kind {
	var kinds []hazard.Kind
	for _, k := range hazard.Kinds() {
		if _, ok := s.sources[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Near returns the hazards of the requested kinds near the location,
// ranked closest-first per kind. Kinds with no registered source are
// silently absent. A feed failure degrades to an empty result set for that
// kind with a logged error; the report itself is always produced.
func (s *Service) Near(ctx context.Context, loc locations.Location, radiusMiles float64, kinds []hazard.Kind) *Report {
	if len(kinds) == 0 {
		kinds = s.Kinds()
	}

	report := &Report{
		RunID:       uuid.New().String(),
		QueryTime:   time.Now().UTC(),
		Location:    loc,
		RadiusMiles: radiusMiles,
		Results:     make(map[hazard.Kind][]hazard.Result, len(kinds)),
		Summary:     Summary{ByKind: make(map[hazard.Kind]int, len(kinds))},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		src, ok := s.sources[kind]
		if !ok {
			continue
		}
		g.Go(func() error {
			ranked := s.fetchAndRank(gctx, src, loc, radiusMiles)
			mu.Lock()
			report.Results[kind] = ranked
			report.Summary.ByKind[kind] = len(ranked)
			report.Summary.Total += len(ranked)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures degrade per kind

	if s.metrics != nil {
		s.metrics.QueriesServed.Inc()
		s.metrics.ResultsReturned.Observe(float64(report.Summary.Total))
	}

	zap.L().Info("location query complete",
		zap.String("run_id", report.RunID),
		zap.String("location", loc.Name),
		zap.Float64("radius_miles", radiusMiles),
		zap.Int("results", report.Summary.Total),
	)
	return report
}

func (s *Service) fetchAndRank(ctx context.Context, src source.Source, loc locations.Location, radiusMiles float64) []hazard.Result {
	kind := string(src.Kind())

	start := time.Now()
	records, err := src.Fetch(ctx)
	if s.metrics != nil {
		s.metrics.FeedFetchSeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.FeedFetches.WithLabelValues(kind, "error").Inc()
		}
		zap.L().Error("feed fetch failed, returning no results for kind",
			zap.String("feed", kind),
			zap.Error(err),
		)
		return []hazard.Result{}
	}
	if s.metrics != nil {
		s.metrics.FeedFetches.WithLabelValues(kind, "success").Inc()
		s.metrics.FeedRecords.WithLabelValues(kind).Add(float64(len(records)))
	}

	point := loc.Point()
	results := make([]hazard.Result, 0, len(records))
	for _, rec := range records {
		results = append(results, hazard.Result{
			Record:    rec,
			Proximity: hazard.Evaluate(point, rec.Shape),
		})
	}
	if s.metrics != nil {
		s.metrics.RecordsEvaluated.Add(float64(len(records)))
	}

	return hazard.Rank(results, radiusMiles)
}
