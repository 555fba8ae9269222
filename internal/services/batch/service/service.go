// Package service provides the batch orchestrator implementation
package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"astrograph/internal/modkit"
	"astrograph/internal/platform/config"
	perr "astrograph/internal/platform/errors"
	"astrograph/internal/platform/logger"
	pnet "astrograph/internal/platform/net"
	"astrograph/internal/services/batch/domain"
	events "astrograph/internal/services/events/domain"
)

// Config holds batch orchestrator tuning
type Config struct {
	// Workers caps parallel month units; <=0 -> 1
	Workers int
	// MaxMonths rejects oversized batches; 0 = unlimited
	MaxMonths int
}

// FromConfig reads with BATCH_ prefix
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("BATCH_")
	return Config{
		Workers:   c.MayInt("WORKERS", 4),
		MaxMonths: c.MayInt("MAX_MONTHS", 36),
	}
}

// Svc implements the batch orchestrator
type Svc struct {
	scanner events.ScannerPort
	cfg     Config
}

// New constructs the batch service over an events scanner port
func New(_ modkit.Deps, scanner events.ScannerPort, cfg Config) *Svc {
	if scanner == nil {
		panic("batch.Service requires a non nil scanner port")
	}
	return &Svc{scanner: scanner, cfg: cfg}
}

// unit is one parsed month ready to scan
type unit struct {
	key   string
	start time.Time
	end   time.Time
}

// Run implements domain.RunnerPort
func (s *Svc) Run(ctx context.Context, req domain.Request) (*domain.Result, error) {
	if len(req.Months) == 0 {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "months must not be empty"), "months")
	}
	if s.cfg.MaxMonths > 0 && len(req.Months) > s.cfg.MaxMonths {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "batch exceeds %d months", s.cfg.MaxMonths), "months")
	}

	loc, err := loadLocation(req.Location.TZ)
	if err != nil {
		return nil, err
	}

	units := make([]unit, 0, len(req.Months))
	seen := map[string]bool{}
	for _, key := range req.Months {
		if seen[key] {
			return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "duplicate month %q", key), "months")
		}
		seen[key] = true
		start, end, err := MonthRange(key, loc)
		if err != nil {
			return nil, err
		}
		units = append(units, unit{key: key, start: start, end: end})
	}

	jobID := uuid.NewString()
	ctx = pnet.WithJob(ctx, jobID)
	log := logger.C(ctx)
	log.Info().Int("months", len(units)).Msg("batch run starting")

	out := make(map[string]domain.UnitResult, len(units))
	var mu sync.Mutex

	w := req.Concurrency
	if w <= 0 || w > s.cfg.Workers {
		w = s.cfg.Workers
	}
	if w < 1 {
		w = 1
	}

	var fails int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, w)

	record := func(key string, r domain.UnitResult) {
		mu.Lock()
		out[key] = r
		mu.Unlock()
	}

	for _, u := range units {
		if err := ctx.Err(); err != nil {
			// remaining units still get an outcome
			record(u.key, domain.UnitResult{OK: false, Error: err.Error()})
			atomic.AddInt64(&fails, 1)
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(u unit) {
			defer func() { <-sem; wg.Done() }()
			data, err := s.scanner.Scan(ctx, events.Request{
				Bodies:   req.Bodies,
				Location: req.Location,
				Mode:     req.Mode,
				Start:    u.start,
				End:      u.end,
			})
			if err != nil {
				logger.C(ctx).Error().Str("month", u.key).Err(err).Msg("batch unit failed")
				record(u.key, domain.UnitResult{OK: false, Error: err.Error()})
				atomic.AddInt64(&fails, 1)
				return
			}
			if !data.OK {
				// degraded scan: the unit is not ok, but the partial
				// results (provider-free classifiers) are kept
				logger.C(ctx).Warn().Str("month", u.key).Msg("batch unit degraded")
				record(u.key, domain.UnitResult{OK: false, Data: data, Error: degradedError(data)})
				atomic.AddInt64(&fails, 1)
				return
			}
			record(u.key, domain.UnitResult{OK: true, Data: data})
		}(u)
	}
	wg.Wait()

	log.Info().Int64("failed", fails).Msg("batch run finished")
	return &domain.Result{JobID: jobID, Units: out}, nil
}

// degradedError summarizes a degraded scan for the unit envelope
func degradedError(res *events.Result) string {
	if len(res.Failed) == 0 {
		return "scan degraded"
	}
	names := make([]string, 0, len(res.Failed))
	for _, f := range res.Failed {
		names = append(names, f.Classifier)
	}
	return "classifiers failed: " + strings.Join(names, ", ")
}

// MonthRange resolves a "2006-01" month key to its half-open civil-month
// span in loc
func MonthRange(key string, loc *time.Location) (start, end time.Time, err error) {
	start, err = time.ParseInLocation("2006-01", key, loc)
	if err != nil {
		return time.Time{}, time.Time{},
			perr.WithField(perr.Newf(perr.ErrorCodeValidation, "month %q is not YYYY-MM", key), "months")
	}
	return start, start.AddDate(0, 1, 0), nil
}

func loadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown timezone %q", tz), "location.tz")
	}
	return loc, nil
}
