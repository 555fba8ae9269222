// Package service implements the event detection engine: five classifiers
// over the coarse-to-fine locator, fronted by the TTL cache
package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"astrograph/internal/core/astro"
	"astrograph/internal/core/ephem"
	"astrograph/internal/core/scan"
	"astrograph/internal/modkit"
	"astrograph/internal/platform/cache"
	"astrograph/internal/platform/config"
	perr "astrograph/internal/platform/errors"
	"astrograph/internal/platform/logger"
	ptime "astrograph/internal/platform/time"
	"astrograph/internal/services/events/domain"
)

// Config holds engine tuning
type Config struct {
	// Step is the default coarse step for planetary classifiers
	Step time.Duration
	// Tolerance is the default refinement tolerance for planetary classifiers
	Tolerance time.Duration
	// HorizonStep / HorizonTolerance drive the ascendant classifier, which
	// sweeps the full circle daily and needs a much finer grid
	HorizonStep      time.Duration
	HorizonTolerance time.Duration
	// CombustThresholdDeg is the solar separation below which a body counts
	// as combust
	CombustThresholdDeg float64
	// MaxIterations bounds bisection depth; <= 0 uses the locator default
	MaxIterations int
	// MaxRangeDays rejects absurd single-range requests; 0 = unlimited
	MaxRangeDays int
	// CacheTTL is the lifetime for cached scan results; <= 0 uses the cache default
	CacheTTL time.Duration
}

// FromConfig loads engine tuning from SCAN_* env vars
func FromConfig(cfg config.Conf) Config {
	c := cfg.Prefix("SCAN_")
	return Config{
		Step:                c.MayDuration("STEP", 6*time.Hour),
		Tolerance:           c.MayDuration("TOLERANCE", time.Minute),
		HorizonStep:         c.MayDuration("HORIZON_STEP", 10*time.Minute),
		HorizonTolerance:    c.MayDuration("HORIZON_TOLERANCE", 5*time.Second),
		CombustThresholdDeg: c.MayFloat64("COMBUST_DEG", 8.5),
		MaxIterations:       c.MayInt("MAX_ITER", 0),
		MaxRangeDays:        c.MayInt("MAX_RANGE_DAYS", 400),
		CacheTTL:            c.MayDuration("CACHE_TTL", time.Hour),
	}
}

// Service defines the engine contract
type Service interface {
	domain.ScannerPort
}

// Svc implements the engine
type Svc struct {
	ephem ephem.Provider
	cache *cache.Cache
	cfg   Config
}

// New constructs the engine service
func New(deps modkit.Deps, cfg Config) *Svc {
	if deps.Ephem == nil {
		panic("events.Service requires a non nil ephemeris provider")
	}
	return &Svc{ephem: deps.Ephem, cache: deps.Cache, cfg: cfg}
}

// scanKey is the exact parameter tuple a cached payload depends on.
// The reference-frame mode shifts every longitude, so it must be here:
// keying without it silently serves wrong events across configurations
type scanKey struct {
	Lat    float64      `json:"lat"`
	Lon    float64      `json:"lon"`
	TZ     string       `json:"tz"`
	Mode   ephem.Mode   `json:"mode"`
	Start  int64        `json:"start"`
	End    int64        `json:"end"`
	Bodies []ephem.Body `json:"bodies"`
	StepNs int64        `json:"step_ns"`
	TolNs  int64        `json:"tol_ns"`
}

// Scan implements domain.ScannerPort
func (s *Svc) Scan(ctx context.Context, req domain.Request) (*domain.Result, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	bodies := normalizeBodies(req.Bodies)
	step, tol := s.effective(req)

	if s.cache == nil {
		return s.compute(ctx, req, bodies, step, tol)
	}

	key := cache.KeyOf(scanKey{
		Lat:    req.Location.Lat,
		Lon:    req.Location.Lon,
		TZ:     req.Location.TZ,
		Mode:   req.Mode,
		Start:  req.Start.Unix(),
		End:    req.End.Unix(),
		Bodies: bodies,
		StepNs: int64(step),
		TolNs:  int64(tol),
	})

	v, hit, err := s.cache.Do(ctx, key, s.cfg.CacheTTL, func(ctx context.Context) (any, bool, error) {
		res, err := s.compute(ctx, req, bodies, step, tol)
		if err != nil {
			return nil, false, err
		}
		// degraded results stay uncached so the next request retries
		return res, res.OK, nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		logger.C(ctx).Debug().Str("key", key.Short()).Msg("scan cache hit")
	}
	return v.(*domain.Result), nil
}

func (s *Svc) validate(req domain.Request) error {
	if req.Location.Lat < -90 || req.Location.Lat > 90 {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "latitude out of range"), "lat")
	}
	if req.Location.Lon < -180 || req.Location.Lon > 180 {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "longitude out of range"), "lon")
	}
	if _, ok := ephem.ParseMode(string(req.Mode)); !ok {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown reference-frame mode %q", req.Mode), "mode")
	}
	if !req.End.After(req.Start) {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "range end must be after start"), "range")
	}
	if s.cfg.MaxRangeDays > 0 {
		if req.End.Sub(req.Start) > time.Duration(s.cfg.MaxRangeDays)*24*time.Hour {
			return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "range exceeds %d days", s.cfg.MaxRangeDays), "range")
		}
	}
	for _, b := range req.Bodies {
		if _, ok := ephem.ParseBody(string(b)); !ok {
			return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "unknown body %q", b), "bodies")
		}
	}
	return nil
}

func (s *Svc) effective(req domain.Request) (step, tol time.Duration) {
	step, tol = s.cfg.Step, s.cfg.Tolerance
	if req.StepOverride > 0 {
		step = req.StepOverride
	}
	if req.ToleranceOverride > 0 {
		tol = req.ToleranceOverride
	}
	return step, tol
}

// normalizeBodies defaults an empty set to every supported body and sorts
// for deterministic cache keys
func normalizeBodies(in []ephem.Body) []ephem.Body {
	if len(in) == 0 {
		out := make([]ephem.Body, len(ephem.Bodies))
		copy(out, ephem.Bodies)
		return out
	}
	out := make([]ephem.Body, 0, len(in))
	seen := map[ephem.Body]bool{}
	for _, b := range in {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// compute runs the five classifiers concurrently. Each writes a disjoint
// slice; one classifier's provider failure is recorded and contained, it
// never aborts siblings
func (s *Svc) compute(
	ctx context.Context, req domain.Request, bodies []ephem.Body, step, tol time.Duration,
) (*domain.Result, error) {
	res := &domain.Result{
		Ingress:           []domain.Ingress{},
		Combustion:        []domain.Combustion{},
		Station:           []domain.Station{},
		VelocityExtreme:   []domain.VelocityExtreme{},
		HorizonCrossing:   []domain.HorizonCrossing{},
		ProviderAvailable: true,
	}
	cfg := scan.Config{Step: step, Tolerance: tol, MaxIterations: s.cfg.MaxIterations}
	hcfg := scan.Config{
		Step:          s.cfg.HorizonStep,
		Tolerance:     s.cfg.HorizonTolerance,
		MaxIterations: s.cfg.MaxIterations,
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex // guards res.Failed and res.ProviderAvailable
		errs []error
	)
	fail := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		var pe *ephem.ProviderError
		if errors.As(err, &pe) {
			res.ProviderAvailable = false
			res.Failed = append(res.Failed, domain.ClassifierFailure{Classifier: name, Error: pe.Error()})
			logger.C(ctx).Warn().Str("classifier", name).Err(err).Msg("classifier aborted on provider failure")
			return
		}
		// cancellation and internal faults propagate
		errs = append(errs, err)
	}

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				fail(name, err)
			}
		}()
	}

	run("ingress", func() error {
		out, err := s.ingress(ctx, req, cfg, bodies)
		if err != nil {
			return err
		}
		res.Ingress = out
		return nil
	})
	run("combustion", func() error {
		out, err := s.combustion(ctx, req, cfg, bodies)
		if err != nil {
			return err
		}
		res.Combustion = out
		return nil
	})
	run("station", func() error {
		out, err := s.station(ctx, req, cfg, bodies)
		if err != nil {
			return err
		}
		res.Station = out
		return nil
	})
	run("velocity_extreme", func() error {
		out, err := s.velocityExtremes(ctx, req, cfg, bodies)
		if err != nil {
			return err
		}
		res.VelocityExtreme = out
		return nil
	})
	run("horizon_crossing", func() error {
		out, err := s.horizonCrossings(ctx, req, hcfg)
		if err != nil {
			return err
		}
		res.HorizonCrossing = out
		return nil
	})

	wg.Wait()
	if len(errs) > 0 {
		return nil, errs[0]
	}

	res.OK = len(res.Failed) == 0
	return res, nil
}

// ingress locates sign-boundary crossings per body. The predicate is the
// discrete sign index, so the 359->0 wrap is just another index change and
// boundary jitter (same-sign "transitions") is rejected on From == To
func (s *Svc) ingress(
	ctx context.Context, req domain.Request, cfg scan.Config, bodies []ephem.Body,
) ([]domain.Ingress, error) {
	out := []domain.Ingress{}
	for _, body := range bodies {
		b := body
		p := func(t time.Time) (int, error) {
			smp, err := s.ephem.Sample(ctx, b, t, req.Mode)
			if err != nil {
				return 0, err
			}
			return astro.SignIndex(smp.Longitude), nil
		}
		trs, err := scan.IntChanges(ctx, cfg, req.Start, req.End, p)
		if err != nil {
			return nil, err
		}
		for _, tr := range trs {
			if tr.From == tr.To {
				continue
			}
			out = append(out, domain.Ingress{
				Body:        b,
				At:          tr.At.UTC(),
				FromSign:    astro.SignName(tr.From),
				ToSign:      astro.SignName(tr.To),
				Approximate: !tr.Converged,
			})
		}
	}
	return out, nil
}

// combustion pairs rising and falling threshold crossings of solar
// separation into intervals. An interval active at range start opens at the
// range start; one with no falling transition in range stays open
func (s *Svc) combustion(
	ctx context.Context, req domain.Request, cfg scan.Config, bodies []ephem.Body,
) ([]domain.Combustion, error) {
	out := []domain.Combustion{}
	for _, body := range bodies {
		if body == ephem.Sun {
			continue
		}
		b := body
		sep := func(t time.Time) (float64, error) {
			smp, err := s.ephem.Sample(ctx, b, t, req.Mode)
			if err != nil {
				return 0, err
			}
			sun, err := s.ephem.Sample(ctx, ephem.Sun, t, req.Mode)
			if err != nil {
				return 0, err
			}
			return astro.Separation(smp.Longitude, sun.Longitude), nil
		}
		within := func(t time.Time) (bool, error) {
			v, err := sep(t)
			if err != nil {
				return false, err
			}
			return v < s.cfg.CombustThresholdDeg, nil
		}

		initial, err := within(req.Start)
		if err != nil {
			return nil, err
		}
		trs, err := scan.Bool(ctx, cfg, req.Start, req.End, within)
		if err != nil {
			return nil, err
		}

		var open *time.Time
		openConverged := true // a clamped start is exact by construction
		if initial {
			t := req.Start
			open = &t
		}
		for _, tr := range trs {
			if tr.Rising {
				if open == nil {
					t := tr.At
					open = &t
					openConverged = tr.Converged
				}
				continue
			}
			if open != nil {
				iv, err := s.combustInterval(ctx, b, *open, tr.At, ptime.Ptr(tr.At), cfg.Step, sep)
				if err != nil {
					return nil, err
				}
				iv.Approximate = !openConverged || !tr.Converged
				out = append(out, iv)
				open = nil
				openConverged = true
			}
		}
		if open != nil {
			iv, err := s.combustInterval(ctx, b, *open, req.End, nil, cfg.Step, sep)
			if err != nil {
				return nil, err
			}
			iv.Approximate = !openConverged
			out = append(out, iv)
		}
	}
	return out, nil
}

// combustInterval assembles one interval and measures its minimum separation
// on the coarse grid (sufficient for overlay rendering; the exact perihelion
// of the conjunction is not an event the engine reports)
func (s *Svc) combustInterval(
	ctx context.Context, b ephem.Body, start, sweepEnd time.Time, end *time.Time,
	step time.Duration, sep func(time.Time) (float64, error),
) (domain.Combustion, error) {
	min := 180.0
	for t := start; !t.After(sweepEnd); t = t.Add(step) {
		if err := ctx.Err(); err != nil {
			return domain.Combustion{}, err
		}
		v, err := sep(t)
		if err != nil {
			return domain.Combustion{}, err
		}
		if v < min {
			min = v
		}
	}
	iv := domain.Combustion{Body: b, Start: start.UTC(), MinSeparationDeg: min}
	if end != nil {
		u := end.UTC()
		iv.End = &u
	}
	return iv, nil
}

// station tiles the range into intervals of uniform apparent direction,
// with speed sign flips as the boundaries
func (s *Svc) station(
	ctx context.Context, req domain.Request, cfg scan.Config, bodies []ephem.Body,
) ([]domain.Station, error) {
	out := []domain.Station{}
	for _, body := range bodies {
		b := body
		speed := func(t time.Time) (float64, error) {
			smp, err := s.ephem.Sample(ctx, b, t, req.Mode)
			if err != nil {
				return 0, err
			}
			return smp.Speed, nil
		}

		v0, err := speed(req.Start)
		if err != nil {
			return nil, err
		}
		trs, err := scan.SignChanges(ctx, cfg, req.Start, req.End, speed)
		if err != nil {
			return nil, err
		}

		dir := domain.DirectionDirect
		if v0 < 0 {
			dir = domain.DirectionRetrograde
		}
		start := req.Start
		startConverged := true // the range start is exact by construction
		for _, tr := range trs {
			out = append(out, domain.Station{
				Body:        b,
				Direction:   dir,
				Start:       start.UTC(),
				End:         ptime.Ptr(tr.At.UTC()),
				Approximate: !startConverged || !tr.Converged,
			})
			start, startConverged = tr.At, tr.Converged
			if tr.Rising {
				dir = domain.DirectionDirect
			} else {
				dir = domain.DirectionRetrograde
			}
		}
		out = append(out, domain.Station{
			Body:        b,
			Direction:   dir,
			Start:       start.UTC(),
			Approximate: !startConverged,
		})
	}
	return out, nil
}

// velocityExtremes locates speed extrema and reports the sampled speed at
// each refined instant
func (s *Svc) velocityExtremes(
	ctx context.Context, req domain.Request, cfg scan.Config, bodies []ephem.Body,
) ([]domain.VelocityExtreme, error) {
	out := []domain.VelocityExtreme{}
	for _, body := range bodies {
		b := body
		speed := func(t time.Time) (float64, error) {
			smp, err := s.ephem.Sample(ctx, b, t, req.Mode)
			if err != nil {
				return 0, err
			}
			return smp.Speed, nil
		}
		exs, err := scan.Extrema(ctx, cfg, req.Start, req.End, speed)
		if err != nil {
			return nil, err
		}
		for _, ex := range exs {
			v, err := speed(ex.At)
			if err != nil {
				return nil, err
			}
			kind := domain.ExtremeMin
			if ex.Max {
				kind = domain.ExtremeMax
			}
			out = append(out, domain.VelocityExtreme{
				Body:           b,
				Kind:           kind,
				At:             ex.At.UTC(),
				SpeedDegPerDay: v,
				Approximate:    !ex.Converged,
			})
		}
	}
	return out, nil
}

// horizonCrossings locates ascendant sign-cusp crossings. The ascendant is
// derived locally from sidereal time, so this classifier never touches the
// provider and survives provider outages
func (s *Svc) horizonCrossings(
	ctx context.Context, req domain.Request, cfg scan.Config,
) ([]domain.HorizonCrossing, error) {
	offset := 0.0
	if req.Mode != ephem.ModeTropical {
		offset, _ = ephem.AyanamsaDeg(req.Mode, req.Start)
	}
	p := func(t time.Time) (int, error) {
		asc := astro.Ascendant(t, req.Location.Lat, req.Location.Lon)
		return astro.SignIndex(asc - offset), nil
	}

	trs, err := scan.IntChanges(ctx, cfg, req.Start, req.End, p)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HorizonCrossing, 0, len(trs))
	for _, tr := range trs {
		if tr.From == tr.To {
			continue
		}
		out = append(out, domain.HorizonCrossing{
			At:          tr.At.UTC(),
			Kind:        "ascendant",
			DegreeOfArc: astro.CuspDeg(tr.To),
			Approximate: !tr.Converged,
		})
	}
	return out, nil
}
