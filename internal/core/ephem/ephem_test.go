package ephem

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestParseBody_Table(t *testing.T) {
	t.Parallel()

	for _, b := range Bodies {
		got, ok := ParseBody(string(b))
		if !ok || got != b {
			t.Fatalf("ParseBody(%q) = %q, %v", b, got, ok)
		}
	}
	if _, ok := ParseBody("pluto"); ok {
		t.Fatal("ParseBody accepted an unsupported body")
	}
	if _, ok := ParseBody(""); ok {
		t.Fatal("ParseBody accepted the empty string")
	}
}

func TestParseMode_Table(t *testing.T) {
	t.Parallel()

	for _, m := range Modes {
		got, ok := ParseMode(string(m))
		if !ok || got != m {
			t.Fatalf("ParseMode(%q) = %q, %v", m, got, ok)
		}
	}
	if _, ok := ParseMode("heliocentric"); ok {
		t.Fatal("ParseMode accepted an unsupported mode")
	}
}

func TestAnalytic_Deterministic(t *testing.T) {
	t.Parallel()

	p := NewAnalytic()
	at := time.Date(2026, 4, 1, 6, 30, 0, 0, time.UTC)
	for _, b := range Bodies {
		s1, err := p.Sample(context.Background(), b, at, ModeTropical)
		if err != nil {
			t.Fatalf("sample %s: %v", b, err)
		}
		s2, err := p.Sample(context.Background(), b, at, ModeTropical)
		if err != nil {
			t.Fatalf("resample %s: %v", b, err)
		}
		if s1 != s2 {
			t.Fatalf("%s not deterministic: %+v vs %+v", b, s1, s2)
		}
		if s1.Longitude < 0 || s1.Longitude >= 360 {
			t.Fatalf("%s longitude out of range: %v", b, s1.Longitude)
		}
		if s1.Declination < -90 || s1.Declination > 90 {
			t.Fatalf("%s declination out of range: %v", b, s1.Declination)
		}
	}
}

func TestAnalytic_RangeGuard(t *testing.T) {
	t.Parallel()

	p := NewAnalytic()
	for _, at := range []time.Time{
		time.Date(1750, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		_, err := p.Sample(context.Background(), Sun, at, ModeTropical)
		var pe *ProviderError
		if !errors.As(err, &pe) {
			t.Fatalf("instant %v: expected *ProviderError, got %v", at, err)
		}
		if pe.Body != Sun {
			t.Fatalf("error body = %q, want sun", pe.Body)
		}
	}
}

func TestAnalytic_UnknownBodyAndMode(t *testing.T) {
	t.Parallel()

	p := NewAnalytic()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var pe *ProviderError
	if _, err := p.Sample(context.Background(), Body("vulcan"), at, ModeTropical); !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError for unknown body, got %v", err)
	}
	if _, err := p.Sample(context.Background(), Sun, at, Mode("draconic")); !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError for unknown mode, got %v", err)
	}
}

// The Sun and Moon never retrograde; Mars must within a two-year window.
func TestAnalytic_SpeedSigns(t *testing.T) {
	t.Parallel()

	p := NewAnalytic()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sawRetroMars := false
	for d := 0; d < 730; d++ {
		at := start.AddDate(0, 0, d)
		sun, err := p.Sample(context.Background(), Sun, at, ModeTropical)
		if err != nil {
			t.Fatalf("sun: %v", err)
		}
		if sun.Speed <= 0 {
			t.Fatalf("sun retrograde at %v, speed %v", at, sun.Speed)
		}
		moon, err := p.Sample(context.Background(), Moon, at, ModeTropical)
		if err != nil {
			t.Fatalf("moon: %v", err)
		}
		if moon.Speed <= 0 {
			t.Fatalf("moon retrograde at %v, speed %v", at, moon.Speed)
		}
		mars, err := p.Sample(context.Background(), Mars, at, ModeTropical)
		if err != nil {
			t.Fatalf("mars: %v", err)
		}
		if mars.Speed < 0 {
			sawRetroMars = true
		}
	}
	if !sawRetroMars {
		t.Fatal("mars never retrograded across two years")
	}
}

// Sidereal longitudes trail tropical ones by the ayanamsa.
func TestAnalytic_ModeOffsets(t *testing.T) {
	t.Parallel()

	p := NewAnalytic()
	at := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	trop, err := p.Sample(context.Background(), Sun, at, ModeTropical)
	if err != nil {
		t.Fatalf("tropical: %v", err)
	}
	for _, mode := range []Mode{ModeLahiri, ModeFaganBradley} {
		sid, err := p.Sample(context.Background(), Sun, at, mode)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		want, ok := AyanamsaDeg(mode, at)
		if !ok {
			t.Fatalf("AyanamsaDeg(%s) not ok", mode)
		}
		diff := trop.Longitude - sid.Longitude
		if diff < 0 {
			diff += 360
		}
		if diff < want-0.01 || diff > want+0.01 {
			t.Fatalf("%s offset = %v, want about %v", mode, diff, want)
		}
	}
}

func TestAyanamsaDeg_DriftsForward(t *testing.T) {
	t.Parallel()

	early, _ := AyanamsaDeg(ModeLahiri, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC))
	late, _ := AyanamsaDeg(ModeLahiri, time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	if late <= early {
		t.Fatalf("ayanamsa did not accumulate: %v then %v", early, late)
	}
	if zero, ok := AyanamsaDeg(ModeTropical, time.Now()); !ok || zero != 0 {
		t.Fatalf("tropical ayanamsa = %v, %v", zero, ok)
	}
	if _, ok := AyanamsaDeg(Mode("draconic"), time.Now()); ok {
		t.Fatal("unknown mode accepted")
	}
}

func TestSerialized_Delegates(t *testing.T) {
	t.Parallel()

	s := NewSerialized(NewAnalytic())
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Sample(context.Background(), Venus, at, ModeTropical); err != nil {
				t.Errorf("serialized sample: %v", err)
			}
		}()
	}
	wg.Wait()
}
