package astro

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeDeg_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		out  float64
	}{
		{name: "identity", in: 42, out: 42},
		{name: "wrap positive", in: 365, out: 5},
		{name: "wrap negative", in: -10, out: 350},
		{name: "multiple turns", in: 725, out: 5},
		{name: "negative turns", in: -730, out: 350},
		{name: "zero", in: 0, out: 0},
		{name: "full circle", in: 360, out: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDeg(tc.in); math.Abs(got-tc.out) > 1e-9 {
				t.Fatalf("NormalizeDeg(%v) = %v, want %v", tc.in, got, tc.out)
			}
		})
	}
}

// The wrap must never read as a long arc: 359.9 -> 0.1 is +0.2 degrees.
func TestDeltaDeg_ShortestArc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{name: "wrap forward", from: 359.9, to: 0.1, want: 0.2},
		{name: "wrap backward", from: 0.1, to: 359.9, want: -0.2},
		{name: "plain forward", from: 10, to: 40, want: 30},
		{name: "plain backward", from: 40, to: 10, want: -30},
		{name: "opposition maps to +180", from: 0, to: 180, want: 180},
		{name: "same point", from: 123.4, to: 123.4, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeltaDeg(tc.from, tc.to); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("DeltaDeg(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestDeltaDeg_RangeInvariant(t *testing.T) {
	t.Parallel()

	for from := -720.0; from <= 720; from += 37.3 {
		for to := -720.0; to <= 720; to += 53.7 {
			d := DeltaDeg(from, to)
			if d <= -180 || d > 180 {
				t.Fatalf("DeltaDeg(%v, %v) = %v outside (-180,180]", from, to, d)
			}
		}
	}
}

func TestSeparation_Symmetric(t *testing.T) {
	t.Parallel()

	if got := Separation(350, 10); math.Abs(got-20) > 1e-9 {
		t.Fatalf("Separation(350, 10) = %v, want 20", got)
	}
	if Separation(10, 350) != Separation(350, 10) {
		t.Fatal("Separation is not symmetric")
	}
}

func TestSignIndex_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lon  float64
		want int
	}{
		{lon: 0, want: 0},
		{lon: 29.999, want: 0},
		{lon: 30, want: 1},
		{lon: 359.999, want: 11},
		{lon: 360, want: 0},
		{lon: -1, want: 11},
	}
	for _, tc := range tests {
		if got := SignIndex(tc.lon); got != tc.want {
			t.Fatalf("SignIndex(%v) = %d, want %d", tc.lon, got, tc.want)
		}
	}
}

func TestSignName_Wraps(t *testing.T) {
	t.Parallel()

	if got := SignName(0); got != "Aries" {
		t.Fatalf("SignName(0) = %q", got)
	}
	if got := SignName(11); got != "Pisces" {
		t.Fatalf("SignName(11) = %q", got)
	}
	if got := SignName(12); got != "Aries" {
		t.Fatalf("SignName(12) = %q", got)
	}
	if got := SignName(-1); got != "Pisces" {
		t.Fatalf("SignName(-1) = %q", got)
	}
}

func TestCuspDeg(t *testing.T) {
	t.Parallel()

	if got := CuspDeg(4); got != 120 {
		t.Fatalf("CuspDeg(4) = %v, want 120", got)
	}
	if got := CuspDeg(12); got != 0 {
		t.Fatalf("CuspDeg(12) = %v, want 0", got)
	}
}

// The ascendant sweeps the full circle roughly once per day, so samples a
// quarter sidereal day apart should land in distinct quadrants.
func TestAscendant_AdvancesThroughDay(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	lat, lon := 51.4779, -0.0015

	seen := map[int]bool{}
	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * 5 * time.Hour)
		asc := Ascendant(at, lat, lon)
		if asc < 0 || asc >= 360 {
			t.Fatalf("Ascendant out of range: %v", asc)
		}
		seen[SignIndex(asc)] = true
	}
	if len(seen) < 3 {
		t.Fatalf("ascendant barely moved across 15h, signs seen: %v", seen)
	}
}

func TestAscendant_LongitudeShiftsRising(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Ascendant(at, 40, 0)
	b := Ascendant(at, 40, 90)
	if Separation(a, b) < 1 {
		t.Fatalf("90 degrees of observer longitude produced near-identical ascendants: %v vs %v", a, b)
	}
}

func TestObliquityDeg_NearModernValue(t *testing.T) {
	t.Parallel()

	eps := ObliquityDeg(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if eps < 23.4 || eps > 23.5 {
		t.Fatalf("obliquity = %v, want about 23.44", eps)
	}
}
