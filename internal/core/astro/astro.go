// Package astro provides wrap-aware angle math on the ecliptic circle
// plus zodiac sign helpers and a derived ascendant angle.
//
// All angles are degrees. Longitudes live on [0,360); comparisons between
// longitudes must go through DeltaDeg or Separation so that the 359->0 wrap
// never reads as a 359 degree move.
package astro

import (
	"math"
	"time"
)

// SignNames are the twelve zodiac sign names indexed by SignIndex
var SignNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// SignSpanDeg is the arc covered by one zodiac sign
const SignSpanDeg = 30.0

// NormalizeDeg maps any angle to [0,360)
func NormalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// DeltaDeg returns the signed shortest arc from one longitude to another,
// in (-180,180]. DeltaDeg(359.9, 0.1) is +0.2, never -359.8
func DeltaDeg(from, to float64) float64 {
	d := NormalizeDeg(to) - NormalizeDeg(from)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

// Separation returns the absolute shortest arc between two longitudes, in [0,180]
func Separation(a, b float64) float64 {
	return math.Abs(DeltaDeg(a, b))
}

// SignIndex returns the zodiac sign index 0..11 for a longitude
func SignIndex(lon float64) int {
	return int(NormalizeDeg(lon) / SignSpanDeg)
}

// SignName returns the sign name for an index; out-of-range indexes wrap
func SignName(i int) string {
	i %= 12
	if i < 0 {
		i += 12
	}
	return SignNames[i]
}

// CuspDeg returns the longitude of the cusp opening sign index i
func CuspDeg(i int) float64 {
	i %= 12
	if i < 0 {
		i += 12
	}
	return float64(i) * SignSpanDeg
}

// j2000 is the reference epoch for the sidereal-time polynomial
var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// daysSinceJ2000 returns fractional days from the J2000 epoch
func daysSinceJ2000(t time.Time) float64 {
	return t.Sub(j2000).Seconds() / 86400.0
}

// gmstDeg returns Greenwich mean sidereal time as an angle in [0,360)
func gmstDeg(t time.Time) float64 {
	d := daysSinceJ2000(t)
	return NormalizeDeg(280.46061837 + 360.98564736629*d)
}

// ObliquityDeg returns the mean obliquity of the ecliptic at t
func ObliquityDeg(t time.Time) float64 {
	cty := daysSinceJ2000(t) / 36525.0
	return 23.43929111 - 0.0130042*cty
}

// Ascendant returns the tropical ascendant longitude for an observer at
// latDeg/lonDeg (east positive) at instant t. The angle advances through the
// full circle roughly once per sidereal day, which is why horizon scans use a
// much finer step than planetary scans
func Ascendant(t time.Time, latDeg, lonDeg float64) float64 {
	ramc := (gmstDeg(t) + lonDeg) * math.Pi / 180
	eps := ObliquityDeg(t) * math.Pi / 180
	lat := latDeg * math.Pi / 180

	asc := math.Atan2(math.Cos(ramc), -(math.Sin(ramc)*math.Cos(eps) + math.Tan(lat)*math.Sin(eps)))
	return NormalizeDeg(asc * 180 / math.Pi)
}
