package xypad

import "math"

const (
	axisNegativeScale = 32768.0
	axisPositiveScale = 32767.0

	minSmoothStep = 0.05
)

// Normalize maps a raw signed 16-bit axis value onto [-1, 1]. The device
// range is asymmetric, so each side is scaled by its own extent.
func Normalize(raw int32) float64 {
	if raw < 0 {
		return float64(raw) / axisNegativeScale
	}
	return float64(raw) / axisPositiveScale
}

// ApplyDeadzone zeroes values inside the deadzone and rescales the rest so
// the output still spans [-1, 1].
func ApplyDeadzone(unit, deadzone float64) float64 {
	if math.IsNaN(unit) {
		return 0
	}
	if math.Abs(unit) < deadzone {
		return 0
	}
	if deadzone >= 1 {
		return 0
	}
	v := (math.Abs(unit) - deadzone) / (1 - deadzone)
	if unit < 0 {
		v = -v
	}
	return clamp(v, -1, 1)
}

// ApplyExpo bends the response curve while preserving the sign. Exponents
// above 1 give finer control near the center.
func ApplyExpo(unit, expo float64) float64 {
	sign := 1.0
	if unit < 0 {
		sign = -1.0
	}
	return finiteUnit(sign * math.Pow(math.Abs(unit), expo))
}

// StickToUnit runs the full per-axis shaping chain for one raw sample.
func StickToUnit(raw int32, deadzone, expo float64) float64 {
	n := Normalize(raw)
	if math.Abs(n) < deadzone {
		return 0
	}
	return ApplyExpo(ApplyDeadzone(n, deadzone), expo)
}

// ProjectToRectangle maps stick units onto the rectangle: the stick center
// is the rectangle center and full deflection reaches the edges. The result
// is clamped to the rectangle and truncated toward zero.
func ProjectToRectangle(xUnit, yUnit float64, rect Rect, invertY bool) Point {
	xUnit = finiteUnit(xUnit)
	yUnit = finiteUnit(yUnit)
	cx := float64(rect.X1+rect.X2) / 2
	cy := float64(rect.Y1+rect.Y2) / 2
	halfW := float64(rect.X2-rect.X1) / 2
	halfH := float64(rect.Y2-rect.Y1) / 2

	if invertY {
		yUnit = -yUnit
	}
	x := cx + xUnit*halfW
	y := cy + yUnit*halfH

	return Point{
		X: int(clamp(x, float64(rect.X1), float64(rect.X2))),
		Y: int(clamp(y, float64(rect.Y1), float64(rect.Y2))),
	}
}

// SmoothMove performs one exponential-moving-average step from previous
// toward target. Without history, or with smoothing disabled, it jumps
// straight to target.
func SmoothMove(target Point, previous Point, hasPrevious bool, factor float64) Point {
	if !hasPrevious || factor <= 0 {
		return target
	}
	t := clamp(1-factor, minSmoothStep, 1)
	return Point{
		X: int(lerp(float64(previous.X), float64(target.X), t)),
		Y: int(lerp(float64(previous.Y), float64(target.Y), t)),
	}
}

func finiteUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return 1
	case math.IsInf(v, -1):
		return -1
	}
	return v
}

// clamp mirrors max(lo, min(hi, v)); with lo > hi it yields lo.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
