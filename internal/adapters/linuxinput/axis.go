package linuxinput

import "math"

const (
	axisMin = -32768
	axisMax = 32767
)

// axisRange is the reported range of one absolute axis. Pads that do not
// use the signed 16-bit range are stretched onto it so shaping sees the same
// scale on every device.
type axisRange struct {
	min int32
	max int32
}

func (r axisRange) native() bool {
	return r.min == axisMin && r.max == axisMax
}

func (r axisRange) rescale(v int32) int32 {
	if r.native() || r.max <= r.min {
		return v
	}
	if v <= r.min {
		return axisMin
	}
	if v >= r.max {
		return axisMax
	}
	span := float64(r.max) - float64(r.min)
	scaled := float64(axisMin) + (float64(v)-float64(r.min))*(float64(axisMax)-float64(axisMin))/span
	return int32(math.Round(scaled))
}
