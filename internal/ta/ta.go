package ta

import (
	"math"

	"dma-backtester/internal/types"
)

// SMA returns the simple moving average of the trailing n values.
func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// SMASeries computes the trailing simple moving average at every index.
// Values are NaN until n points of history exist. The value at index i
// depends only on closes[0..i], never on later points.
func SMASeries(closes []float64, n int) []float64 {
	out := make([]float64, len(closes))
	if n <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	// NaN closes are tracked by count rather than folded into the running
	// sum, so the average recovers once a bad point leaves the window.
	sum := 0.0
	nans := 0
	for i, c := range closes {
		if math.IsNaN(c) {
			nans++
		} else {
			sum += c
		}
		if i >= n {
			old := closes[i-n]
			if math.IsNaN(old) {
				nans--
			} else {
				sum -= old
			}
		}
		if i >= n-1 && nans == 0 {
			out[i] = sum / float64(n)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// MinSeries computes the trailing rolling minimum over n values at every
// index, NaN until n points of history exist.
func MinSeries(vals []float64, n int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		if n <= 0 || i < n-1 {
			out[i] = math.NaN()
			continue
		}
		m := vals[i]
		for j := i - n + 1; j < i; j++ {
			if math.IsNaN(vals[j]) {
				m = math.NaN()
				break
			}
			if vals[j] < m {
				m = vals[j]
			}
		}
		out[i] = m
	}
	return out
}

// Frame is one candle augmented with its trailing indicators. Indicator
// values are NaN wherever the trailing window is not yet full.
type Frame struct {
	types.Candle
	SMA map[int]float64
	Min float64 // rolling minimum over the smallest window, NaN when unused
}

// Frames derives the indicator-augmented series for the given window set.
// minWindow selects the rolling-minimum window; pass 0 to skip it.
func Frames(candles []types.Candle, windows []int, minWindow int) []Frame {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	smas := make(map[int][]float64, len(windows))
	for _, w := range windows {
		smas[w] = SMASeries(closes, w)
	}
	var mins []float64
	if minWindow > 0 {
		mins = MinSeries(closes, minWindow)
	}

	frames := make([]Frame, len(candles))
	for i, c := range candles {
		f := Frame{Candle: c, SMA: make(map[int]float64, len(windows)), Min: math.NaN()}
		for _, w := range windows {
			f.SMA[w] = smas[w][i]
		}
		if mins != nil {
			f.Min = mins[i]
		}
		frames[i] = f
	}
	return frames
}
