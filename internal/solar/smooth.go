package solar

import (
	"fmt"
	"math"
)

const (
	// WindowRadius is the number of months on each side of the center.
	WindowRadius = 6

	// WindowSize is the full 13-month window.
	WindowSize = 2*WindowRadius + 1
)

// Weights13 returns the full-window weights: 1/24 for the two edge
// months (offsets -6 and +6), 1/12 for the eleven inner months.
func Weights13() [WindowSize]float64 {
	var w [WindowSize]float64
	for i := range w {
		w[i] = 1.0 / 12.0
	}
	w[0] = 1.0 / 24.0
	w[WindowSize-1] = 1.0 / 24.0
	return w
}

// RunningMean13 computes the 13-month smoothed running mean of x.
// Missing values are NaN and the output has the same length as x.
//
// Where the full 13-month window fits, the weighted sum is used and a
// NaN anywhere in the window makes the result NaN. Near either end the
// window is clipped and the result is the mean of the non-NaN values,
// or NaN if there are none.
func RunningMean13(x []float64) []float64 {
	n := len(x)
	y := make([]float64, n)
	w := Weights13()

	for i := 0; i < n; i++ {
		lo := max(0, i-WindowRadius)
		hi := min(n-1, i+WindowRadius)

		if hi-lo+1 == WindowSize {
			var sum float64
			for k := 0; k < WindowSize; k++ {
				sum += w[k] * x[lo+k]
			}
			y[i] = sum
			continue
		}

		y[i] = nanMean(x[lo : hi+1])
	}

	return y
}

func nanMean(x []float64) float64 {
	var sum float64
	count := 0
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// SmoothColumn smooths one table column and returns a new table with the
// result appended as out.
func SmoothColumn(t *Table, name, out string) (*Table, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %s not found", name)
	}
	return t.WithColumn(out, FromFloats(RunningMean13(col.Floats())))
}
