package solar

import (
	"math"
	"testing"
)

func seq(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i + 1)
	}
	return x
}

func TestWeights13(t *testing.T) {
	w := Weights13()

	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
	if w[0] != 1.0/24 || w[12] != 1.0/24 {
		t.Errorf("edge weights = %v, %v, want 1/24", w[0], w[12])
	}
	for i := 1; i < 12; i++ {
		if w[i] != 1.0/12 {
			t.Errorf("w[%d] = %v, want 1/12", i, w[i])
		}
	}
}

func TestRunningMean13_Length(t *testing.T) {
	for n := 0; n <= 40; n++ {
		if got := len(RunningMean13(seq(n))); got != n {
			t.Errorf("len(RunningMean13(n=%d)) = %d", n, got)
		}
	}
	if got := RunningMean13(nil); len(got) != 0 {
		t.Errorf("RunningMean13(nil) = %v, want empty", got)
	}
}

func TestRunningMean13_FiniteInput(t *testing.T) {
	x := seq(29)
	y := RunningMean13(x)

	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("y[%d] = %v, want finite", i, v)
		}
	}

	// A symmetric weighted mean of a linear ramp returns the center.
	for i := 6; i <= 22; i++ {
		if math.Abs(y[i]-x[i]) > 1e-9 {
			t.Errorf("y[%d] = %v, want %v", i, y[i], x[i])
		}
	}

	tests := []struct {
		index int
		want  float64
	}{
		{0, 4},     // mean(1..7)
		{1, 4.5},   // mean(1..8)
		{5, 6.5},   // mean(1..12)
		{23, 23.5}, // mean(18..29)
		{28, 26},   // mean(23..29)
	}
	for _, tt := range tests {
		if math.Abs(y[tt.index]-tt.want) > 1e-9 {
			t.Errorf("y[%d] = %v, want %v", tt.index, y[tt.index], tt.want)
		}
	}
}

func TestRunningMean13_WeightedWindow(t *testing.T) {
	// Spike at the window edge gets half the weight of an inner month.
	x := make([]float64, 13)
	x[0] = 24
	y := RunningMean13(x)
	if math.Abs(y[6]-1) > 1e-12 {
		t.Errorf("edge spike: y[6] = %v, want 1", y[6])
	}

	x = make([]float64, 13)
	x[1] = 12
	y = RunningMean13(x)
	if math.Abs(y[6]-1) > 1e-12 {
		t.Errorf("inner spike: y[6] = %v, want 1", y[6])
	}
}

func TestRunningMean13_ShortSeries(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want []float64
	}{
		{"single", []float64{5}, []float64{5}},
		{"three", []float64{1, 2, 3}, []float64{2, 2, 2}},
		{"with gap", []float64{1, math.NaN(), 3}, []float64{2, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RunningMean13(tt.x)
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("y[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	// n=12: every window is partial, so gaps never propagate.
	x := seq(12)
	x[6] = math.NaN()
	for i, v := range RunningMean13(x) {
		if math.IsNaN(v) {
			t.Errorf("n=12: y[%d] is NaN, want mean of available values", i)
		}
	}
}

func TestRunningMean13_BoundarySizing(t *testing.T) {
	// A gap at index 0 only reaches the full window centered at 6, and a
	// gap at n-1 only the full window centered at n-7. Every partial
	// window skips them.
	const n = 29
	x := seq(n)
	x[0] = math.NaN()
	x[n-1] = math.NaN()
	y := RunningMean13(x)

	for i := 0; i < n; i++ {
		wantNaN := i == 6 || i == n-7
		if math.IsNaN(y[i]) != wantNaN {
			t.Errorf("y[%d] = %v, want NaN=%v", i, y[i], wantNaN)
		}
	}
	if math.Abs(y[0]-mean(x[1:7])) > 1e-12 {
		t.Errorf("y[0] = %v, want %v", y[0], mean(x[1:7]))
	}
}

func TestRunningMean13_GapPropagatesInFullWindow(t *testing.T) {
	const n = 20
	x := seq(n)
	x[10] = math.NaN()
	y := RunningMean13(x)

	for i := 0; i < n; i++ {
		full := i >= 6 && i <= n-7
		covers := i-6 <= 10 && 10 <= i+6
		wantNaN := full && covers
		if math.IsNaN(y[i]) != wantNaN {
			t.Errorf("y[%d] = %v, want NaN=%v", i, y[i], wantNaN)
		}
	}
	if math.Abs(y[4]-5.5) > 1e-12 {
		t.Errorf("y[4] = %v, want 5.5 (mean of 1..10)", y[4])
	}
}

func TestRunningMean13_AllMissingWindow(t *testing.T) {
	x := seq(15)
	for i := 0; i < 7; i++ {
		x[i] = math.NaN()
	}
	y := RunningMean13(x)
	if !math.IsNaN(y[0]) {
		t.Errorf("y[0] = %v, want NaN", y[0])
	}
	if math.IsNaN(y[1]) {
		t.Errorf("y[1] = NaN, want mean of x[7]")
	}

	allNaN := []float64{math.NaN(), math.NaN(), math.NaN()}
	for i, v := range RunningMean13(allNaN) {
		if !math.IsNaN(v) {
			t.Errorf("all missing: y[%d] = %v, want NaN", i, v)
		}
	}
}

func TestRunningMean13_Deterministic(t *testing.T) {
	x := seq(40)
	x[3] = math.NaN()
	x[20] = math.NaN()

	a := RunningMean13(x)
	b := RunningMean13(x)
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Errorf("run differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
	if !math.IsNaN(x[3]) || x[4] != 5 {
		t.Error("input was modified")
	}
}

func TestSmoothColumn(t *testing.T) {
	tbl := &Table{
		Dates:   monthRange(2020, 1, 3),
		Columns: []Column{{Name: "R", Values: []NullFloat{Float(1), {}, Float(3)}}},
	}

	out, err := SmoothColumn(tbl, "R", "R_smooth")
	if err != nil {
		t.Fatalf("SmoothColumn: %v", err)
	}
	col, ok := out.Column("R_smooth")
	if !ok {
		t.Fatal("R_smooth column missing")
	}
	for i, v := range col.Values {
		if !v.Valid || v.Float64 != 2 {
			t.Errorf("R_smooth[%d] = %+v, want 2", i, v)
		}
	}
	if len(tbl.Columns) != 1 {
		t.Errorf("source table gained columns: %d", len(tbl.Columns))
	}

	if _, err := SmoothColumn(tbl, "missing", "x"); err == nil {
		t.Error("SmoothColumn on unknown column succeeded")
	}
}

func mean(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}
