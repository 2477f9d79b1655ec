package telemetry

import (
	"math"
	"testing"
)

func TestDistribution(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	mean, std, p10, p50, p90 := Distribution(values)

	if math.Abs(mean-0.55) > 1e-9 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if std <= 0 {
		t.Errorf("std = %v, want positive", std)
	}
	if p10 > p50 || p50 > p90 {
		t.Errorf("quantiles out of order: %v %v %v", p10, p50, p90)
	}
	if p10 < 0.1 || p90 > 1.0 {
		t.Errorf("quantiles outside sample range: %v %v", p10, p90)
	}
}

func TestDistributionUnsortedInput(t *testing.T) {
	a := []float64{3, 1, 2}
	b := []float64{1, 2, 3}
	am, as, a10, a50, a90 := Distribution(a)
	bm, bs, b10, b50, b90 := Distribution(b)
	if am != bm || as != bs || a10 != b10 || a50 != b50 || a90 != b90 {
		t.Error("Distribution depends on input order")
	}
	// The input slice must not be reordered.
	if a[0] != 3 || a[1] != 1 || a[2] != 2 {
		t.Error("Distribution mutated its input")
	}
}

func TestDistributionEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := Distribution(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty sample should yield zeros")
	}
}

func TestDistributionSingle(t *testing.T) {
	mean, std, p10, p50, p90 := Distribution([]float64{0.4})
	if mean != 0.4 || std != 0 {
		t.Errorf("mean=%v std=%v", mean, std)
	}
	if p10 != 0.4 || p50 != 0.4 || p90 != 0.4 {
		t.Errorf("quantiles = %v %v %v", p10, p50, p90)
	}
}
