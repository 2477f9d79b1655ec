package geom

import (
	"math"
	"testing"
)

func TestVecOps(t *testing.T) {
	a := Vec2{3, 4}
	b := Vec2{1, -2}

	if got := a.Add(b); got != (Vec2{4, 2}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec2{2, 6}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec2{6, 8}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length = %v", got)
	}
}

func TestNormalize(t *testing.T) {
	v := Vec2{3, 4}.Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %v", v.Length())
	}
	if got := (Vec2{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0.3, 0.3, 3.0, 0.3},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v,%v,%v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Errorf("Lerp = %v", got)
	}
	if got := Lerp(2, 4, 0); got != 2 {
		t.Errorf("Lerp t=0 = %v", got)
	}
	if got := Lerp(2, 4, 1); got != 4 {
		t.Errorf("Lerp t=1 = %v", got)
	}
}

func TestClampRect(t *testing.T) {
	v := Vec2{-3, 250}.ClampRect(200, 200)
	if v != (Vec2{0, 200}) {
		t.Errorf("ClampRect = %v", v)
	}
}

func TestMoveToward(t *testing.T) {
	from := Vec2{0, 0}
	to := Vec2{10, 0}

	got, d := MoveToward(from, to, 4)
	if got != (Vec2{4, 0}) || d != 4 {
		t.Errorf("MoveToward capped = %v, %v", got, d)
	}

	got, d = MoveToward(from, to, 50)
	if got != to || d != 10 {
		t.Errorf("MoveToward reaching = %v, %v", got, d)
	}
}
