package game

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{-4 * math.Pi, 0},
	}
	for _, c := range cases {
		got := NormalizeAngle(c.in)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAngleInRange_Plain(t *testing.T) {
	// min <= max: inclusive on both bounds.
	if !AngleInRange(1.0, 0.5, 1.5) {
		t.Fatal("1.0 should be inside [0.5, 1.5]")
	}
	if !AngleInRange(0.5, 0.5, 1.5) {
		t.Fatal("lower bound must be inclusive")
	}
	if !AngleInRange(1.5, 0.5, 1.5) {
		t.Fatal("upper bound must be inclusive")
	}
	if AngleInRange(1.51, 0.5, 1.5) {
		t.Fatal("1.51 should be outside [0.5, 1.5]")
	}
	if AngleInRange(0.49, 0.5, 1.5) {
		t.Fatal("0.49 should be outside [0.5, 1.5]")
	}
}

func TestAngleInRange_Wraparound(t *testing.T) {
	// min > max wraps past 2π: containment is angle >= min OR angle <= max.
	min := 15 * math.Pi / 8
	max := math.Pi / 8
	if !AngleInRange(0, min, max) {
		t.Fatal("0 should be inside wrapped range")
	}
	if !AngleInRange(min, min, max) {
		t.Fatal("wrapped lower bound must be inclusive")
	}
	if !AngleInRange(max, min, max) {
		t.Fatal("wrapped upper bound must be inclusive")
	}
	if !AngleInRange(2*math.Pi-0.01, min, max) {
		t.Fatal("angle just below 2π should be inside wrapped range")
	}
	if AngleInRange(math.Pi, min, max) {
		t.Fatal("π should be outside wrapped range")
	}
}

func TestAngleInRange_NormalizesInputs(t *testing.T) {
	if !AngleInRange(-math.Pi/16, 15*math.Pi/8, math.Pi/8) {
		t.Fatal("negative angle should normalize into the wrapped range")
	}
}

func TestPolar(t *testing.T) {
	origin := Vec2{X: 100, Y: 100}
	angle, dist := Polar(origin, Vec2{X: 150, Y: 100})
	if math.Abs(angle) > 1e-12 || math.Abs(dist-50) > 1e-12 {
		t.Fatalf("point to the right: angle=%v dist=%v", angle, dist)
	}
	// Screen space: +Y is down, so straight down is π/2.
	angle, dist = Polar(origin, Vec2{X: 100, Y: 180})
	if math.Abs(angle-math.Pi/2) > 1e-12 || math.Abs(dist-80) > 1e-12 {
		t.Fatalf("point below: angle=%v dist=%v", angle, dist)
	}
}

func TestPolar_ZeroVector(t *testing.T) {
	angle, dist := Polar(Vec2{X: 5, Y: 5}, Vec2{X: 5, Y: 5})
	if angle != 0 || dist != 0 {
		t.Fatalf("zero-length vector must be (0, 0), got (%v, %v)", angle, dist)
	}
}

func TestLerpVec(t *testing.T) {
	got := LerpVec(Vec2{X: 0, Y: 0}, Vec2{X: 10, Y: -20}, 0.25)
	if got.X != 2.5 || got.Y != -5 {
		t.Fatalf("LerpVec = %+v", got)
	}
}
