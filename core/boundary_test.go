package core

import (
	"math"
	"testing"
)

func TestBoundaryZeroRadiusDegeneratesToOrigin(t *testing.T) {
	points := Boundary(0, 135, 2.5, DefaultMinSpacing)

	if len(points) == 0 {
		t.Fatalf("Boundary(0, ...) returned no points")
	}
	for i, p := range points {
		if math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 {
			t.Fatalf("point %d = %+v, want origin", i, p)
		}
	}
}

func TestBoundaryMinSpacingFloor(t *testing.T) {
	const minSpacing = 3.0
	points := Boundary(120, 45, 1.8, minSpacing)

	if len(points) < 2 {
		t.Fatalf("expected a multi-point boundary, got %d points", len(points))
	}
	// Every consecutive accepted pair honours the floor. The wrap-around
	// closing segment is deliberately unconstrained.
	for i := 1; i < len(points); i++ {
		d := math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
		if d < minSpacing {
			t.Fatalf("points %d-%d are %v apart, want >= %v", i-1, i, d, minSpacing)
		}
	}
}

func TestBoundaryCalmWindIsCircle(t *testing.T) {
	const radius = 100.0
	points := Boundary(radius, 0, 1.0, 1)

	for i, p := range points {
		r := math.Hypot(p.X, p.Y)
		if math.Abs(r-radius) > 1e-9 {
			t.Fatalf("point %d at radius %v, want %v (factor 1 must give a circle)", i, r, radius)
		}
	}
}

func TestBoundaryElongatesDownwind(t *testing.T) {
	const (
		radius = 100.0
		factor = 2.0
	)
	// Wind toward 0° (the +X axis): the lobe points east.
	points := Boundary(radius, 0, factor, 1)

	var maxX, minX float64
	for _, p := range points {
		if p.X > maxX {
			maxX = p.X
		}
		if p.X < minX {
			minX = p.X
		}
	}

	k := (factor - 1) * 1.5
	wantDownwind := radius * (1 + k)

	if math.Abs(maxX-wantDownwind) > radius*0.05 {
		t.Errorf("downwind extent = %v, want ~%v", maxX, wantDownwind)
	}
	// With factor 2 the upwind radius goes negative (r flips through the
	// origin), so the shape folds; the upwind reach must stay well short of
	// the downwind lobe.
	if math.Abs(minX) >= maxX {
		t.Errorf("upwind extent %v should be smaller than downwind extent %v", minX, maxX)
	}
}

func TestBoundaryWithStepGuardsBadStep(t *testing.T) {
	points := BoundaryWithStep(50, 0, 1.2, 1, 0)
	if len(points) == 0 {
		t.Fatalf("zero angular step must fall back to the default, got empty boundary")
	}
}

func TestBoundaryIsDeterministic(t *testing.T) {
	a := Boundary(75, 210, 1.4, 3)
	b := Boundary(75, 210, 1.4, 3)

	if len(a) != len(b) {
		t.Fatalf("repeated calls differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between identical calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}
