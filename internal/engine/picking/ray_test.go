package picking

import (
	gomath "math"
	"testing"

	"github.com/fairwaylab/greenside/pkg/math"
)

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.Vec3{X: 2, Y: 10, Z: -3}, Direction: math.Vec3{Y: -1}}
	p, ok := r.IntersectPlaneY(0)
	if !ok {
		t.Fatal("expected hit")
	}
	if p != (math.Vec3{X: 2, Y: 0, Z: -3}) {
		t.Errorf("hit point: %v", p)
	}

	// Parallel ray misses.
	r = Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1}}
	if _, ok := r.IntersectPlaneY(0); ok {
		t.Error("parallel ray should miss")
	}

	// Plane behind origin misses.
	r = Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{Y: 1}}
	if _, ok := r.IntersectPlaneY(0); ok {
		t.Error("plane behind origin should miss")
	}
}

func TestIntersectAABBFaceNormals(t *testing.T) {
	box := NewAABB(math.Vec3{X: 2, Y: 1, Z: -2}, math.Vec3{X: 4, Y: 2, Z: 4})

	tests := []struct {
		name       string
		ray        Ray
		wantNormal math.Vec3
		wantPoint  math.Vec3
	}{
		{
			"+x face",
			Ray{Origin: math.Vec3{X: 100, Y: 1, Z: -2}, Direction: math.Vec3{X: -1}},
			math.Vec3{X: 1},
			math.Vec3{X: 4, Y: 1, Z: -2},
		},
		{
			"-x face",
			Ray{Origin: math.Vec3{X: -100, Y: 1, Z: -2}, Direction: math.Vec3{X: 1}},
			math.Vec3{X: -1},
			math.Vec3{X: 0, Y: 1, Z: -2},
		},
		{
			"+y face",
			Ray{Origin: math.Vec3{X: 2, Y: 100, Z: -2}, Direction: math.Vec3{Y: -1}},
			math.Vec3{Y: 1},
			math.Vec3{X: 2, Y: 2, Z: -2},
		},
		{
			"+z face",
			Ray{Origin: math.Vec3{X: 2, Y: 1, Z: 100}, Direction: math.Vec3{Z: -1}},
			math.Vec3{Z: 1},
			math.Vec3{X: 2, Y: 1, Z: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := tt.ray.IntersectAABB(box)
			if !ok {
				t.Fatal("expected hit")
			}
			if hit.Normal != tt.wantNormal {
				t.Errorf("normal: got %v, want %v", hit.Normal, tt.wantNormal)
			}
			if hit.Point.Distance(tt.wantPoint) > 1e-9 {
				t.Errorf("point: got %v, want %v", hit.Point, tt.wantPoint)
			}
		})
	}
}

func TestIntersectAABBMiss(t *testing.T) {
	box := NewAABB(math.Vec3{}, math.Vec3{X: 2, Y: 2, Z: 2})

	r := Ray{Origin: math.Vec3{X: 10, Y: 10, Z: 10}, Direction: math.Vec3{X: 1}}
	if _, ok := r.IntersectAABB(box); ok {
		t.Error("ray pointing away should miss")
	}

	r = Ray{Origin: math.Vec3{X: 5, Y: 0, Z: 0}, Direction: math.Vec3{Z: 1}}
	if _, ok := r.IntersectAABB(box); ok {
		t.Error("offset parallel ray should miss")
	}
}

func TestIntersectPlane(t *testing.T) {
	// Camera-facing plane used by the extrude drag.
	r := Ray{Origin: math.Vec3{X: 0, Y: 5, Z: 10}, Direction: math.Vec3{Z: -1}}
	p, ok := r.IntersectPlane(math.Vec3{Z: 2}, math.Vec3{Z: 1})
	if !ok {
		t.Fatal("expected hit")
	}
	if p.Z != 2 {
		t.Errorf("hit z: got %v", p.Z)
	}
}

func TestNewAABBRotatedY(t *testing.T) {
	size := math.Vec3{X: 4, Y: 2, Z: 2}

	// 90 degrees swaps the X and Z extents.
	box := NewAABBRotatedY(math.Vec3{}, size, 90)
	if gomath.Abs(box.Max.X-1) > 1e-9 || gomath.Abs(box.Max.Z-2) > 1e-9 {
		t.Errorf("rotated extents: %v", box)
	}

	// 0 degrees leaves them alone.
	box = NewAABBRotatedY(math.Vec3{}, size, 0)
	if box.Max.X != 2 || box.Max.Z != 1 {
		t.Errorf("unrotated extents: %v", box)
	}
}

func TestScreenToRayCenterLooksForward(t *testing.T) {
	view := math.LookAt(math.Vec3{Y: 10, Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(gomath.Pi/4, 1, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 300, 800, 600, inv)

	// A center-screen ray from (0,10,10) looking at origin heads toward
	// the origin.
	want := math.Vec3{}.Sub(math.Vec3{Y: 10, Z: 10}).Normalize()
	if r.Direction.Sub(want).Length() > 1e-6 {
		t.Errorf("direction: got %v, want %v", r.Direction, want)
	}
}
