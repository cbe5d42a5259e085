// Package picking provides ray casting for object picking: screen to
// world rays, ray/plane and ray/box intersection with face normals.
package picking

import (
	gomath "math"

	"github.com/fairwaylab/greenside/pkg/math"
)

// Ray is a half-line in world space.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // normalized
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float64, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1, 1})
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1, 1})

	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := math.Vec3{X: nearWorld[0], Y: nearWorld[1], Z: nearWorld[2]}
	dir := math.Vec3{
		X: farWorld[0] - nearWorld[0],
		Y: farWorld[1] - nearWorld[1],
		Z: farWorld[2] - nearWorld[2],
	}.Normalize()

	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects the ray with the horizontal plane at the
// given Y level. Returns the intersection point and whether it is valid.
func (r Ray) IntersectPlaneY(planeY float64) (math.Vec3, bool) {
	if gomath.Abs(r.Direction.Y) < 1e-6 {
		return math.Vec3{}, false // parallel
	}
	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false // behind origin
	}
	return r.At(t), true
}

// IntersectPlane intersects the ray with an arbitrary plane through
// point with the given normal.
func (r Ray) IntersectPlane(point, normal math.Vec3) (math.Vec3, bool) {
	denom := r.Direction.Dot(normal)
	if gomath.Abs(denom) < 1e-9 {
		return math.Vec3{}, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// Hit describes a ray/box intersection.
type Hit struct {
	T      float64   // distance along the ray
	Point  math.Vec3 // world-space hit point
	Normal math.Vec3 // outward normal of the entered face
}

// IntersectAABB tests the ray against a box using the slab method and
// reports the entry face normal. Rays starting inside the box miss.
func (r Ray) IntersectAABB(box AABB) (Hit, bool) {
	tmin := gomath.Inf(-1)
	tmax := gomath.Inf(1)
	var normal math.Vec3

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if gomath.Abs(dir[axis]) < 1e-12 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return Hit{}, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		sign := -1.0 // entering through the min face
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tmin {
			tmin = t1
			normal = math.Vec3{}
			switch axis {
			case 0:
				normal.X = sign
			case 1:
				normal.Y = sign
			case 2:
				normal.Z = sign
			}
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 || tmin < 0 {
		return Hit{}, false
	}
	return Hit{T: tmin, Point: r.At(tmin), Normal: normal}, true
}

// NewAABB creates a box from center and size.
func NewAABB(center, size math.Vec3) AABB {
	half := size.Scale(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// NewAABBRotatedY creates a conservative box for a node rotated about Y:
// the half-extents are expanded so the rotated footprint stays covered.
func NewAABBRotatedY(center, size math.Vec3, rotDeg float64) AABB {
	s, c := gomath.Sincos(math.Radians(rotDeg))
	as, ac := gomath.Abs(s), gomath.Abs(c)
	ext := math.Vec3{
		X: ac*size.X + as*size.Z,
		Y: size.Y,
		Z: as*size.X + ac*size.Z,
	}
	return NewAABB(center, ext)
}
