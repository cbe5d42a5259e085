// Package camera provides the editor's orbit camera.
package camera

import (
	gomath "math"

	"github.com/fairwaylab/greenside/pkg/math"
)

// OrbitCamera orbits around a center point on the course.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float64 // distance from center
	RotationX float64 // pitch (vertical angle, radians)
	RotationY float64 // yaw (horizontal angle, radians)

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
}

// New creates an orbit camera framing the default course.
func New() *OrbitCamera {
	return &OrbitCamera{
		Center:          math.Vec3{},
		Distance:        60.0,
		RotationX:       0.7,
		RotationY:       0.0,
		MinDistance:     5.0,
		MaxDistance:     300.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := gomath.Sincos(c.RotationX)
	sy, cy := gomath.Sincos(c.RotationY)
	return math.Vec3{
		X: c.Center.X + c.Distance*cp*sy,
		Y: c.Center.Y + c.Distance*sp,
		Z: c.Center.Z + c.Distance*cp*cy,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float64) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandlePan moves the center point across the ground plane relative to
// the current yaw. Speed scales with distance for consistent feel.
func (c *OrbitCamera) HandlePan(forward, right float64) {
	speed := c.Distance * 0.01
	sy, cy := gomath.Sincos(c.RotationY)

	c.Center.X += (-sy*forward + cy*right) * speed
	c.Center.Z += (-cy*forward - sy*right) * speed
}

// FitToBounds frames the given bounding box.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Center = math.Vec3{
		X: (min.X + max.X) / 2,
		Y: (min.Y + max.Y) / 2,
		Z: (min.Z + max.Z) / 2,
	}

	size := max.X - min.X
	if max.Z-min.Z > size {
		size = max.Z - min.Z
	}

	c.Distance = size * 1.2
	if c.Distance < 20 {
		c.Distance = 20
	}
	c.RotationX = 0.7
	c.RotationY = 0.0
}
