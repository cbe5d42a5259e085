// Package scene keeps a 1-to-1 correspondence between document records
// and renderable scene nodes. It owns node lifecycle: nodes are created
// and updated as the document changes and their geometry and material
// resources are released when the record goes away or the document is
// replaced.
package scene

import (
	gomath "math"
	"math/rand"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/pkg/math"
)

// Handle identifies a geometry or material allocation on the renderer
// side. Zero means "no resource".
type Handle uint64

// Shape selects the base geometry of a node.
type Shape int

const (
	ShapeNone Shape = iota // group nodes (fan root)
	ShapeBox
	ShapeSphere
	ShapeCylinder
	ShapePlane
)

// Resources allocates and releases renderer-side geometry and material
// objects. The GL backend implements it with real GPU buffers; tests use
// a counting fake to verify the release discipline.
type Resources interface {
	AcquireGeometry(shape Shape) Handle
	AcquireMaterial() Handle
	Release(h Handle)
}

// NullResources is a no-op allocator.
type NullResources struct{}

func (NullResources) AcquireGeometry(Shape) Handle { return 0 }
func (NullResources) AcquireMaterial() Handle      { return 0 }
func (NullResources) Release(Handle)               {}

// HighlightEmissive is the fixed emissive color applied to selected
// nodes and cleared on deselection.
const HighlightEmissive uint32 = 0x444444

// Node is the renderable counterpart of one document record. Fans are
// compound: the root carries no geometry and owns housing, grille and
// blade children plus a particle system.
type Node struct {
	ID   document.ID
	Kind document.Kind

	Shape     Shape
	Position  math.Vec3
	Size      math.Vec3
	RotationY float64 // degrees
	Tilt      float64 // degrees; ramp slope or fan pitch
	Color     uint32
	Emissive  uint32
	Opacity   float64 // 1 opaque; ghosts are translucent

	// Spin is the accumulated blade rotation in degrees. Animation only;
	// never written back to the document.
	Spin float64

	Children  []*Node
	Blades    *Node
	Particles *Particles

	geometry Handle
	material Handle
}

// Particles is the decorative airflow emitted by a fan. Offsets live in
// fan-local space, where the blow axis is +Z; the fan node's transform
// orients them in the world. The animation loop advances points along
// Forward and reseeds them past EmitDistance.
type Particles struct {
	Forward      math.Vec3
	EmitDistance float64
	Points       []Particle
}

// Particle is a single airflow point, stored as a fan-local offset.
type Particle struct {
	Offset   math.Vec3
	Velocity float64
}

// newParticles seeds a particle system for a fan record.
func newParticles(fan *document.Fan) *Particles {
	forward := math.Vec3{Z: 1} // fan-local blow axis
	count := int(fan.Strength) * 2
	if count < 8 {
		count = 8
	}
	if count > 100 {
		count = 100
	}
	p := &Particles{
		Forward:      forward,
		EmitDistance: 4 + fan.Strength*0.3,
	}
	p.Points = make([]Particle, count)
	for i := range p.Points {
		p.Points[i] = Particle{
			Offset:   forward.Scale(rand.Float64() * p.EmitDistance).Add(diskJitter(1)),
			Velocity: 2 + fan.Strength*0.2 + rand.Float64(),
		}
	}
	return p
}

// Reseed places a particle back on a random point of the unit emission
// disk.
func (p *Particles) Reseed(i int) {
	p.Points[i].Offset = diskJitter(1)
}

// diskJitter returns a random point on a radius-r disk perpendicular to
// the local blow axis.
func diskJitter(r float64) math.Vec3 {
	angle := rand.Float64() * 2 * gomath.Pi
	dist := gomath.Sqrt(rand.Float64()) * r
	return math.Vec3{X: gomath.Cos(angle) * dist, Y: gomath.Sin(angle) * dist, Z: 0}
}

// acquire allocates geometry and material for the node's shape.
func (n *Node) acquire(res Resources) {
	if n.Shape != ShapeNone {
		n.geometry = res.AcquireGeometry(n.Shape)
		n.material = res.AcquireMaterial()
	}
	for _, c := range n.Children {
		c.acquire(res)
	}
}

// dispose releases the node's resources and those of every child.
func (n *Node) dispose(res Resources) {
	if n.geometry != 0 {
		res.Release(n.geometry)
		n.geometry = 0
	}
	if n.material != 0 {
		res.Release(n.material)
		n.material = 0
	}
	for _, c := range n.Children {
		c.dispose(res)
	}
}

// setEmissive applies the highlight channel to the node and every child
// that carries a material.
func (n *Node) setEmissive(color uint32) {
	n.Emissive = color
	for _, c := range n.Children {
		c.setEmissive(color)
	}
}

// Geometry returns the node's geometry handle, for the render backend.
func (n *Node) Geometry() Handle { return n.geometry }

// Material returns the node's material handle, for the render backend.
func (n *Node) Material() Handle { return n.material }
