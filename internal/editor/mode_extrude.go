package editor

import (
	gomath "math"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/pkg/math"
)

// extrudeMode stretches one wall or ramp by dragging a face. The face
// opposite the grabbed one stays fixed: the size grows by twice the
// drag distance and the center shifts by half the growth.
type extrudeMode struct {
	baseMode
	drag *extrudeDrag
}

type extrudeDrag struct {
	id     document.ID
	normal math.Vec3 // outward normal of the grabbed face
	axis   int       // 0=x 1=y 2=z

	// Drag plane: contains the grab point, faces the camera, and holds
	// the extrusion axis so motion projects cleanly onto it.
	planePoint  math.Vec3
	planeNormal math.Vec3

	initSize math.Vec3
	initPos  math.Vec3
}

func (m *extrudeMode) name() string { return "extrude" }

func (m *extrudeMode) exit(ed *Editor) { m.drag = nil }

func (m *extrudeMode) pointerDown(ed *Editor, ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	hit, node, ok := ed.pick(ev.Ray)
	if !ok {
		return
	}
	if node.Kind != document.KindWall && node.Kind != document.KindRamp {
		return
	}
	if ed.sel.Len() > 1 {
		ed.host.ShowMessage("Extrude works on a single object.")
		return
	}
	rec, ok := ed.doc.Record(node.ID)
	if !ok {
		return
	}
	if !ed.sel.Contains(node.ID) {
		ed.sel.Select(node.ID)
		ed.host.Refresh()
	}

	axis := dominantAxis(hit.Normal)
	planeNormal := ev.Ray.Direction.Sub(axisUnit(axis).Scale(ev.Ray.Direction.Dot(axisUnit(axis))))
	if planeNormal.Length() < 1e-9 {
		return // looking straight down the axis, no usable plane
	}
	m.drag = &extrudeDrag{
		id:          node.ID,
		normal:      hit.Normal,
		axis:        axis,
		planePoint:  hit.Point,
		planeNormal: planeNormal.Normalize(),
		initSize:    recSize(rec),
		initPos:     rec.Pos(),
	}
}

func (m *extrudeMode) pointerMove(ed *Editor, ev PointerEvent) {
	d := m.drag
	if d == nil {
		return
	}
	p, ok := ev.Ray.IntersectPlane(d.planePoint, d.planeNormal)
	if !ok {
		return
	}
	// Signed outward drag distance along the grabbed face's normal.
	delta := p.Sub(d.planePoint).Dot(d.normal)

	initExtent := axisComponent(d.initSize, d.axis)
	newExtent := gomath.Max(document.MinSize, initExtent+2*delta)
	// The opposite face stays put: the center moves by half the growth,
	// in the grabbed face's direction.
	shift := (newExtent - initExtent) / 2
	sign := axisComponent(d.normal, d.axis)

	size := d.initSize
	setAxisComponent(&size, d.axis, newExtent)
	pos := d.initPos
	setAxisComponent(&pos, d.axis, axisComponent(d.initPos, d.axis)+sign*shift)

	if err := ed.doc.SetSize(d.id, size); err != nil {
		return
	}
	_ = ed.doc.SetPosition(d.id, pos)
	ed.mirror.Sync(ed.doc, d.id)
}

func (m *extrudeMode) pointerUp(ed *Editor, ev PointerEvent) {
	d := m.drag
	m.drag = nil
	if d == nil {
		return
	}
	rec, ok := ed.doc.Record(d.id)
	if !ok {
		return
	}
	if recSize(rec) != d.initSize || rec.Pos() != d.initPos {
		ed.commit("extrude")
	}
}

func recSize(rec document.Record) math.Vec3 {
	switch r := rec.(type) {
	case *document.Wall:
		return r.Size
	case *document.Ramp:
		return r.Size
	}
	return math.Vec3{}
}

func dominantAxis(n math.Vec3) int {
	ax, ay, az := gomath.Abs(n.X), gomath.Abs(n.Y), gomath.Abs(n.Z)
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

func axisUnit(axis int) math.Vec3 {
	switch axis {
	case 0:
		return math.Vec3{X: 1}
	case 1:
		return math.Vec3{Y: 1}
	default:
		return math.Vec3{Z: 1}
	}
}

func axisComponent(v math.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setAxisComponent(v *math.Vec3, axis int, val float64) {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
}
