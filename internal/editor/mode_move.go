package editor

import (
	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/pkg/math"
)

// moveMode drags records across the ground plane. Dragging a selected
// record moves the whole selection by the same delta; heights never
// change during a move.
type moveMode struct {
	baseMode
	drag *moveDrag
}

type moveDrag struct {
	anchor  document.ID
	grab    math.Vec2 // hit point minus anchor position, in XZ
	planeY  float64
	initial map[document.ID]math.Vec3
	order   []document.ID
	applied math.Vec2
	moved   bool
}

func (m *moveMode) name() string { return "move" }

func (m *moveMode) exit(ed *Editor) { m.drag = nil }

func (m *moveMode) pointerDown(ed *Editor, ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	hit, node, ok := ed.pick(ev.Ray)
	if !ok {
		if !ev.Ctrl && ed.sel.Len() > 0 {
			ed.sel.Clear()
			ed.host.Refresh()
		}
		return
	}
	if ev.Ctrl {
		ed.sel.Toggle(node.ID)
		ed.host.Refresh()
		return
	}
	if !ed.sel.Contains(node.ID) {
		ed.sel.Select(node.ID)
		ed.host.Refresh()
	}

	d := &moveDrag{
		anchor:  node.ID,
		planeY:  hit.Point.Y,
		initial: make(map[document.ID]math.Vec3),
	}
	anchorPos := ed.recordPos(node.ID)
	d.grab = math.Vec2{X: hit.Point.X - anchorPos.X, Y: hit.Point.Z - anchorPos.Z}
	for _, id := range ed.sel.IDs() {
		d.initial[id] = ed.recordPos(id)
		d.order = append(d.order, id)
	}
	m.drag = d
}

func (m *moveMode) pointerMove(ed *Editor, ev PointerEvent) {
	d := m.drag
	if d == nil {
		return
	}
	p, ok := ev.Ray.IntersectPlaneY(d.planeY)
	if !ok {
		return
	}
	// Snap the dragged record; the rest of the selection follows by the
	// same delta so relative geometry is preserved.
	target := math.Vec2{
		X: ed.snap(p.X - d.grab.X),
		Y: ed.snap(p.Z - d.grab.Y),
	}
	init := d.initial[d.anchor]
	delta := math.Vec2{X: target.X - init.X, Y: target.Y - init.Z}
	if delta == d.applied {
		return
	}
	d.applied = delta
	d.moved = delta != (math.Vec2{})

	for _, id := range d.order {
		base := d.initial[id]
		ed.setRecordPos(id, math.Vec3{X: base.X + delta.X, Y: base.Y, Z: base.Z + delta.Y})
		ed.mirror.Sync(ed.doc, id)
	}
}

func (m *moveMode) pointerUp(ed *Editor, ev PointerEvent) {
	d := m.drag
	m.drag = nil
	if d == nil {
		return
	}
	// A click without displacement leaves no history entry.
	if d.moved {
		ed.commit("move")
	}
}

// recordPos reads the current position of any entity, start and hole
// included.
func (ed *Editor) recordPos(id document.ID) math.Vec3 {
	switch id {
	case document.StartID:
		return ed.doc.StartPoint
	case document.HoleID:
		return math.Vec3{X: ed.doc.Hole.X, Y: ed.doc.Hole.Y, Z: ed.doc.Hole.Z}
	}
	if rec, ok := ed.doc.Record(id); ok {
		return rec.Pos()
	}
	return math.Vec3{}
}

// setRecordPos writes a position, routing the protected singletons to
// their dedicated mutators.
func (ed *Editor) setRecordPos(id document.ID, p math.Vec3) {
	switch id {
	case document.StartID:
		ed.doc.MoveStartTo(p)
	case document.HoleID:
		ed.doc.MoveHoleTo(p)
	default:
		_ = ed.doc.SetPosition(id, p)
	}
}
