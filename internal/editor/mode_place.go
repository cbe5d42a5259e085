package editor

import (
	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/editor/scene"
	"github.com/fairwaylab/greenside/pkg/math"
)

// placeMode drops entities of one kind. A translucent ghost tracks the
// pointer; snapping to a wall or ramp face also shows a face overlay.
// Ctrl-click falls through to selection so the palette doesn't have to
// be left to grab an object.
type placeMode struct {
	baseMode
	kind document.Kind

	ghost   *scene.Node
	overlay *scene.Node
	valid   bool
	yaw     float64
}

func (m *placeMode) name() string { return "place " + m.kind.String() }

func (m *placeMode) enter(ed *Editor) {
	m.ghost = ed.mirror.Ghost(m.kind)
	m.ghost.RotationY = ed.previewRotation
}

func (m *placeMode) exit(ed *Editor) {
	ed.mirror.DisposeGhost(m.ghost)
	ed.mirror.DisposeGhost(m.overlay)
	m.ghost, m.overlay = nil, nil
}

func (m *placeMode) overlays() []*scene.Node {
	if !m.valid {
		return nil
	}
	out := []*scene.Node{m.ghost}
	if m.overlay != nil {
		out = append(out, m.overlay)
	}
	return out
}

func (m *placeMode) pointerMove(ed *Editor, ev PointerEvent) {
	pos, face, ok := ed.resolvePlacement(ev, m.kind)
	m.valid = ok
	if m.overlay != nil {
		ed.mirror.DisposeGhost(m.overlay)
		m.overlay = nil
	}
	if !ok {
		return
	}
	m.yaw = ed.previewRotation
	if face != nil {
		m.overlay = ed.mirror.FaceOverlay(face.center, face.normal, face.width, face.height)
		if m.kind == document.KindFan {
			m.yaw = faceFanYaw(face.normal)
		}
	}
	m.ghost.Position = pos
	m.ghost.RotationY = m.yaw
}

func (m *placeMode) pointerDown(ed *Editor, ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	// Ctrl forces selection over placement.
	if ev.Ctrl {
		if _, node, ok := ed.pick(ev.Ray); ok {
			ed.sel.Toggle(node.ID)
			ed.host.Refresh()
		}
		return
	}
	pos, face, ok := ed.resolvePlacement(ev, m.kind)
	if !ok {
		return
	}
	yaw := ed.previewRotation
	if face != nil && m.kind == document.KindFan {
		yaw = faceFanYaw(face.normal)
	}
	ed.place(m.kind, pos, yaw)
}

// rotate spins the placement ghost by 45 degrees; the next placement
// inherits the rotation.
func (m *placeMode) rotate(ed *Editor) {
	ed.previewRotation += 45
	for ed.previewRotation >= 360 {
		ed.previewRotation -= 360
	}
	if m.ghost != nil {
		m.ghost.RotationY = ed.previewRotation
	}
}

// place performs one placement: mutate, sync, checkpoint, refresh.
func (ed *Editor) place(kind document.Kind, pos math.Vec3, yaw float64) {
	switch kind {
	case document.KindStart:
		ed.doc.MoveStartTo(pos)
		ed.mirror.Sync(ed.doc, document.StartID)
	case document.KindHole:
		ed.doc.MoveHoleTo(pos)
		ed.mirror.Sync(ed.doc, document.HoleID)
	case document.KindWall:
		w := ed.doc.AddWall(document.Wall{
			Position:  pos,
			Size:      document.DefaultWallSize,
			RotationY: yaw,
			Color:     document.DefaultWallColor,
		})
		ed.mirror.Sync(ed.doc, w.ID)
	case document.KindRamp:
		r := ed.doc.AddRamp(document.Ramp{
			Position:  pos,
			Size:      document.DefaultRampSize,
			RotationY: yaw,
			Angle:     document.DefaultRampAngle,
			Color:     document.DefaultRampColor,
		})
		ed.mirror.Sync(ed.doc, r.ID)
	case document.KindSpawn:
		s := ed.doc.AddSpawn(document.Spawn{
			Position: pos,
			Color:    document.DefaultSpawnColor,
		})
		ed.mirror.Sync(ed.doc, s.ID)
	case document.KindFan:
		f := ed.doc.AddFan(document.Fan{
			Position:  pos,
			RotationY: yaw,
			Strength:  document.DefaultFanStrength,
		})
		ed.mirror.Sync(ed.doc, f.ID)
	default:
		return
	}
	ed.commit("place")
}
