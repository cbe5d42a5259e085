package editor

import (
	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/editor/scene"
	"github.com/fairwaylab/greenside/pkg/math"
)

// pasteMode previews the clipboard as a translucent cluster under the
// cursor. The cluster keeps each entry's offset from the copy-time
// centroid and can be rotated as a whole before committing. A click
// commits; escape, undo/redo or any palette pick cancels.
type pasteMode struct {
	baseMode
	entries  []document.Record
	ghosts   []*scene.Node
	offsets  []math.Vec3 // X/Z relative to centroid, Y absolute
	baseYaw  []float64
	rotation float64
	anchor   math.Vec3
}

func (m *pasteMode) name() string { return "paste" }

func (m *pasteMode) enter(ed *Editor) {
	m.entries = ed.clip.Entries()
	centroid := ed.clip.Centroid()
	m.anchor = centroid
	for _, rec := range m.entries {
		p := rec.Pos()
		m.offsets = append(m.offsets, math.Vec3{X: p.X - centroid.X, Y: p.Y, Z: p.Z - centroid.Z})
		m.baseYaw = append(m.baseYaw, recYaw(rec))
		m.ghosts = append(m.ghosts, ed.mirror.GhostOf(rec))
	}
	m.layout()
}

func (m *pasteMode) exit(ed *Editor) {
	for _, g := range m.ghosts {
		ed.mirror.DisposeGhost(g)
	}
	m.ghosts = nil
}

func (m *pasteMode) overlays() []*scene.Node { return m.ghosts }

// layout positions every ghost from the anchor, cluster rotation and
// stored offsets. Heights are absolute and unaffected by rotation.
func (m *pasteMode) layout() {
	for i, g := range m.ghosts {
		off := m.offsets[i]
		r := math.Vec3{X: off.X, Z: off.Z}.RotatedY(m.rotation)
		g.Position = math.Vec3{X: m.anchor.X + r.X, Y: off.Y, Z: m.anchor.Z + r.Z}
		g.RotationY = m.baseYaw[i] + m.rotation
	}
}

func (m *pasteMode) pointerMove(ed *Editor, ev PointerEvent) {
	p, ok := ev.Ray.IntersectPlaneY(0)
	if !ok {
		return
	}
	m.anchor = math.Vec3{X: ed.snap(p.X), Z: ed.snap(p.Z)}
	m.layout()
}

func (m *pasteMode) pointerDown(ed *Editor, ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	ids := make([]document.ID, 0, len(m.entries))
	for i, rec := range m.entries {
		applyPasteTransform(rec, m.ghosts[i].Position, m.rotation)
		stored, err := ed.doc.AddCopy(rec)
		if err != nil {
			continue
		}
		ed.mirror.Sync(ed.doc, stored.RecordID())
		ids = append(ids, stored.RecordID())
	}
	ed.sel.Replace(ids)
	ed.commit("paste")
	// Back to the tool that was active before the paste.
	ed.setMode(modeFor(ed.active))
}

// rotate turns the whole cluster by 45 degrees around its anchor.
func (m *pasteMode) rotate(ed *Editor) {
	m.rotation += 45
	m.layout()
}

func recYaw(rec document.Record) float64 {
	switch r := rec.(type) {
	case *document.Wall:
		return r.RotationY
	case *document.Ramp:
		return r.RotationY
	case *document.Fan:
		return r.RotationY
	}
	return 0
}

// applyPasteTransform writes the previewed placement back onto the
// clipboard copy just before it is added to the document.
func applyPasteTransform(rec document.Record, pos math.Vec3, rotDelta float64) {
	switch r := rec.(type) {
	case *document.Wall:
		r.Position = pos
		r.RotationY += rotDelta
	case *document.Ramp:
		r.Position = pos
		r.RotationY += rotDelta
	case *document.Spawn:
		r.Position = pos
	case *document.Fan:
		r.Position = pos
		r.RotationY += rotDelta
	}
}
