package editor

import (
	"errors"
	gomath "math"

	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/editor/clipboard"
	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/editor/history"
	"github.com/fairwaylab/greenside/internal/editor/scene"
	"github.com/fairwaylab/greenside/internal/editor/selection"
	"github.com/fairwaylab/greenside/internal/engine/picking"
	"github.com/fairwaylab/greenside/internal/logger"
	"github.com/fairwaylab/greenside/pkg/math"
)

// Manual altitude override range, in world units.
const (
	MinAltitude = -50.0
	MaxAltitude = 100.0
)

// DefaultPaintColor is the initial paint tool color.
const DefaultPaintColor uint32 = 0xFF0000

// Editor owns the document, the scene mirror, history, selection and
// clipboard, and routes input through the active mode. Every mutation
// follows the same sequence: change the document, sync the mirror,
// checkpoint history, refresh the host.
type Editor struct {
	host   UIHost
	doc    *document.Document
	mirror *scene.Mirror
	hist   *history.History
	sel    *selection.Selection
	clip   *clipboard.Clipboard

	mode   mode
	active toolSpec

	gridSnap   bool
	gridSize   float64
	altitude   float64
	paintColor uint32

	// previewRotation is the yaw applied to the placement ghost and to
	// the next placed wall, ramp or fan.
	previewRotation float64
}

// New creates an editor over a fresh document. res backs the scene
// mirror's geometry and material allocations; pass nil for headless use.
func New(host UIHost, res scene.Resources) *Editor {
	if host == nil {
		host = NullHost{}
	}
	doc := document.New("untitled")
	ed := &Editor{
		host:       host,
		doc:        doc,
		mirror:     scene.New(res),
		hist:       history.New(doc.Snapshot()),
		clip:       clipboard.New(),
		gridSnap:   true,
		gridSize:   1,
		paintColor: DefaultPaintColor,
	}
	ed.sel = selection.New(ed.mirror)
	ed.mirror.Rebuild(doc)
	ed.applySpec(toolSpec{tool: ToolSelect})
	return ed
}

// Doc returns the live document.
func (ed *Editor) Doc() *document.Document { return ed.doc }

// Mirror returns the scene mirror, for rendering and picking.
func (ed *Editor) Mirror() *scene.Mirror { return ed.mirror }

// Selection returns the selection set.
func (ed *Editor) Selection() *selection.Selection { return ed.sel }

// History returns the undo history.
func (ed *Editor) History() *history.History { return ed.hist }

// Clipboard returns the copy buffer.
func (ed *Editor) Clipboard() *clipboard.Clipboard { return ed.clip }

// Altitude returns the manual placement altitude override.
func (ed *Editor) Altitude() float64 { return ed.altitude }

// PaintColor returns the active paint color.
func (ed *Editor) PaintColor() uint32 { return ed.paintColor }

// SetPaintColor changes the color applied by the paint tool. New
// placements keep their kind defaults.
func (ed *Editor) SetPaintColor(c uint32) { ed.paintColor = c }

// SetGridSnap toggles grid snapping.
func (ed *Editor) SetGridSnap(on bool) { ed.gridSnap = on }

// SetGridSize sets the snap cell size. Non-positive values are ignored.
func (ed *Editor) SetGridSize(size float64) {
	if size > 0 {
		ed.gridSize = size
	}
}

// ModeName returns the active mode's name, for the toolbar and logs.
func (ed *Editor) ModeName() string { return ed.mode.name() }

// Overlays returns the transient preview nodes of the active mode, to be
// drawn after the mirror.
func (ed *Editor) Overlays() []*scene.Node { return ed.mode.overlays() }

// SetTool activates a non-placement tool. Selecting from the palette
// cancels an in-flight paste preview.
func (ed *Editor) SetTool(t Tool) {
	ed.applySpec(toolSpec{tool: t})
}

// SetPlaceKind activates placement of the given entity kind.
func (ed *Editor) SetPlaceKind(k document.Kind) {
	ed.applySpec(toolSpec{place: true, kind: k})
}

func (ed *Editor) applySpec(ts toolSpec) {
	ed.active = ts
	ed.setMode(modeFor(ts))
}

func modeFor(ts toolSpec) mode {
	if ts.place {
		return &placeMode{kind: ts.kind}
	}
	switch ts.tool {
	case ToolMove:
		return &moveMode{}
	case ToolExtrude:
		return &extrudeMode{}
	case ToolPaint:
		return &paintMode{}
	case ToolDelete:
		return &deleteMode{}
	}
	return &selectMode{}
}

func (ed *Editor) setMode(next mode) {
	if ed.mode != nil {
		ed.mode.exit(ed)
	}
	ed.mode = next
	next.enter(ed)
	logger.Debug("editor mode", zap.String("mode", next.name()))
}

// cancelPaste leaves paste preview, if active, returning to the palette
// tool that was live before paste.
func (ed *Editor) cancelPaste() bool {
	if _, ok := ed.mode.(*pasteMode); !ok {
		return false
	}
	ed.setMode(modeFor(ed.active))
	return true
}

// PointerDown routes a pointer press to the active mode.
func (ed *Editor) PointerDown(ev PointerEvent) { ed.mode.pointerDown(ed, ev) }

// PointerMove routes pointer motion to the active mode.
func (ed *Editor) PointerMove(ev PointerEvent) { ed.mode.pointerMove(ed, ev) }

// PointerUp routes a pointer release to the active mode.
func (ed *Editor) PointerUp(ev PointerEvent) { ed.mode.pointerUp(ed, ev) }

// Wheel handles scroll input. With ctrl held it adjusts the placement
// altitude; plain scrolling belongs to the camera and is ignored here.
func (ed *Editor) Wheel(delta float64, ctrl bool) {
	if !ctrl {
		return
	}
	ed.altitude = clampF(ed.altitude+delta, MinAltitude, MaxAltitude)
	ed.host.AltitudeChanged(ed.altitude)
}

// KeyDown handles the editor shortcuts.
func (ed *Editor) KeyDown(key Key, ctrl, shift bool) {
	switch {
	case ctrl && key == KeyZ:
		ed.Undo()
	case ctrl && key == KeyY:
		ed.Redo()
	case ctrl && key == KeyC:
		ed.CopySelection()
	case ctrl && key == KeyV:
		ed.Paste()
	case key == KeyDelete:
		ed.DeleteSelection()
	case key == KeySpace:
		ed.RotateAction()
	case key == KeyEscape:
		if ed.cancelPaste() {
			return
		}
		if ed.sel.Len() > 0 {
			ed.sel.Clear()
			ed.host.Refresh()
		}
	}
}

// Undo restores the previous document state. An in-flight paste preview
// is cancelled first; at the initial state this is a silent no-op.
func (ed *Editor) Undo() {
	ed.cancelPaste()
	snap, ok := ed.hist.Undo()
	if !ok {
		return
	}
	ed.restore(snap)
}

// Redo re-applies an undone change.
func (ed *Editor) Redo() {
	ed.cancelPaste()
	snap, ok := ed.hist.Redo()
	if !ok {
		return
	}
	ed.restore(snap)
}

func (ed *Editor) restore(snap document.Snapshot) {
	ed.sel.Clear()
	ed.doc.Load(snap)
	ed.mirror.Rebuild(ed.doc)
	ed.host.Refresh()
}

// CopySelection copies the selected records to the clipboard. Start and
// hole never enter the clipboard.
func (ed *Editor) CopySelection() {
	var recs []document.Record
	ed.sel.ForEach(func(id document.ID) {
		if rec, ok := ed.doc.Record(id); ok {
			recs = append(recs, rec)
		}
	})
	n := ed.clip.Copy(recs)
	if n > 0 {
		logger.Info("copied records", zap.Int("count", n))
	}
}

// Paste enters paste preview. An empty clipboard is a silent no-op.
func (ed *Editor) Paste() {
	if ed.clip.Empty() {
		logger.Info("paste ignored, clipboard empty")
		return
	}
	if _, ok := ed.mode.(*pasteMode); ok {
		return
	}
	ed.setMode(&pasteMode{})
}

// DeleteSelection removes every selected record.
func (ed *Editor) DeleteSelection() {
	ids := ed.sel.IDs()
	if len(ids) == 0 {
		return
	}
	ed.deleteIDs(ids)
}

// deleteIDs removes records, skipping the protected start and hole. A
// checkpoint is taken only when something was actually removed.
func (ed *Editor) deleteIDs(ids []document.ID) {
	removed := 0
	blocked := false
	for _, id := range ids {
		err := ed.doc.Remove(id)
		switch {
		case err == nil:
			if ed.sel.Contains(id) {
				ed.sel.Toggle(id)
			}
			ed.mirror.Remove(id)
			removed++
		case errors.Is(err, document.ErrProtectedEntity):
			blocked = true
		}
	}
	if blocked {
		ed.host.ShowMessage("The start point and hole cannot be deleted.")
	}
	if removed > 0 {
		ed.commit("delete")
	}
}

// RotateAction handles the rotate shortcut: a paste cluster or placement
// ghost rotates in preview, otherwise the primary selected record turns
// 45 degrees.
func (ed *Editor) RotateAction() {
	if r, ok := ed.mode.(rotator); ok {
		r.rotate(ed)
		return
	}
	id := ed.sel.Primary()
	if id == 0 {
		return
	}
	rec, ok := ed.doc.Record(id)
	if !ok {
		return
	}
	var cur float64
	switch r := rec.(type) {
	case *document.Wall:
		cur = r.RotationY
	case *document.Ramp:
		cur = r.RotationY
	case *document.Fan:
		cur = r.RotationY
	default:
		return
	}
	if err := ed.doc.SetRotationY(id, cur+45); err != nil {
		return
	}
	ed.mirror.Sync(ed.doc, id)
	ed.commit("rotate")
}

// NewMap resets the document to an empty course. Undoable.
func (ed *Editor) NewMap() {
	ed.cancelPaste()
	ed.sel.Clear()
	ed.doc.Reset()
	ed.mirror.Rebuild(ed.doc)
	ed.commit("new map")
}

// LoadDocument replaces the whole document, e.g. after loading a map
// from the server. History restarts at the loaded state.
func (ed *Editor) LoadDocument(d *document.Document) {
	ed.cancelPaste()
	ed.sel.Clear()
	ed.doc = d
	ed.mirror.Rebuild(d)
	ed.hist = history.New(d.Snapshot())
	ed.host.Refresh()
	logger.Info("document loaded", zap.String("name", d.Name), zap.Int("records", d.Count()))
}

// Close releases preview nodes and every scene resource.
func (ed *Editor) Close() {
	ed.mode.exit(ed)
	ed.mirror.DisposeAll()
}

// commit checkpoints the current document state and refreshes the host.
// Callers must have synced the mirror already.
func (ed *Editor) commit(tag string) {
	ed.hist.Checkpoint(tag, ed.doc.Snapshot())
	ed.host.Refresh()
}

// pick casts a ray against every scene node and returns the nearest hit.
func (ed *Editor) pick(ray picking.Ray) (picking.Hit, *scene.Node, bool) {
	var (
		best  picking.Hit
		bestN *scene.Node
		found bool
	)
	for _, n := range ed.mirror.Nodes() {
		hit, ok := ray.IntersectAABB(nodeAABB(n))
		if !ok {
			continue
		}
		if !found || hit.T < best.T {
			best, bestN, found = hit, n, true
		}
	}
	return best, bestN, found
}

// nodeAABB returns the pick volume for a node. Rotated boxes get a
// conservative expanded volume.
func nodeAABB(n *scene.Node) picking.AABB {
	switch n.Kind {
	case document.KindWall, document.KindRamp:
		return picking.NewAABBRotatedY(n.Position, n.Size, n.RotationY)
	case document.KindStart:
		return picking.NewAABB(n.Position, math.Vec3{X: 2, Y: 2, Z: 2})
	case document.KindHole:
		return picking.NewAABB(n.Position, math.Vec3{X: n.Size.X, Y: 0.5, Z: n.Size.Z})
	case document.KindFan:
		return picking.NewAABB(n.Position, math.Vec3{X: 3, Y: 3, Z: 3})
	default: // spawn sphere
		return picking.NewAABB(n.Position, math.Vec3{X: 1, Y: 1, Z: 1})
	}
}

// snap rounds a coordinate to the grid when snapping is on.
func (ed *Editor) snap(v float64) float64 {
	if !ed.gridSnap {
		return v
	}
	return gomath.Round(v/ed.gridSize) * ed.gridSize
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
