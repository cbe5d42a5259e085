package editor

import "github.com/fairwaylab/greenside/internal/editor/document"

// deleteMode removes the clicked record. When the click lands on a
// selected record the whole selection goes.
type deleteMode struct {
	baseMode
}

func (deleteMode) name() string { return "delete" }

func (deleteMode) pointerDown(ed *Editor, ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	_, node, ok := ed.pick(ev.Ray)
	if !ok {
		return
	}
	var ids []document.ID
	if ed.sel.Contains(node.ID) {
		ids = ed.sel.IDs()
	} else {
		ids = []document.ID{node.ID}
	}
	ed.deleteIDs(ids)
}
