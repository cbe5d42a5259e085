package editor

// selectMode is the default tool: click selects, ctrl-click toggles
// membership, clicking empty space clears.
type selectMode struct {
	baseMode
}

func (selectMode) name() string { return "select" }

func (selectMode) pointerDown(ed *Editor, ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	_, node, ok := ed.pick(ev.Ray)
	if !ok {
		if !ev.Ctrl && ed.sel.Len() > 0 {
			ed.sel.Clear()
			ed.host.Refresh()
		}
		return
	}
	if ev.Ctrl {
		ed.sel.Toggle(node.ID)
	} else {
		ed.sel.Select(node.ID)
	}
	ed.host.Refresh()
}
