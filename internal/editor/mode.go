package editor

import "github.com/fairwaylab/greenside/internal/editor/scene"

// mode is one state of the editor interaction machine. Modes own their
// transient preview nodes and must release them in exit.
type mode interface {
	name() string
	enter(ed *Editor)
	exit(ed *Editor)
	pointerDown(ed *Editor, ev PointerEvent)
	pointerMove(ed *Editor, ev PointerEvent)
	pointerUp(ed *Editor, ev PointerEvent)
	overlays() []*scene.Node
}

// rotator is implemented by modes that consume the rotate shortcut
// themselves instead of rotating the selection.
type rotator interface {
	rotate(ed *Editor)
}

// baseMode provides no-op handlers for modes that only care about a
// subset of the events.
type baseMode struct{}

func (baseMode) enter(*Editor)                     {}
func (baseMode) exit(*Editor)                      {}
func (baseMode) pointerDown(*Editor, PointerEvent) {}
func (baseMode) pointerMove(*Editor, PointerEvent) {}
func (baseMode) pointerUp(*Editor, PointerEvent)   {}
func (baseMode) overlays() []*scene.Node           { return nil }
