// Package editor implements the map editor core: the input router and
// mode machine, placement and transform engines, and the strict
// mutate -> sync -> checkpoint -> refresh update sequence around the
// document. Rendering and windowing stay behind the scene.Resources and
// UIHost interfaces.
package editor

import (
	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/engine/picking"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a pointer action already resolved to a world-space
// ray by the windowing layer.
type PointerEvent struct {
	Ray    picking.Ray
	Button Button
	Ctrl   bool
	Shift  bool
}

// Key identifies the editor-relevant keys.
type Key int

const (
	KeyNone Key = iota
	KeyDelete
	KeySpace
	KeyEscape
	KeyZ
	KeyY
	KeyC
	KeyV
)

// Tool identifies the non-placement palette tools.
type Tool int

const (
	ToolSelect Tool = iota
	ToolMove
	ToolExtrude
	ToolPaint
	ToolDelete
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolMove:
		return "move"
	case ToolExtrude:
		return "extrude"
	case ToolPaint:
		return "paint"
	case ToolDelete:
		return "delete"
	}
	return "unknown"
}

// toolSpec captures the active palette choice so paste preview can
// return to it on exit.
type toolSpec struct {
	place bool
	tool  Tool
	kind  document.Kind
}

// UIHost is the surface the editor talks to for user-visible feedback.
// The editor binary backs it with the window and log; tests use NullHost.
type UIHost interface {
	// ShowMessage surfaces a user-visible notice (protected deletes,
	// persistence failures).
	ShowMessage(msg string)
	// AltitudeChanged reports the manual altitude override; the host owns
	// the indicator and its fade-out at zero.
	AltitudeChanged(altitude float64)
	// Refresh asks the host to re-render panels after a document change.
	Refresh()
	// OpenURL navigates a new top-level view, used by play-test.
	OpenURL(url string)
}

// NullHost ignores everything.
type NullHost struct{}

func (NullHost) ShowMessage(string)      {}
func (NullHost) AltitudeChanged(float64) {}
func (NullHost) Refresh()                {}
func (NullHost) OpenURL(string)          {}
