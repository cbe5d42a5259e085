// Package input handles SDL2 input events and modifier state for the
// editor.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	Wheel  float64
	Ctrl   bool
	Shift  bool
}

// Input handles all input processing.
type Input struct {
	events []Event

	mouseX, mouseY int
	buttons        map[uint8]bool
	ctrl           bool
	shift          bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events and converts them to editor events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			i.trackModifiers(e)
			t := EventKeyUp
			if e.Type == sdl.KEYDOWN {
				t = EventKeyDown
			}
			i.events = append(i.events, i.stamp(Event{
				Type: t,
				Key:  e.Keysym.Scancode,
			}))

		case *sdl.MouseMotionEvent:
			i.mouseX, i.mouseY = int(e.X), int(e.Y)
			i.events = append(i.events, i.stamp(Event{
				Type:   EventMouseMove,
				MouseX: i.mouseX,
				MouseY: i.mouseY,
			}))

		case *sdl.MouseButtonEvent:
			i.buttons[e.Button] = e.Type == sdl.MOUSEBUTTONDOWN
			t := EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				t = EventMouseDown
			}
			i.events = append(i.events, i.stamp(Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}))

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, i.stamp(Event{
				Type:   EventWheel,
				MouseX: i.mouseX,
				MouseY: i.mouseY,
				Wheel:  float64(e.Y),
			}))
		}
	}

	return false
}

// trackModifiers keeps the held ctrl/shift state current.
func (i *Input) trackModifiers(e *sdl.KeyboardEvent) {
	down := e.Type == sdl.KEYDOWN
	switch e.Keysym.Scancode {
	case sdl.SCANCODE_LCTRL, sdl.SCANCODE_RCTRL:
		i.ctrl = down
	case sdl.SCANCODE_LSHIFT, sdl.SCANCODE_RSHIFT:
		i.shift = down
	}
}

// stamp annotates an event with the current modifier state.
func (i *Input) stamp(e Event) Event {
	e.Ctrl = i.ctrl
	e.Shift = i.shift
	return e
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// MousePosition returns the last known cursor position.
func (i *Input) MousePosition() (int, int) {
	return i.mouseX, i.mouseY
}

// IsButtonHeld reports whether a mouse button is currently down.
func (i *Input) IsButtonHeld(button uint8) bool {
	return i.buttons[button]
}

// CtrlHeld reports the current ctrl state.
func (i *Input) CtrlHeld() bool { return i.ctrl }

// ShiftHeld reports the current shift state.
func (i *Input) ShiftHeld() bool { return i.shift }

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
