// Package history provides bounded, linear undo/redo over full document
// snapshots. Full snapshots are cheap at map scale and the depth cap
// keeps memory bounded.
package history

import (
	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/logger"
)

// MaxDepth is the maximum number of retained snapshots. Overflow trims
// the oldest entry silently.
const MaxDepth = 50

type entry struct {
	tag  string
	snap document.Snapshot
}

// History is a linear snapshot list with a cursor. The entry at the
// cursor always reflects the current document state.
type History struct {
	entries []entry
	cursor  int
}

// New creates a history whose initial state is the given snapshot.
func New(initial document.Snapshot) *History {
	return &History{
		entries: []entry{{tag: "initial", snap: initial}},
		cursor:  0,
	}
}

// Checkpoint appends a snapshot at the cursor, truncating any redo tail.
// When the depth cap is exceeded the oldest entry is dropped.
func (h *History) Checkpoint(tag string, snap document.Snapshot) {
	h.entries = append(h.entries[:h.cursor+1], entry{tag: tag, snap: snap})
	if len(h.entries) > MaxDepth {
		h.entries = h.entries[len(h.entries)-MaxDepth:]
	}
	h.cursor = len(h.entries) - 1
	logger.Debug("history checkpoint",
		zap.String("tag", tag),
		zap.Int("depth", len(h.entries)),
		zap.Int("cursor", h.cursor),
	)
}

// Undo steps the cursor back and returns the snapshot to restore.
// At the initial snapshot it is a no-op.
func (h *History) Undo() (document.Snapshot, bool) {
	if h.cursor == 0 {
		logger.Debug("undo at history start, ignoring")
		return document.Snapshot{}, false
	}
	h.cursor--
	logger.Debug("undo", zap.String("tag", h.entries[h.cursor+1].tag), zap.Int("cursor", h.cursor))
	return h.entries[h.cursor].snap, true
}

// Redo steps the cursor forward and returns the snapshot to restore.
// At the tail it is a no-op.
func (h *History) Redo() (document.Snapshot, bool) {
	if h.cursor >= len(h.entries)-1 {
		logger.Debug("redo at history tail, ignoring")
		return document.Snapshot{}, false
	}
	h.cursor++
	logger.Debug("redo", zap.String("tag", h.entries[h.cursor].tag), zap.Int("cursor", h.cursor))
	return h.entries[h.cursor].snap, true
}

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }

// LastTag returns the tag of the checkpoint at the cursor, for undo UI.
func (h *History) LastTag() string { return h.entries[h.cursor].tag }

// Cursor returns the current cursor index.
func (h *History) Cursor() int { return h.cursor }

// AtTail reports whether redo has nothing to do.
func (h *History) AtTail() bool { return h.cursor == len(h.entries)-1 }
