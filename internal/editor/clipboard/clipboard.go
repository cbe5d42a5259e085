// Package clipboard stores deep copies of document records for paste.
// The clipboard never references live records; copies are taken on copy
// and again on paste so repeated pastes stay independent.
package clipboard

import (
	"errors"

	"github.com/jinzhu/copier"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/pkg/math"
)

// ErrEmpty is returned when pasting with nothing copied.
var ErrEmpty = errors.New("clipboard is empty")

// Clipboard holds deep-copied records.
type Clipboard struct {
	entries []document.Record
}

// New creates an empty clipboard.
func New() *Clipboard {
	return &Clipboard{}
}

// Copy replaces the clipboard contents with deep copies of the given
// records. Start and hole are never copied. Returns the number of
// entries stored.
func (c *Clipboard) Copy(records []document.Record) int {
	c.entries = c.entries[:0]
	for _, rec := range records {
		if rec == nil || rec.RecordKind().Protected() {
			continue
		}
		if cp := deepCopy(rec); cp != nil {
			c.entries = append(c.entries, cp)
		}
	}
	return len(c.entries)
}

// Entries returns fresh deep copies of the clipboard contents, so the
// caller can mutate them freely.
func (c *Clipboard) Entries() []document.Record {
	out := make([]document.Record, 0, len(c.entries))
	for _, rec := range c.entries {
		out = append(out, deepCopy(rec))
	}
	return out
}

// Len returns the number of stored entries.
func (c *Clipboard) Len() int { return len(c.entries) }

// Empty reports whether there is nothing to paste.
func (c *Clipboard) Empty() bool { return len(c.entries) == 0 }

// Centroid returns the ground-plane center of the copied cluster. Paste
// ghosts keep their offsets from this point.
func (c *Clipboard) Centroid() math.Vec3 {
	if len(c.entries) == 0 {
		return math.Vec3{}
	}
	var sum math.Vec3
	for _, rec := range c.entries {
		p := rec.Pos()
		sum.X += p.X
		sum.Z += p.Z
	}
	n := float64(len(c.entries))
	return math.Vec3{X: sum.X / n, Y: 0, Z: sum.Z / n}
}

func deepCopy(rec document.Record) document.Record {
	switch r := rec.(type) {
	case *document.Wall:
		var cp document.Wall
		_ = copier.CopyWithOption(&cp, r, copier.Option{DeepCopy: true})
		return &cp
	case *document.Ramp:
		var cp document.Ramp
		_ = copier.CopyWithOption(&cp, r, copier.Option{DeepCopy: true})
		return &cp
	case *document.Spawn:
		var cp document.Spawn
		_ = copier.CopyWithOption(&cp, r, copier.Option{DeepCopy: true})
		return &cp
	case *document.Fan:
		var cp document.Fan
		_ = copier.CopyWithOption(&cp, r, copier.Option{DeepCopy: true})
		return &cp
	}
	return nil
}
