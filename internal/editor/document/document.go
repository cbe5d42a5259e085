package document

import (
	"errors"
	"fmt"

	"github.com/fairwaylab/greenside/pkg/math"
)

// ErrProtectedEntity is returned when a mutation would remove the start
// point or the hole.
var ErrProtectedEntity = errors.New("start and hole cannot be removed")

// ErrUnknownRecord is returned when an id does not resolve to a record.
var ErrUnknownRecord = errors.New("unknown record id")

// Default positions applied by New and Reset.
var (
	DefaultStartPoint = math.Vec3{X: 0, Y: 0, Z: 30}
	DefaultHole       = Hole{X: 0, Y: 0, Z: -30, Radius: DefaultHoleRadius}
)

// Document is the authoritative map. The entity slices are
// insertion-ordered and the order survives save/load and undo/redo.
type Document struct {
	Name          string    `json:"name"`
	StartPoint    math.Vec3 `json:"startPoint"`
	Hole          Hole      `json:"hole"`
	Walls         []*Wall   `json:"walls"`
	Ramps         []*Ramp   `json:"ramps"`
	PowerupSpawns []*Spawn  `json:"powerupSpawns"`
	Fans          []*Fan    `json:"fans"`

	// NextID is the next dynamic record id. Not part of the wire format;
	// recomputed after load.
	NextID ID `json:"-"`
}

// New returns a fresh document with default start and hole.
func New(name string) *Document {
	d := &Document{Name: name}
	d.Reset()
	return d
}

// Reset reinitializes the document in place: default start and hole,
// empty entity lists. All list keys stay present so a reset map
// serializes with explicit empty arrays, fans included.
func (d *Document) Reset() {
	d.StartPoint = DefaultStartPoint
	d.Hole = DefaultHole
	d.Walls = []*Wall{}
	d.Ramps = []*Ramp{}
	d.PowerupSpawns = []*Spawn{}
	d.Fans = []*Fan{}
	d.NextID = firstDynamicID
}

func (d *Document) allocID() ID {
	id := d.NextID
	d.NextID++
	return id
}

// AddWall clamps and appends a wall, assigning it a fresh id.
func (d *Document) AddWall(w Wall) *Wall {
	w.ID = d.allocID()
	w.normalize()
	rec := &w
	d.Walls = append(d.Walls, rec)
	return rec
}

// AddRamp clamps and appends a ramp, assigning it a fresh id.
func (d *Document) AddRamp(r Ramp) *Ramp {
	r.ID = d.allocID()
	r.normalize()
	rec := &r
	d.Ramps = append(d.Ramps, rec)
	return rec
}

// AddSpawn clamps and appends a powerup spawn, assigning it a fresh id.
func (d *Document) AddSpawn(s Spawn) *Spawn {
	s.ID = d.allocID()
	s.normalize()
	rec := &s
	d.PowerupSpawns = append(d.PowerupSpawns, rec)
	return rec
}

// AddFan clamps and appends a fan, assigning it a fresh id.
func (d *Document) AddFan(f Fan) *Fan {
	f.ID = d.allocID()
	f.normalize()
	rec := &f
	d.Fans = append(d.Fans, rec)
	return rec
}

// AddCopy appends a deep copy of a record of any mutable kind and
// returns the stored record. Protected kinds are rejected.
func (d *Document) AddCopy(rec Record) (Record, error) {
	switch r := rec.(type) {
	case *Wall:
		return d.AddWall(*r), nil
	case *Ramp:
		return d.AddRamp(*r), nil
	case *Spawn:
		return d.AddSpawn(*r), nil
	case *Fan:
		return d.AddFan(*r), nil
	}
	return nil, fmt.Errorf("add copy of %s: %w", rec.RecordKind(), ErrProtectedEntity)
}

// Record resolves an id to its record. Start and hole are not Records;
// use their accessors instead.
func (d *Document) Record(id ID) (Record, bool) {
	for _, w := range d.Walls {
		if w.ID == id {
			return w, true
		}
	}
	for _, r := range d.Ramps {
		if r.ID == id {
			return r, true
		}
	}
	for _, s := range d.PowerupSpawns {
		if s.ID == id {
			return s, true
		}
	}
	for _, fn := range d.Fans {
		if fn.ID == id {
			return fn, true
		}
	}
	return nil, false
}

// Remove deletes the record with the given id. Removing the start or the
// hole fails with ErrProtectedEntity.
func (d *Document) Remove(id ID) error {
	if id == StartID || id == HoleID {
		return ErrProtectedEntity
	}
	for i, w := range d.Walls {
		if w.ID == id {
			d.Walls = append(d.Walls[:i], d.Walls[i+1:]...)
			return nil
		}
	}
	for i, r := range d.Ramps {
		if r.ID == id {
			d.Ramps = append(d.Ramps[:i], d.Ramps[i+1:]...)
			return nil
		}
	}
	for i, s := range d.PowerupSpawns {
		if s.ID == id {
			d.PowerupSpawns = append(d.PowerupSpawns[:i], d.PowerupSpawns[i+1:]...)
			return nil
		}
	}
	for i, fn := range d.Fans {
		if fn.ID == id {
			d.Fans = append(d.Fans[:i], d.Fans[i+1:]...)
			return nil
		}
	}
	return ErrUnknownRecord
}

// MoveStartTo repositions the start point.
func (d *Document) MoveStartTo(p math.Vec3) {
	d.StartPoint = p
}

// MoveHoleTo repositions the hole, keeping its radius.
func (d *Document) MoveHoleTo(p math.Vec3) {
	d.Hole.X, d.Hole.Y, d.Hole.Z = p.X, p.Y, p.Z
}

// SetHoleRadius clamps and applies a new hole radius.
func (d *Document) SetHoleRadius(r float64) {
	d.Hole.Radius = clamp(r, MinHoleRadius, MaxHoleRadius)
}

// SetPosition moves a mutable record.
func (d *Document) SetPosition(id ID, p math.Vec3) error {
	rec, ok := d.Record(id)
	if !ok {
		return ErrUnknownRecord
	}
	switch r := rec.(type) {
	case *Wall:
		r.Position = p
	case *Ramp:
		r.Position = p
	case *Spawn:
		r.Position = p
	case *Fan:
		r.Position = p
	}
	return nil
}

// SetSize resizes a wall or ramp, clamped to the catalog minimum.
func (d *Document) SetSize(id ID, s math.Vec3) error {
	rec, ok := d.Record(id)
	if !ok {
		return ErrUnknownRecord
	}
	switch r := rec.(type) {
	case *Wall:
		r.Size = clampSize(s)
	case *Ramp:
		r.Size = clampSize(s)
	default:
		return fmt.Errorf("resize %s: only walls and ramps have a size", rec.RecordKind())
	}
	return nil
}

// SetColor repaints a record. Fans carry no color and are left alone.
func (d *Document) SetColor(id ID, color uint32) error {
	rec, ok := d.Record(id)
	if !ok {
		return ErrUnknownRecord
	}
	switch r := rec.(type) {
	case *Wall:
		r.Color = color
	case *Ramp:
		r.Color = color
	case *Spawn:
		r.Color = color
	default:
		return fmt.Errorf("repaint %s: kind has no color", rec.RecordKind())
	}
	return nil
}

// SetRotationY rerotates a record about Y, wrapped into [0, 360).
func (d *Document) SetRotationY(id ID, deg float64) error {
	rec, ok := d.Record(id)
	if !ok {
		return ErrUnknownRecord
	}
	deg = normalizeRotation(deg)
	switch r := rec.(type) {
	case *Wall:
		r.RotationY = deg
	case *Ramp:
		r.RotationY = deg
	case *Fan:
		r.RotationY = deg
	default:
		return fmt.Errorf("rerotate %s: kind has no rotation", rec.RecordKind())
	}
	return nil
}

// SetAngle retilts a ramp or fan, clamped to the kind's range.
func (d *Document) SetAngle(id ID, deg float64) error {
	rec, ok := d.Record(id)
	if !ok {
		return ErrUnknownRecord
	}
	switch r := rec.(type) {
	case *Ramp:
		r.Angle = clamp(deg, MinRampAngle, MaxRampAngle)
	case *Fan:
		r.Angle = clamp(deg, MinFanAngle, MaxFanAngle)
	default:
		return fmt.Errorf("retilt %s: kind has no angle", rec.RecordKind())
	}
	return nil
}

// SetStrength adjusts a fan's strength, clamped to [1, 50].
func (d *Document) SetStrength(id ID, s float64) error {
	rec, ok := d.Record(id)
	if !ok {
		return ErrUnknownRecord
	}
	fan, ok := rec.(*Fan)
	if !ok {
		return fmt.Errorf("strength %s: only fans have strength", rec.RecordKind())
	}
	fan.Strength = clamp(s, MinStrength, MaxStrength)
	return nil
}

// Records returns all mutable records in insertion order per list.
func (d *Document) Records() []Record {
	out := make([]Record, 0, len(d.Walls)+len(d.Ramps)+len(d.PowerupSpawns)+len(d.Fans))
	for _, w := range d.Walls {
		out = append(out, w)
	}
	for _, r := range d.Ramps {
		out = append(out, r)
	}
	for _, s := range d.PowerupSpawns {
		out = append(out, s)
	}
	for _, fn := range d.Fans {
		out = append(out, fn)
	}
	return out
}

// Count returns the number of mutable records.
func (d *Document) Count() int {
	return len(d.Walls) + len(d.Ramps) + len(d.PowerupSpawns) + len(d.Fans)
}
