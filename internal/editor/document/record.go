// Package document holds the authoritative, serializable map: start point,
// hole, and the mutable entity lists. Pure data, no rendering concerns.
// Records are keyed by stable integer ids; scene nodes, selection and
// clipboard all reference records through those ids.
package document

import (
	"encoding/json"
	gomath "math"

	"github.com/fairwaylab/greenside/pkg/math"
)

// ID is a stable record identifier. Ids 1 and 2 are reserved for the
// protected start and hole entities; dynamic records start at 3.
type ID int64

const (
	// StartID is the reserved id of the start point.
	StartID ID = 1
	// HoleID is the reserved id of the hole.
	HoleID ID = 2

	firstDynamicID ID = 3
)

// Kind tags an entity variant.
type Kind int

const (
	KindStart Kind = iota
	KindHole
	KindWall
	KindRamp
	KindSpawn
	KindFan
)

// String returns the kind name as used in UI and logs.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindHole:
		return "hole"
	case KindWall:
		return "wall"
	case KindRamp:
		return "ramp"
	case KindSpawn:
		return "powerup_spawn"
	case KindFan:
		return "fan"
	}
	return "unknown"
}

// Protected reports whether the kind is a singleton that can never be
// removed from the map.
func (k Kind) Protected() bool {
	return k == KindStart || k == KindHole
}

// Default colors per kind (24-bit RGB), applied when a record arrives
// from the wire without a color field. An explicit 0 is black and is
// kept as such.
const (
	DefaultWallColor  uint32 = 0x8B4513
	DefaultRampColor  uint32 = 0x6B8E23
	DefaultSpawnColor uint32 = 0xFF00FF
)

// Catalog limits.
const (
	MinSize       = 0.5
	MinRampAngle  = 5.0
	MaxRampAngle  = 45.0
	MinFanAngle   = -90.0
	MaxFanAngle   = 90.0
	MinStrength   = 1.0
	MaxStrength   = 50.0
	MinHoleRadius = 0.5
	MaxHoleRadius = 3.0
)

// Record is a document-level description of one mutable map entity.
type Record interface {
	RecordID() ID
	RecordKind() Kind
	Pos() math.Vec3
}

// Wall is an axis-aligned box rotated about Y.
type Wall struct {
	ID        ID        `json:"-"`
	Position  math.Vec3 `json:"position"`
	Size      math.Vec3 `json:"size"`
	RotationY float64   `json:"rotationY"`
	Color     uint32    `json:"color"`
}

func (w *Wall) RecordID() ID     { return w.ID }
func (w *Wall) RecordKind() Kind { return KindWall }
func (w *Wall) Pos() math.Vec3   { return w.Position }

// UnmarshalJSON distinguishes an absent color field from an explicit
// black (0): only the former takes the kind default.
func (w *Wall) UnmarshalJSON(data []byte) error {
	type wire Wall
	aux := struct {
		*wire
		Color *uint32 `json:"color"`
	}{wire: (*wire)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.Color = colorOrDefault(aux.Color, DefaultWallColor)
	return nil
}

// Ramp is a box tilted about its local Z axis.
type Ramp struct {
	ID        ID        `json:"-"`
	Position  math.Vec3 `json:"position"`
	Size      math.Vec3 `json:"size"`
	RotationY float64   `json:"rotationY"`
	Angle     float64   `json:"angle"`
	Color     uint32    `json:"color"`
}

func (r *Ramp) RecordID() ID     { return r.ID }
func (r *Ramp) RecordKind() Kind { return KindRamp }
func (r *Ramp) Pos() math.Vec3   { return r.Position }

func (r *Ramp) UnmarshalJSON(data []byte) error {
	type wire Ramp
	aux := struct {
		*wire
		Color *uint32 `json:"color"`
	}{wire: (*wire)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Color = colorOrDefault(aux.Color, DefaultRampColor)
	return nil
}

// Spawn is a powerup spawn sphere.
type Spawn struct {
	ID       ID        `json:"-"`
	Position math.Vec3 `json:"position"`
	Color    uint32    `json:"color"`
}

func (s *Spawn) RecordID() ID     { return s.ID }
func (s *Spawn) RecordKind() Kind { return KindSpawn }
func (s *Spawn) Pos() math.Vec3   { return s.Position }

func (s *Spawn) UnmarshalJSON(data []byte) error {
	type wire Spawn
	aux := struct {
		*wire
		Color *uint32 `json:"color"`
	}{wire: (*wire)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Color = colorOrDefault(aux.Color, DefaultSpawnColor)
	return nil
}

// Fan blows balls along its facing direction.
type Fan struct {
	ID        ID        `json:"-"`
	Position  math.Vec3 `json:"position"`
	RotationY float64   `json:"rotationY"`
	Angle     float64   `json:"angle"`
	Strength  float64   `json:"strength"`
}

func (f *Fan) RecordID() ID     { return f.ID }
func (f *Fan) RecordKind() Kind { return KindFan }
func (f *Fan) Pos() math.Vec3   { return f.Position }

// Hole is the protected target of the map.
type Hole struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
}

func colorOrDefault(c *uint32, def uint32) uint32 {
	if c == nil {
		return def
	}
	return *c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampSize enforces the minimum size on every axis.
func clampSize(s math.Vec3) math.Vec3 {
	if s.X < MinSize {
		s.X = MinSize
	}
	if s.Y < MinSize {
		s.Y = MinSize
	}
	if s.Z < MinSize {
		s.Z = MinSize
	}
	return s
}

// normalizeRotation wraps degrees into [0, 360).
func normalizeRotation(deg float64) float64 {
	deg = gomath.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// normalize clamps a record's fields to the catalog ranges. Called at
// every mutation point and on load.
func (w *Wall) normalize() {
	w.Size = clampSize(w.Size)
	w.RotationY = normalizeRotation(w.RotationY)
}

func (r *Ramp) normalize() {
	r.Size = clampSize(r.Size)
	r.RotationY = normalizeRotation(r.RotationY)
	r.Angle = clamp(r.Angle, MinRampAngle, MaxRampAngle)
}

// Spawns carry no clamped fields.
func (s *Spawn) normalize() {}

func (f *Fan) normalize() {
	f.RotationY = normalizeRotation(f.RotationY)
	f.Angle = clamp(f.Angle, MinFanAngle, MaxFanAngle)
	if f.Strength == 0 {
		f.Strength = DefaultFanStrength
	}
	f.Strength = clamp(f.Strength, MinStrength, MaxStrength)
}

// Defaults used when the palette places a fresh entity.
const (
	DefaultFanStrength = 10.0
	DefaultRampAngle   = 15.0
	DefaultHoleRadius  = 1.2
)

// DefaultWallSize is the palette wall footprint.
var DefaultWallSize = math.Vec3{X: 4, Y: 2, Z: 4}

// DefaultRampSize is the palette ramp footprint.
var DefaultRampSize = math.Vec3{X: 4, Y: 0.5, Z: 6}
