package document

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fairwaylab/greenside/pkg/math"
)

func TestNewDefaults(t *testing.T) {
	d := New("test")

	if d.StartPoint != (math.Vec3{X: 0, Y: 0, Z: 30}) {
		t.Errorf("start point: got %v", d.StartPoint)
	}
	if d.Hole != (Hole{X: 0, Y: 0, Z: -30, Radius: 1.2}) {
		t.Errorf("hole: got %v", d.Hole)
	}
	if d.Count() != 0 {
		t.Errorf("fresh document should be empty, got %d records", d.Count())
	}
}

func TestAddWallClamps(t *testing.T) {
	d := New("test")

	w := d.AddWall(Wall{
		Position: math.Vec3{X: 1, Y: 1, Z: 1},
		Size:     math.Vec3{X: 0.1, Y: -3, Z: 2},
		Color:    DefaultWallColor,
	})

	if w.Size.X != MinSize || w.Size.Y != MinSize {
		t.Errorf("size should clamp to %v, got %v", MinSize, w.Size)
	}
	if w.Size.Z != 2 {
		t.Errorf("valid size component changed: got %v", w.Size.Z)
	}
	if w.ID < firstDynamicID {
		t.Errorf("dynamic id collides with reserved range: %d", w.ID)
	}
}

func TestBlackColorIsRepresentable(t *testing.T) {
	d := New("test")
	w := d.AddWall(Wall{Size: DefaultWallSize, Color: DefaultWallColor})
	if err := d.SetColor(w.ID, 0x000000); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	if w.Color != 0 {
		t.Fatalf("painted black reset to %#x", w.Color)
	}

	data, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	loaded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if loaded.Walls[0].Color != 0 {
		t.Errorf("black wall reloaded as %#x", loaded.Walls[0].Color)
	}
}

func TestRampAngleClamp(t *testing.T) {
	d := New("test")

	tests := []struct {
		in, want float64
	}{
		{0, MinRampAngle},
		{5, 5},
		{30, 30},
		{45, 45},
		{90, MaxRampAngle},
	}
	for _, tt := range tests {
		r := d.AddRamp(Ramp{Size: math.Vec3{X: 4, Y: 1, Z: 6}, Angle: tt.in})
		if r.Angle != tt.want {
			t.Errorf("ramp angle %v: got %v, want %v", tt.in, r.Angle, tt.want)
		}
	}
}

func TestFanClamps(t *testing.T) {
	d := New("test")

	fan := d.AddFan(Fan{Angle: 180, Strength: 99})
	if fan.Angle != MaxFanAngle {
		t.Errorf("fan angle: got %v, want %v", fan.Angle, MaxFanAngle)
	}
	if fan.Strength != MaxStrength {
		t.Errorf("fan strength: got %v, want %v", fan.Strength, MaxStrength)
	}

	if err := d.SetAngle(fan.ID, -180); err != nil {
		t.Fatalf("SetAngle: %v", err)
	}
	if fan.Angle != MinFanAngle {
		t.Errorf("fan angle after retilt: got %v", fan.Angle)
	}
	if err := d.SetStrength(fan.ID, 0); err != nil {
		t.Fatalf("SetStrength: %v", err)
	}
	if fan.Strength != MinStrength {
		t.Errorf("fan strength after set: got %v", fan.Strength)
	}
}

func TestRotationWraps(t *testing.T) {
	d := New("test")
	w := d.AddWall(Wall{Size: DefaultWallSize, RotationY: 405})
	if w.RotationY != 45 {
		t.Errorf("rotation should wrap to 45, got %v", w.RotationY)
	}

	if err := d.SetRotationY(w.ID, -90); err != nil {
		t.Fatalf("SetRotationY: %v", err)
	}
	if w.RotationY != 270 {
		t.Errorf("negative rotation should wrap to 270, got %v", w.RotationY)
	}
}

func TestRemoveProtected(t *testing.T) {
	d := New("test")

	if err := d.Remove(StartID); !errors.Is(err, ErrProtectedEntity) {
		t.Errorf("removing start: got %v, want ErrProtectedEntity", err)
	}
	if err := d.Remove(HoleID); !errors.Is(err, ErrProtectedEntity) {
		t.Errorf("removing hole: got %v, want ErrProtectedEntity", err)
	}
	if err := d.Remove(9999); !errors.Is(err, ErrUnknownRecord) {
		t.Errorf("removing unknown id: got %v, want ErrUnknownRecord", err)
	}
}

func TestRemoveKeepsOrder(t *testing.T) {
	d := New("test")
	a := d.AddWall(Wall{Size: DefaultWallSize, Position: math.Vec3{X: 1}})
	b := d.AddWall(Wall{Size: DefaultWallSize, Position: math.Vec3{X: 2}})
	c := d.AddWall(Wall{Size: DefaultWallSize, Position: math.Vec3{X: 3}})

	if err := d.Remove(b.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(d.Walls) != 2 || d.Walls[0] != a || d.Walls[1] != c {
		t.Errorf("insertion order not preserved after remove")
	}
}

func TestHoleRadiusClamp(t *testing.T) {
	d := New("test")
	d.SetHoleRadius(10)
	if d.Hole.Radius != MaxHoleRadius {
		t.Errorf("radius: got %v, want %v", d.Hole.Radius, MaxHoleRadius)
	}
	d.SetHoleRadius(0)
	if d.Hole.Radius != MinHoleRadius {
		t.Errorf("radius: got %v, want %v", d.Hole.Radius, MinHoleRadius)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := New("roundtrip")
	d.AddWall(Wall{Position: math.Vec3{X: 2, Y: 1, Z: -2}, Size: DefaultWallSize})
	d.AddRamp(Ramp{Position: math.Vec3{X: 5}, Size: DefaultRampSize, Angle: 20})
	d.AddSpawn(Spawn{Position: math.Vec3{Y: 0.5}})
	d.AddFan(Fan{Position: math.Vec3{Z: 8}, Strength: 25})

	before, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	snap := d.Snapshot()
	d.AddWall(Wall{Size: DefaultWallSize}) // diverge
	d.Load(snap)

	after, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON after load: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("round trip not byte-identical:\n before %s\n after  %s", before, after)
	}
}

func TestSnapshotIsFrozen(t *testing.T) {
	d := New("frozen")
	w := d.AddWall(Wall{Size: DefaultWallSize})
	snap := d.Snapshot()

	// Mutating the live document must not leak into the snapshot.
	w.Position = math.Vec3{X: 99}
	d.Load(snap)
	if d.Walls[0].Position.X == 99 {
		t.Error("snapshot shared state with live document")
	}
}

func TestFromJSONMissingFans(t *testing.T) {
	data := []byte(`{
		"name": "nofans",
		"startPoint": {"x":0,"y":0,"z":30},
		"hole": {"x":0,"y":0,"z":-30,"radius":1.2},
		"walls": [{"position":{"x":1,"y":1,"z":1},"size":{"x":4,"y":2,"z":4},"rotationY":0,"color":9127187}],
		"ramps": [],
		"powerupSpawns": []
	}`)

	d, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if d.Fans == nil || len(d.Fans) != 0 {
		t.Errorf("missing fans should load as empty list, got %v", d.Fans)
	}
	if len(d.Walls) != 1 {
		t.Fatalf("expected 1 wall, got %d", len(d.Walls))
	}
	if d.Walls[0].ID < firstDynamicID {
		t.Errorf("loaded record did not get a dynamic id: %d", d.Walls[0].ID)
	}
}

func TestFromJSONClampsRanges(t *testing.T) {
	data := []byte(`{
		"name": "dirty",
		"startPoint": {"x":0,"y":0,"z":30},
		"hole": {"x":0,"y":0,"z":-30,"radius":99},
		"walls": [{"position":{"x":0,"y":0,"z":0},"size":{"x":0.1,"y":0.1,"z":0.1},"rotationY":720}],
		"ramps": [{"position":{"x":0,"y":0,"z":0},"size":{"x":4,"y":1,"z":6},"rotationY":0,"angle":1,"color":0}],
		"powerupSpawns": [],
		"fans": [{"position":{"x":0,"y":0,"z":0},"rotationY":0,"angle":500,"strength":500}]
	}`)

	d, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if d.Hole.Radius != MaxHoleRadius {
		t.Errorf("hole radius: got %v", d.Hole.Radius)
	}
	w := d.Walls[0]
	if w.Size != (math.Vec3{X: MinSize, Y: MinSize, Z: MinSize}) {
		t.Errorf("wall size: got %v", w.Size)
	}
	if w.RotationY != 0 {
		t.Errorf("wall rotation: got %v", w.RotationY)
	}
	if w.Color != DefaultWallColor {
		t.Errorf("missing wall color should default, got %#x", w.Color)
	}
	if d.Ramps[0].Color != 0 {
		t.Errorf("explicit black ramp color changed: got %#x", d.Ramps[0].Color)
	}
	if d.Ramps[0].Angle != MinRampAngle {
		t.Errorf("ramp angle: got %v", d.Ramps[0].Angle)
	}
	fan := d.Fans[0]
	if fan.Angle != MaxFanAngle || fan.Strength != MaxStrength {
		t.Errorf("fan not clamped: angle %v strength %v", fan.Angle, fan.Strength)
	}
}

func TestResetKeepsFansKey(t *testing.T) {
	d := New("reset")
	d.AddFan(Fan{})
	d.Reset()

	data, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(string(data), `"fans":[]`) {
		t.Errorf("reset document should serialize an explicit empty fans list: %s", data)
	}
	if d.Count() != 0 {
		t.Errorf("reset should clear all records, got %d", d.Count())
	}
}

func TestProtectedSingletonsSurviveEverything(t *testing.T) {
	d := New("singletons")
	d.AddWall(Wall{Size: DefaultWallSize})
	snap := d.Snapshot()
	d.Reset()
	d.Load(snap)

	data, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	for _, key := range []string{`"startPoint"`, `"hole"`} {
		if n := strings.Count(string(data), key); n != 1 {
			t.Errorf("expected exactly one %s, found %d", key, n)
		}
	}
}
