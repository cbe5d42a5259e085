package editor

import (
	gomath "math"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/engine/picking"
	"github.com/fairwaylab/greenside/pkg/math"
)

// faceInfo describes the wall or ramp face a placement snapped to.
type faceInfo struct {
	normal math.Vec3
	center math.Vec3
	width  float64
	height float64
	// side is true for vertical faces; snapping to one also snaps Y.
	side bool
}

// faceOffsets are the outward distances from a snapped face to the new
// entity's center, per kind, split by face orientation.
var faceOffsets = map[document.Kind]struct{ top, side float64 }{
	document.KindWall:  {top: 1, side: 2},
	document.KindRamp:  {top: 0.25, side: 3},
	document.KindSpawn: {top: 0.5, side: 0.5},
	document.KindFan:   {top: 0, side: 0},
}

// groundOffsets lift a ground placement so the entity rests on the
// plane instead of being bisected by it.
var groundOffsets = map[document.Kind]float64{
	document.KindWall:  1,
	document.KindRamp:  0.25,
	document.KindSpawn: 0.5,
	document.KindFan:   2,
	document.KindStart: 1,
	document.KindHole:  0.05,
}

// resolvePlacement turns a pointer ray into a placement position.
// Hitting a wall or ramp snaps face-adjacent unless shift is held;
// otherwise the position comes from the ground plane (or the hit point
// itself with shift) at the manual altitude. Returns the face snapped
// to, if any, for the overlay and fan facing.
func (ed *Editor) resolvePlacement(ev PointerEvent, kind document.Kind) (math.Vec3, *faceInfo, bool) {
	hit, node, hitOK := ed.pick(ev.Ray)

	if hitOK && !ev.Shift && (node.Kind == document.KindWall || node.Kind == document.KindRamp) {
		face := faceGeometry(nodeAABB(node), hit.Normal)
		off := faceOffsets[kind]
		dist := off.top
		if face.side {
			dist = off.side
		}
		pos := hit.Point.Add(hit.Normal.Scale(dist))
		pos.X = ed.snap(pos.X)
		pos.Z = ed.snap(pos.Z)
		if face.side {
			pos.Y = ed.snap(pos.Y)
		}
		return pos, face, true
	}

	var base math.Vec3
	if hitOK && ev.Shift {
		base = hit.Point
	} else {
		p, ok := ev.Ray.IntersectPlaneY(0)
		if !ok {
			return math.Vec3{}, nil, false
		}
		base = p
	}
	pos := math.Vec3{
		X: ed.snap(base.X),
		Y: ed.altitude + groundOffsets[kind],
		Z: ed.snap(base.Z),
	}
	return pos, nil, true
}

// faceGeometry computes the center and extents of the box face the
// normal belongs to, for the snap overlay.
func faceGeometry(box picking.AABB, normal math.Vec3) *faceInfo {
	center := math.Vec3{
		X: (box.Min.X + box.Max.X) / 2,
		Y: (box.Min.Y + box.Max.Y) / 2,
		Z: (box.Min.Z + box.Max.Z) / 2,
	}
	ext := box.Max.Sub(box.Min)
	f := &faceInfo{normal: normal, side: gomath.Abs(normal.Y) <= 0.5}

	switch {
	case normal.X > 0.5:
		center.X = box.Max.X
		f.width, f.height = ext.Z, ext.Y
	case normal.X < -0.5:
		center.X = box.Min.X
		f.width, f.height = ext.Z, ext.Y
	case normal.Y > 0.5:
		center.Y = box.Max.Y
		f.width, f.height = ext.X, ext.Z
	case normal.Y < -0.5:
		center.Y = box.Min.Y
		f.width, f.height = ext.X, ext.Z
	case normal.Z > 0.5:
		center.Z = box.Max.Z
		f.width, f.height = ext.X, ext.Y
	default:
		center.Z = box.Min.Z
		f.width, f.height = ext.X, ext.Y
	}
	f.center = center
	return f
}

// faceFanYaw converts a face normal to the yaw a snapped fan blows
// along, pointing away from the face.
func faceFanYaw(normal math.Vec3) float64 {
	return math.Degrees(gomath.Atan2(normal.X, normal.Z))
}
