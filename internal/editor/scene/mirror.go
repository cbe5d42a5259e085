package scene

import (
	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/logger"
	"github.com/fairwaylab/greenside/pkg/math"
)

// Mirror maps record ids to scene nodes. It never stores document
// pointers beyond a sync call; the document remains the single owner of
// record data.
type Mirror struct {
	res   Resources
	nodes map[document.ID]*Node
	order []document.ID
}

// New creates an empty mirror backed by the given resource allocator.
func New(res Resources) *Mirror {
	if res == nil {
		res = NullResources{}
	}
	return &Mirror{
		res:   res,
		nodes: make(map[document.ID]*Node),
	}
}

// Rebuild disposes every node and recreates the whole scene from the
// document. No diffing: load and undo/redo replace the document
// wholesale, so the mirror follows suit.
func (m *Mirror) Rebuild(doc *document.Document) {
	m.DisposeAll()
	m.Sync(doc, document.StartID)
	m.Sync(doc, document.HoleID)
	for _, rec := range doc.Records() {
		m.Sync(doc, rec.RecordID())
	}
	logger.Debug("scene rebuilt", zap.Int("nodes", len(m.nodes)))
}

// Sync creates or updates the node for one record (or the start/hole
// singletons). Unknown ids are removed, so callers can sync an id right
// after deleting its record.
func (m *Mirror) Sync(doc *document.Document, id document.ID) {
	switch id {
	case document.StartID:
		m.upsert(id, func(n *Node) { buildStart(n, doc) })
		return
	case document.HoleID:
		m.upsert(id, func(n *Node) { buildHole(n, doc) })
		return
	}

	rec, ok := doc.Record(id)
	if !ok {
		m.Remove(id)
		return
	}
	switch r := rec.(type) {
	case *document.Wall:
		m.upsert(id, func(n *Node) { buildWall(n, r) })
	case *document.Ramp:
		m.upsert(id, func(n *Node) { buildRamp(n, r) })
	case *document.Spawn:
		m.upsert(id, func(n *Node) { buildSpawn(n, r) })
	case *document.Fan:
		m.upsert(id, func(n *Node) { buildFan(n, r) })
	}
}

// upsert reuses an existing node when the build leaves its shape tree
// unchanged, otherwise replaces it.
func (m *Mirror) upsert(id document.ID, build func(*Node)) {
	if n, ok := m.nodes[id]; ok {
		emissive := n.Emissive
		n.dispose(m.res)
		*n = Node{ID: id}
		build(n)
		n.acquire(m.res)
		n.setEmissive(emissive)
		return
	}
	n := &Node{ID: id}
	build(n)
	n.acquire(m.res)
	m.nodes[id] = n
	m.order = append(m.order, id)
}

// Remove disposes and forgets the node for a record id.
func (m *Mirror) Remove(id document.ID) {
	n, ok := m.nodes[id]
	if !ok {
		return
	}
	n.dispose(m.res)
	delete(m.nodes, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// DisposeAll releases every node. Used on rebuild and editor shutdown.
func (m *Mirror) DisposeAll() {
	for _, n := range m.nodes {
		n.dispose(m.res)
	}
	m.nodes = make(map[document.ID]*Node)
	m.order = m.order[:0]
}

// Node returns the scene node for a record id.
func (m *Mirror) Node(id document.ID) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Nodes returns all nodes in creation order. The slice is rebuilt per
// call; callers may not retain it across syncs.
func (m *Mirror) Nodes() []*Node {
	out := make([]*Node, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.nodes[id])
	}
	return out
}

// Len returns the number of root nodes.
func (m *Mirror) Len() int { return len(m.nodes) }

// SetHighlight applies or clears the selection highlight on a node,
// propagating through compound children.
func (m *Mirror) SetHighlight(id document.ID, on bool) {
	n, ok := m.nodes[id]
	if !ok {
		return
	}
	if on {
		n.setEmissive(HighlightEmissive)
	} else {
		n.setEmissive(0)
	}
}

// Ghost builds a free-standing translucent node of the given kind for
// placement previews. Ghosts are not tracked by the mirror; release them
// with DisposeGhost on every mode exit.
func (m *Mirror) Ghost(kind document.Kind) *Node {
	n := &Node{ID: 0, Opacity: 0.4}
	switch kind {
	case document.KindStart:
		buildStart(n, document.New(""))
	case document.KindHole:
		buildHole(n, document.New(""))
	case document.KindWall:
		buildWall(n, &document.Wall{Size: document.DefaultWallSize, Color: document.DefaultWallColor})
	case document.KindRamp:
		buildRamp(n, &document.Ramp{Size: document.DefaultRampSize, Angle: document.DefaultRampAngle, Color: document.DefaultRampColor})
	case document.KindSpawn:
		buildSpawn(n, &document.Spawn{Color: document.DefaultSpawnColor})
	case document.KindFan:
		buildFan(n, &document.Fan{Strength: document.DefaultFanStrength})
	}
	n.Opacity = 0.4
	ghostOpacity(n)
	n.acquire(m.res)
	return n
}

// GhostOf builds a translucent copy of an existing record, used for
// paste previews.
func (m *Mirror) GhostOf(rec document.Record) *Node {
	n := &Node{ID: 0}
	switch r := rec.(type) {
	case *document.Wall:
		buildWall(n, r)
	case *document.Ramp:
		buildRamp(n, r)
	case *document.Spawn:
		buildSpawn(n, r)
	case *document.Fan:
		buildFan(n, r)
	}
	ghostOpacity(n)
	n.acquire(m.res)
	return n
}

// FaceOverlay builds the semi-transparent plane shown over a snapped
// face. The plane is sized to the face and oriented along its normal.
func (m *Mirror) FaceOverlay(center, normal math.Vec3, width, height float64) *Node {
	n := &Node{
		Shape:    ShapePlane,
		Position: center.Add(normal.Scale(0.01)),
		Size:     math.Vec3{X: width, Y: height, Z: 1},
		Color:    0x44AAFF,
		Opacity:  0.3,
	}
	n.Tilt = faceTilt(normal)
	n.RotationY = faceYaw(normal)
	n.acquire(m.res)
	return n
}

// DisposeGhost releases a node built by Ghost, GhostOf or FaceOverlay.
func (m *Mirror) DisposeGhost(n *Node) {
	if n == nil {
		return
	}
	n.dispose(m.res)
}

func ghostOpacity(n *Node) {
	n.Opacity = 0.4
	for _, c := range n.Children {
		ghostOpacity(c)
	}
}

func buildStart(n *Node, doc *document.Document) {
	n.Kind = document.KindStart
	n.Shape = ShapeCylinder
	n.Position = doc.StartPoint
	n.Size = math.Vec3{X: 2, Y: 2, Z: 2}
	n.Color = 0x00CC44
	if n.Opacity == 0 {
		n.Opacity = 1
	}
}

func buildHole(n *Node, doc *document.Document) {
	n.Kind = document.KindHole
	n.Shape = ShapeCylinder
	n.Position = math.Vec3{X: doc.Hole.X, Y: doc.Hole.Y, Z: doc.Hole.Z}
	n.Size = math.Vec3{X: doc.Hole.Radius * 2, Y: 0.1, Z: doc.Hole.Radius * 2}
	n.Color = 0x111111
	if n.Opacity == 0 {
		n.Opacity = 1
	}
}

func buildWall(n *Node, w *document.Wall) {
	n.Kind = document.KindWall
	n.Shape = ShapeBox
	n.Position = w.Position
	n.Size = w.Size
	n.RotationY = w.RotationY
	n.Color = w.Color
	if n.Opacity == 0 {
		n.Opacity = 1
	}
}

func buildRamp(n *Node, r *document.Ramp) {
	n.Kind = document.KindRamp
	n.Shape = ShapeBox
	n.Position = r.Position
	n.Size = r.Size
	n.RotationY = r.RotationY
	n.Tilt = r.Angle
	n.Color = r.Color
	if n.Opacity == 0 {
		n.Opacity = 1
	}
}

func buildSpawn(n *Node, s *document.Spawn) {
	n.Kind = document.KindSpawn
	n.Shape = ShapeSphere
	n.Position = s.Position
	n.Size = math.Vec3{X: 1, Y: 1, Z: 1}
	n.Color = s.Color
	if n.Opacity == 0 {
		n.Opacity = 1
	}
}

// buildFan assembles the compound fan node: housing, grille and blades,
// with the blades and particle system exposed as side channels for the
// animation loop.
func buildFan(n *Node, f *document.Fan) {
	n.Kind = document.KindFan
	n.Shape = ShapeNone
	n.Position = f.Position
	n.RotationY = f.RotationY
	// The transform maps local +Z to Y = -sin(tilt); negating the pitch
	// makes a positive angle blow upward.
	n.Tilt = -f.Angle
	if n.Opacity == 0 {
		n.Opacity = 1
	}

	housing := &Node{
		Kind:     document.KindFan,
		Shape:    ShapeCylinder,
		Position: math.Vec3{},
		Size:     math.Vec3{X: 3, Y: 0.8, Z: 3},
		Tilt:     90, // cylinder axis along the blow direction
		Color:    0x555555,
		Opacity:  n.Opacity,
	}
	grille := &Node{
		Kind:     document.KindFan,
		Shape:    ShapeCylinder,
		Position: math.Vec3{Z: 0.45},
		Size:     math.Vec3{X: 2.9, Y: 0.05, Z: 2.9},
		Tilt:     90,
		Color:    0x999999,
		Opacity:  n.Opacity,
	}
	blades := &Node{
		Kind:     document.KindFan,
		Shape:    ShapeBox,
		Position: math.Vec3{Z: 0.2},
		Size:     math.Vec3{X: 2.6, Y: 0.4, Z: 0.1},
		Color:    0xDDDDDD,
		Opacity:  n.Opacity,
	}

	n.Children = []*Node{housing, grille, blades}
	n.Blades = blades
	n.Particles = newParticles(f)
}

// faceTilt and faceYaw orient a plane overlay so it covers the face the
// normal belongs to. Only axis-aligned normals occur here.
func faceTilt(normal math.Vec3) float64 {
	if normal.Y > 0.5 {
		return -90
	}
	if normal.Y < -0.5 {
		return 90
	}
	return 0
}

func faceYaw(normal math.Vec3) float64 {
	if normal.X > 0.5 {
		return 90
	}
	if normal.X < -0.5 {
		return 270
	}
	if normal.Z < -0.5 {
		return 180
	}
	return 0
}
