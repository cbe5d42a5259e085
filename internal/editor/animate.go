package editor

import "github.com/fairwaylab/greenside/internal/editor/document"

// bladeSpinRate is the fan blade rotation speed in degrees per second.
// Visual only.
const bladeSpinRate = 540.0

// Tick advances the decorative fan animations: blade spin and airflow
// particles. It never touches the document or history.
func (ed *Editor) Tick(dt float64) {
	for _, n := range ed.mirror.Nodes() {
		if n.Kind != document.KindFan {
			continue
		}
		if n.Blades != nil {
			n.Blades.Spin += bladeSpinRate * dt
			for n.Blades.Spin >= 360 {
				n.Blades.Spin -= 360
			}
		}
		ps := n.Particles
		if ps == nil {
			continue
		}
		for i := range ps.Points {
			pt := &ps.Points[i]
			pt.Offset = pt.Offset.Add(ps.Forward.Scale(pt.Velocity * dt))
			if pt.Offset.Dot(ps.Forward) > ps.EmitDistance {
				ps.Reseed(i)
			}
		}
	}
}
