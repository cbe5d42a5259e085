package document

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
)

// Snapshot is an immutable deep copy of a document. History owns these;
// nothing outside this package can reach the inner copy.
type Snapshot struct {
	doc *Document
}

// Snapshot returns a frozen deep copy of the document.
func (d *Document) Snapshot() Snapshot {
	var cp Document
	// copier never fails on matching struct types; the error path exists
	// for interface targets only.
	_ = copier.CopyWithOption(&cp, d, copier.Option{DeepCopy: true})
	cp.ensureLists()
	return Snapshot{doc: &cp}
}

// Load wholly replaces the document's contents with the snapshot's.
// The snapshot stays untouched; a second deep copy is taken so later
// edits cannot reach back into history.
func (d *Document) Load(s Snapshot) {
	if s.doc == nil {
		d.Reset()
		return
	}
	var cp Document
	_ = copier.CopyWithOption(&cp, s.doc, copier.Option{DeepCopy: true})
	cp.ensureLists()
	*d = cp
}

// Name returns the snapshot's map name, for logging.
func (s Snapshot) Name() string {
	if s.doc == nil {
		return ""
	}
	return s.doc.Name
}

// ensureLists keeps every entity list non-nil so the wire format always
// carries explicit arrays, fans included.
func (d *Document) ensureLists() {
	if d.Walls == nil {
		d.Walls = []*Wall{}
	}
	if d.Ramps == nil {
		d.Ramps = []*Ramp{}
	}
	if d.PowerupSpawns == nil {
		d.PowerupSpawns = []*Spawn{}
	}
	if d.Fans == nil {
		d.Fans = []*Fan{}
	}
}

// reindex reassigns dynamic ids and recomputes NextID. Used after a load
// from the wire, where ids are not part of the format.
func (d *Document) reindex() {
	d.NextID = firstDynamicID
	for _, w := range d.Walls {
		w.ID = d.allocID()
		w.normalize()
	}
	for _, r := range d.Ramps {
		r.ID = d.allocID()
		r.normalize()
	}
	for _, s := range d.PowerupSpawns {
		s.ID = d.allocID()
		s.normalize()
	}
	for _, fn := range d.Fans {
		fn.ID = d.allocID()
		fn.normalize()
	}
	d.Hole.Radius = clamp(d.Hole.Radius, MinHoleRadius, MaxHoleRadius)
}

// ToJSON serializes the document in the map file schema.
func (d *Document) ToJSON() ([]byte, error) {
	d.ensureLists()
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal map %q: %w", d.Name, err)
	}
	return data, nil
}

// FromJSON parses a map file. A missing fans list is tolerated and
// treated as empty. Out-of-range values are clamped, not rejected.
func FromJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	d.ensureLists()
	d.reindex()
	return &d, nil
}
