// Package memory holds in-process implementations of the output ports.
package memory

import "riseup/internal/ports/output"

var _ output.Directory = (*Directory)(nil)

// Directory is the registry backend: owner → card, message → owner and
// the reverse index owner → messages. It is not safe for concurrent use.
type Directory struct {
	owners   map[string]string
	surfaces map[string]string
	byOwner  map[string]map[string]struct{}
}

func NewDirectory() *Directory {
	return &Directory{
		owners:   make(map[string]string),
		surfaces: make(map[string]string),
		byOwner:  make(map[string]map[string]struct{}),
	}
}

func (d *Directory) PutOwner(ownerID, cardID string) {
	d.owners[ownerID] = cardID
}

func (d *Directory) Owner(ownerID string) (string, bool) {
	id, ok := d.owners[ownerID]
	return id, ok
}

func (d *Directory) DeleteOwner(ownerID string) {
	delete(d.owners, ownerID)
}

// PutSurface maps messageID to ownerID, moving it off any previous owner.
func (d *Directory) PutSurface(messageID, ownerID string) {
	if prev, ok := d.surfaces[messageID]; ok && prev != ownerID {
		d.unindex(prev, messageID)
	}
	d.surfaces[messageID] = ownerID
	set, ok := d.byOwner[ownerID]
	if !ok {
		set = make(map[string]struct{})
		d.byOwner[ownerID] = set
	}
	set[messageID] = struct{}{}
}

func (d *Directory) SurfaceOwner(messageID string) (string, bool) {
	owner, ok := d.surfaces[messageID]
	return owner, ok
}

func (d *Directory) DeleteSurfaces(ownerID string) []string {
	set := d.byOwner[ownerID]
	out := make([]string, 0, len(set))
	for id := range set {
		delete(d.surfaces, id)
		out = append(out, id)
	}
	delete(d.byOwner, ownerID)
	return out
}

func (d *Directory) unindex(ownerID, messageID string) {
	set := d.byOwner[ownerID]
	delete(set, messageID)
	if len(set) == 0 {
		delete(d.byOwner, ownerID)
	}
}
