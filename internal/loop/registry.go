package loop

import (
	"slices"

	"github.com/tomz197/asteroid-field/internal/object"
)

// ID identifies an entity for as long as it lives. IDs are never reused
// within a Registry.
type ID uint64

// Registry is the authoritative set of live entities. It enforces the
// population cap and keeps typed ID lists for the collision engine. Every
// ID in a typed list is present in the registry exactly once.
type Registry struct {
	max     int
	nextID  ID
	objects map[ID]object.Object
	order   []ID // Insertion order, for stable iteration

	asteroids   []ID
	projectiles []ID
	beams       []ID
}

// NewRegistry creates an empty registry holding at most max entities.
func NewRegistry(max int) *Registry {
	return &Registry{
		max:     max,
		objects: make(map[ID]object.Object, max),
		order:   make([]ID, 0, max),
	}
}

// Len returns the number of live entities.
func (r *Registry) Len() int { return len(r.order) }

// Cap returns the population cap.
func (r *Registry) Cap() int { return r.max }

// Full reports whether the population cap has been reached.
func (r *Registry) Full() bool { return len(r.order) >= r.max }

// Add registers obj and returns its ID. It refuses (ok == false) when the
// registry is full.
func (r *Registry) Add(obj object.Object) (id ID, ok bool) {
	if r.Full() {
		return 0, false
	}
	r.nextID++
	id = r.nextID
	r.objects[id] = obj
	r.order = append(r.order, id)

	switch k := obj.Kind(); {
	case k == object.KindAsteroid:
		r.asteroids = append(r.asteroids, id)
	case k.IsProjectile():
		r.projectiles = append(r.projectiles, id)
	case k == object.KindBeam:
		r.beams = append(r.beams, id)
	}
	return id, true
}

// Get returns the entity with the given ID.
func (r *Registry) Get(id ID) (object.Object, bool) {
	obj, ok := r.objects[id]
	return obj, ok
}

// Remove deletes an entity from the registry and from its typed list.
// Removing an unknown ID is a no-op.
func (r *Registry) Remove(id ID) bool {
	obj, ok := r.objects[id]
	if !ok {
		return false
	}
	delete(r.objects, id)
	r.order = removeID(r.order, id)

	switch k := obj.Kind(); {
	case k == object.KindAsteroid:
		r.asteroids = removeID(r.asteroids, id)
	case k.IsProjectile():
		r.projectiles = removeID(r.projectiles, id)
	case k == object.KindBeam:
		r.beams = removeID(r.beams, id)
	}
	return true
}

// Clear removes every entity.
func (r *Registry) Clear() {
	clear(r.objects)
	r.order = r.order[:0]
	r.asteroids = r.asteroids[:0]
	r.projectiles = r.projectiles[:0]
	r.beams = r.beams[:0]
}

// Asteroids returns the asteroid IDs in insertion order. The slice is owned
// by the registry and changes on Add and Remove.
func (r *Registry) Asteroids() []ID { return r.asteroids }

// Projectiles returns the projectile IDs in insertion order.
func (r *Registry) Projectiles() []ID { return r.projectiles }

// Beams returns the beam IDs in insertion order.
func (r *Registry) Beams() []ID { return r.beams }

// Each calls fn for every entity in insertion order. fn must not add or
// remove entities.
func (r *Registry) Each(fn func(ID, object.Object)) {
	for _, id := range r.order {
		fn(id, r.objects[id])
	}
}

// Asteroid returns the asteroid with the given ID.
func (r *Registry) Asteroid(id ID) (*object.Asteroid, bool) {
	a, ok := r.objects[id].(*object.Asteroid)
	return a, ok
}

// Projectile returns the projectile with the given ID.
func (r *Registry) Projectile(id ID) (*object.Projectile, bool) {
	p, ok := r.objects[id].(*object.Projectile)
	return p, ok
}

// Beam returns the beam with the given ID.
func (r *Registry) Beam(id ID) (*object.Beam, bool) {
	b, ok := r.objects[id].(*object.Beam)
	return b, ok
}

// CountKind returns how many live entities are of kind k.
func (r *Registry) CountKind(k object.Kind) int {
	n := 0
	for _, obj := range r.objects {
		if obj.Kind() == k {
			n++
		}
	}
	return n
}

func removeID(ids []ID, id ID) []ID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
