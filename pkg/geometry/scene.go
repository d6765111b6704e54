package geometry

import "sync"

// Handle identifies a primitive placed in a Scene. The zero Handle is never
// issued.
type Handle uint64

// Scene is an ordered set of primitives addressed by handle. Paths are
// stored as copies, so a caller may keep editing its own path and publish
// the edits with Replace while another goroutine reads Items.
type Scene struct {
	mu    sync.RWMutex
	next  Handle
	order []Handle
	items map[Handle]Primitive
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{items: make(map[Handle]Primitive)}
}

func snapshot(p Primitive) Primitive {
	if path, ok := p.(*Path); ok && path != nil {
		return path.Clone()
	}
	return p
}

// Add places a primitive on top of the scene and returns its handle.
func (s *Scene) Add(p Primitive) Handle {
	p = snapshot(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[Handle]Primitive)
	}
	s.next++
	s.items[s.next] = p
	s.order = append(s.order, s.next)
	return s.next
}

// Replace swaps the primitive stored under h, keeping its stacking position.
// It returns false if the handle is unknown.
func (s *Scene) Replace(h Handle, p Primitive) bool {
	p = snapshot(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[h]; !ok {
		return false
	}
	s.items[h] = p
	return true
}

// Remove deletes the primitive with the given handle.
// It returns false if the handle is unknown.
func (s *Scene) Remove(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[h]; !ok {
		return false
	}
	delete(s.items, h)
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Items returns the primitives bottom to top.
func (s *Scene) Items() []Primitive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Primitive, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, s.items[h])
	}
	return out
}
