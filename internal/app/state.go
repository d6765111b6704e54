// Package app provides application lifecycle management, document state, and events.
package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"vector-pen/internal/project"
	"vector-pen/pkg/geometry"

	"github.com/google/uuid"
)

// State holds the application state: the open project and its committed paths.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Modified    bool
	LastAction  string

	created time.Time // creation time of the open project, zero until saved or loaded
	paths   []*geometry.Path

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventProjectCleared
	EventPathAdded
	EventCanvasModified
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// IsModified reports whether there are unsaved changes.
func (s *State) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Modified
}

// AddPathToProject takes ownership of a finished path. Paths without an ID
// are given a new UUID.
func (s *State) AddPathToProject(p *geometry.Path) {
	s.mu.Lock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.paths = append(s.paths, p)
	s.mu.Unlock()
	s.Emit(EventPathAdded, p)
}

// OnCanvasModified records that a tool changed the drawing.
func (s *State) OnCanvasModified(action string) {
	s.mu.Lock()
	s.LastAction = action
	s.mu.Unlock()
	s.Emit(EventCanvasModified, action)
	s.SetModified(true)
}

// Paths returns the committed paths, oldest first.
func (s *State) Paths() []*geometry.Path {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*geometry.Path, len(s.paths))
	copy(out, s.paths)
	return out
}

// NewProject clears the drawing.
func (s *State) NewProject() {
	s.mu.Lock()
	s.ProjectPath = ""
	s.created = time.Time{}
	s.paths = nil
	s.LastAction = ""
	s.mu.Unlock()
	s.Emit(EventProjectCleared, nil)
	s.SetModified(false)
}

// LoadProject loads a project from the specified path.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("load project %s: %w", path, err)
	}
	paths, err := proj.GetPaths()
	if err != nil {
		return fmt.Errorf("load project %s: %w", path, err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.created = proj.Created
	s.paths = paths
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject saves the current project to the specified path.
func (s *State) SaveProject(path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	proj := project.New(name)
	s.mu.RLock()
	if !s.created.IsZero() {
		proj.Created = s.created
	}
	s.mu.RUnlock()
	proj.SetPaths(s.Paths())
	if err := proj.Save(path); err != nil {
		return fmt.Errorf("save project %s: %w", path, err)
	}

	s.mu.Lock()
	s.created = proj.Created
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}
