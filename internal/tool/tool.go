// Package tool defines the canvas tool capability interface and the table
// that routes input events to the active tool.
package tool

import (
	"errors"
	"fmt"
	"sort"

	"vector-pen/pkg/geometry"
)

// Key names delivered to KeyDown.
type Key string

const (
	KeyEnter  Key = "enter"
	KeyEscape Key = "escape"
)

// Cursor is a hint for the pointer shape the host should show.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorCrosshair Cursor = "crosshair"
	CursorPointer   Cursor = "pointer"
)

// Tool is implemented by every canvas interaction tool. Points are in
// path-local coordinates; zoom is the current canvas scale.
type Tool interface {
	Name() string
	Activate()
	Deactivate()
	PointerDown(p geometry.Point2D, zoom float64)
	PointerDrag(p geometry.Point2D, zoom float64)
	PointerUp()
	PointerMove(p geometry.Point2D, zoom float64)
	DoubleClick()
	KeyDown(key Key)
	Cursor() Cursor
}

var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrDuplicateTool = errors.New("tool already registered")
)

// Table is the dispatch table from tool names to tools. Events are forwarded
// to the active tool only. A Table is driven from a single event loop and is
// not safe for concurrent use.
type Table struct {
	tools  map[string]Tool
	active Tool
}

// NewTable creates an empty table with no active tool.
func NewTable() *Table {
	return &Table{tools: make(map[string]Tool)}
}

// Register adds a tool under its name.
func (t *Table) Register(tl Tool) error {
	name := tl.Name()
	if name == "" {
		return fmt.Errorf("register: %w: empty name", ErrUnknownTool)
	}
	if _, ok := t.tools[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateTool)
	}
	t.tools[name] = tl
	return nil
}

// Select deactivates the current tool and activates the named one.
// An empty name leaves no tool active.
func (t *Table) Select(name string) error {
	var next Tool
	if name != "" {
		var ok bool
		if next, ok = t.tools[name]; !ok {
			return fmt.Errorf("select %q: %w", name, ErrUnknownTool)
		}
	}
	if t.active != nil {
		t.active.Deactivate()
	}
	t.active = next
	if next != nil {
		next.Activate()
	}
	return nil
}

// Active returns the active tool, or nil.
func (t *Table) Active() Tool {
	return t.active
}

// Names returns the registered tool names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.tools))
	for n := range t.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Cursor returns the active tool's cursor hint.
func (t *Table) Cursor() Cursor {
	if t.active == nil {
		return CursorDefault
	}
	return t.active.Cursor()
}

func (t *Table) PointerDown(p geometry.Point2D, zoom float64) {
	if t.active != nil {
		t.active.PointerDown(p, zoom)
	}
}

func (t *Table) PointerDrag(p geometry.Point2D, zoom float64) {
	if t.active != nil {
		t.active.PointerDrag(p, zoom)
	}
}

func (t *Table) PointerUp() {
	if t.active != nil {
		t.active.PointerUp()
	}
}

func (t *Table) PointerMove(p geometry.Point2D, zoom float64) {
	if t.active != nil {
		t.active.PointerMove(p, zoom)
	}
}

func (t *Table) DoubleClick() {
	if t.active != nil {
		t.active.DoubleClick()
	}
}

func (t *Table) KeyDown(key Key) {
	if t.active != nil {
		t.active.KeyDown(key)
	}
}
