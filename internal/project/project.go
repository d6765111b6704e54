// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"vector-pen/pkg/colorutil"
	"vector-pen/pkg/geometry"
)

// CurrentVersion is the project file format version written by Save.
const CurrentVersion = 1

// File represents a vector-pen project file (.vpen).
type File struct {
	Version  int          `json:"version"`
	Name     string       `json:"name"`
	Created  time.Time    `json:"created"`
	Modified time.Time    `json:"modified"`
	Paths    []PathRecord `json:"paths"`
}

// PathRecord is the persisted form of a committed path.
type PathRecord struct {
	ID          string                  `json:"id"`
	Points      []geometry.ControlPoint `json:"points"`
	Closed      bool                    `json:"closed,omitempty"`
	StrokeColor string                  `json:"stroke_color"`
	StrokeWidth float64                 `json:"stroke_width"`
	FillColor   string                  `json:"fill_color"`
	Cap         geometry.Cap            `json:"cap,omitempty"`
}

// New creates an empty project file.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  CurrentVersion,
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Load loads a project from a .vpen file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if proj.Version > CurrentVersion {
		return nil, fmt.Errorf("%s: unsupported project version %d", path, proj.Version)
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()
	if p.Version == 0 {
		p.Version = CurrentVersion
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetPaths replaces the stored paths.
func (p *File) SetPaths(paths []*geometry.Path) {
	p.Paths = make([]PathRecord, 0, len(paths))
	for _, path := range paths {
		p.Paths = append(p.Paths, Record(path))
	}
	p.Modified = time.Now()
}

// GetPaths rebuilds the stored paths.
func (p *File) GetPaths() ([]*geometry.Path, error) {
	out := make([]*geometry.Path, 0, len(p.Paths))
	for i, r := range p.Paths {
		path, err := r.Path()
		if err != nil {
			return nil, fmt.Errorf("path %d (%s): %w", i, r.ID, err)
		}
		out = append(out, path)
	}
	return out, nil
}

// Record converts a path to its persisted form.
func Record(path *geometry.Path) PathRecord {
	return PathRecord{
		ID:          path.ID,
		Points:      path.Segments(),
		Closed:      path.Closed(),
		StrokeColor: colorutil.Hex(path.Style.Stroke),
		StrokeWidth: path.Style.Width,
		FillColor:   colorutil.Hex(path.Style.Fill),
		Cap:         path.Style.Cap,
	}
}

// Path rebuilds the geometry path.
func (r PathRecord) Path() (*geometry.Path, error) {
	stroke, err := colorutil.ParseHex(r.StrokeColor)
	if err != nil {
		return nil, fmt.Errorf("stroke: %w", err)
	}
	fill := colorutil.Transparent
	if r.FillColor != "" {
		if fill, err = colorutil.ParseHex(r.FillColor); err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
	}
	capStyle := r.Cap
	if capStyle == "" {
		capStyle = geometry.CapRound
	}

	path := geometry.NewPath(geometry.Style{
		Stroke: stroke,
		Width:  r.StrokeWidth,
		Fill:   fill,
		Cap:    capStyle,
	})
	path.ID = r.ID
	for _, cp := range r.Points {
		path.AddControlPoint(cp)
	}
	if r.Closed {
		path.Close()
	}
	return path, nil
}
