// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"vector-pen/pkg/colorutil"
)

const prefsFile = "preferences.json"

// Preference keys for the paint settings.
const (
	KeyStrokeColor = "strokeColor"
	KeyStrokeWidth = "strokeWidth"
	KeyFillColor   = "fillColor"
)

// Defaults for the paint settings.
var (
	DefaultStrokeColor = colorutil.Black
	DefaultStrokeWidth = 1.0
	DefaultFillColor   = colorutil.Transparent
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/vector-pen/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "vector-pen", prefsFile))
}

// LoadFrom reads preferences from the given file.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Path returns the file the preferences are saved to.
func (p *Prefs) Path() string {
	return p.path
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	return os.WriteFile(p.path, data, 0o644)
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// colorWithFallback returns a color stored as a hex string.
func (p *Prefs) colorWithFallback(key string, fallback color.NRGBA) color.NRGBA {
	s := p.String(key)
	if s == "" {
		return fallback
	}
	c, err := colorutil.ParseHex(s)
	if err != nil {
		return fallback
	}
	return c
}

// StrokeColor returns the current stroke color.
func (p *Prefs) StrokeColor() color.NRGBA {
	return p.colorWithFallback(KeyStrokeColor, DefaultStrokeColor)
}

// SetStrokeColor stores the stroke color.
func (p *Prefs) SetStrokeColor(c color.NRGBA) {
	p.SetString(KeyStrokeColor, colorutil.Hex(c))
}

// StrokeWidth returns the current stroke width. Non-positive values fall back
// to the default.
func (p *Prefs) StrokeWidth() float64 {
	w := p.FloatWithFallback(KeyStrokeWidth, DefaultStrokeWidth)
	if w <= 0 {
		return DefaultStrokeWidth
	}
	return w
}

// SetStrokeWidth stores the stroke width.
func (p *Prefs) SetStrokeWidth(w float64) {
	p.SetFloat(KeyStrokeWidth, w)
}

// FillColor returns the current fill color.
func (p *Prefs) FillColor() color.NRGBA {
	return p.colorWithFallback(KeyFillColor, DefaultFillColor)
}

// SetFillColor stores the fill color.
func (p *Prefs) SetFillColor(c color.NRGBA) {
	p.SetString(KeyFillColor, colorutil.Hex(c))
}
