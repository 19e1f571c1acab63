// Package style resolves the colors a grid cell is drawn with.
//
// A cell's look is built from layers, lowest first: the base item style,
// then selection, then the anchor, then the pointer. Each layer merges onto
// the result of the layers below it according to its MergeMode.
package style

import (
	"errors"
	"fmt"

	"github.com/dshills/dragselect/internal/config"
	"github.com/dshills/dragselect/internal/renderer/core"
)

// Theme holds the palette.
type Theme struct {
	Background core.Color
	Foreground core.Color
	Item       core.Color
	Selected   core.Color
	Anchor     core.Color
	Header     core.Color
	Status     core.Color
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	t, err := ThemeFromConfig(config.Default().Theme)
	if err != nil {
		panic(err)
	}
	return t
}

// ThemeFromConfig parses the configured hex colors.
func ThemeFromConfig(c config.ThemeConfig) (Theme, error) {
	var t Theme
	var errs []error
	for _, f := range []struct {
		name string
		hex  string
		dst  *core.Color
	}{
		{"background", c.Background, &t.Background},
		{"foreground", c.Foreground, &t.Foreground},
		{"item", c.Item, &t.Item},
		{"selected", c.Selected, &t.Selected},
		{"anchor", c.Anchor, &t.Anchor},
		{"header", c.Header, &t.Header},
		{"status", c.Status, &t.Status},
	} {
		col, err := core.ColorFromHex(f.hex)
		if err != nil {
			errs = append(errs, fmt.Errorf("theme.%s: %w", f.name, err))
			continue
		}
		*f.dst = col
	}
	if err := errors.Join(errs...); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// Layer is a style layer. Higher layers are applied later.
type Layer uint8

const (
	// LayerBase is the unselected item.
	LayerBase Layer = iota
	// LayerDisabled dims items the selectable predicate rejects.
	LayerDisabled
	// LayerSelected colors selected items.
	LayerSelected
	// LayerAnchor marks the session's initial index.
	LayerAnchor
	// LayerPointer marks the index under the pointer during a drag.
	LayerPointer

	// LayerCount is the number of layers.
	LayerCount
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerDisabled:
		return "disabled"
	case LayerSelected:
		return "selected"
	case LayerAnchor:
		return "anchor"
	case LayerPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// MergeMode determines how a layer combines with the layers below.
type MergeMode uint8

const (
	// MergeReplace replaces the colors and attributes.
	MergeReplace MergeMode = iota
	// MergeBlend mixes the background halfway toward the layer's.
	MergeBlend
	// MergeAttributes only adds attributes.
	MergeAttributes
)

// State describes an item being drawn.
type State struct {
	Selected bool
	Anchor   bool
	Pointer  bool
	Disabled bool
}

// has reports whether the state activates layer.
func (s State) has(l Layer) bool {
	switch l {
	case LayerBase:
		return true
	case LayerDisabled:
		return s.Disabled
	case LayerSelected:
		return s.Selected
	case LayerAnchor:
		return s.Anchor
	case LayerPointer:
		return s.Pointer
	}
	return false
}

type layerStyle struct {
	style core.Style
	merge MergeMode
}

// Resolver maps item states to styles for a theme.
type Resolver struct {
	theme   Theme
	layers  [LayerCount]layerStyle
	enabled [LayerCount]bool
}

// NewResolver creates a resolver for theme.
func NewResolver(theme Theme) *Resolver {
	r := &Resolver{theme: theme}
	r.layers = [LayerCount]layerStyle{
		LayerBase:     {core.NewStyle(theme.Foreground, theme.Item), MergeReplace},
		LayerDisabled: {core.NewStyle(theme.Foreground.Blend(theme.Item, 0.6), theme.Item), MergeReplace},
		LayerSelected: {core.NewStyle(theme.Selected.Contrast(), theme.Selected), MergeReplace},
		LayerAnchor:   {core.NewStyle(theme.Anchor.Contrast(), theme.Anchor), MergeBlend},
		LayerPointer:  {core.DefaultStyle().Bold(), MergeAttributes},
	}
	for i := range r.enabled {
		r.enabled[i] = true
	}
	return r
}

// Theme returns the palette.
func (r *Resolver) Theme() Theme {
	return r.theme
}

// SetLayerEnabled enables or disables a layer. The base layer is always on.
func (r *Resolver) SetLayerEnabled(layer Layer, enabled bool) {
	if layer > LayerBase && layer < LayerCount {
		r.enabled[layer] = enabled
	}
}

// Resolve returns the style for an item in state s.
func (r *Resolver) Resolve(s State) core.Style {
	var result core.Style
	for l := LayerBase; l < LayerCount; l++ {
		if !r.enabled[l] || !s.has(l) {
			continue
		}
		result = merge(result, r.layers[l])
	}
	return result
}

func merge(base core.Style, ls layerStyle) core.Style {
	switch ls.merge {
	case MergeBlend:
		bg := base.Background.Blend(ls.style.Background, 0.5)
		return core.Style{
			Foreground: bg.Contrast(),
			Background: bg,
			Attributes: base.Attributes | ls.style.Attributes,
		}
	case MergeAttributes:
		base.Attributes |= ls.style.Attributes
		return base
	default:
		return ls.style
	}
}

// Screen is the background of the whole view.
func (r *Resolver) Screen() core.Style {
	return core.NewStyle(r.theme.Foreground, r.theme.Background)
}

// Header is the style of the header band.
func (r *Resolver) Header() core.Style {
	return core.NewStyle(r.theme.Header.Contrast(), r.theme.Header).Bold()
}

// Status is the style of the status line.
func (r *Resolver) Status() core.Style {
	return core.NewStyle(r.theme.Foreground, r.theme.Status)
}

// Hotspot is the style of an auto-scroll band while it is scrolling.
func (r *Resolver) Hotspot() core.Style {
	bg := r.theme.Background.Blend(r.theme.Anchor, 0.25)
	return core.NewStyle(bg.Contrast(), bg)
}
