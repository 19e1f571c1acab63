// Package renderer draws a drag-select grid to a terminal backend.
//
// The renderer is a facade over three sources: the grid (geometry and
// scroll position), the selection set, and the drag-select engine (session
// anchor, pointer and auto-scroll state). Each frame it paints, bottom up:
//
//	┌─────────────────────────────────────────┐
//	│  screen background, hotspot band tint  │
//	├─────────────────────────────────────────┤
//	│  header band                            │
//	├─────────────────────────────────────────┤
//	│  visible item cells (style.Resolver)    │
//	├─────────────────────────────────────────┤
//	│  status line                            │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b, g, set, engine, renderer.DefaultOptions())
//	r.RenderNow()
package renderer
