package dragselect

import (
	"fmt"
	"time"
)

// HotspotDisabled as Config.HotspotHeight turns auto-scroll off.
const HotspotDisabled = -1

// DefaultTickInterval is the auto-scroll period.
const DefaultTickInterval = 25 * time.Millisecond

// Config configures engine behavior.
type Config struct {
	// HotspotHeight is the height of each auto-scroll band in container
	// units (pixels, or rows for a terminal grid). Bands are capped at half
	// the container height. HotspotDisabled turns auto-scroll off.
	HotspotHeight int

	// HotspotOffsetTop insets the top band from the container's top edge.
	HotspotOffsetTop int

	// HotspotOffsetBottom insets the bottom band from the container's bottom edge.
	HotspotOffsetBottom int

	// Mode is the selection mode for new sessions.
	Mode Mode

	// TickInterval is the auto-scroll period.
	TickInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		HotspotHeight:       56,
		HotspotOffsetTop:    0,
		HotspotOffsetBottom: 0,
		Mode:                ModeRange,
		TickInterval:        DefaultTickInterval,
	}
}

// AutoScrollEnabled reports whether the hotspot bands are active.
func (c Config) AutoScrollEnabled() bool {
	return c.HotspotHeight > HotspotDisabled
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.HotspotHeight < HotspotDisabled {
		return fmt.Errorf("%w: %d", ErrInvalidHotspot, c.HotspotHeight)
	}
	if c.HotspotOffsetTop < 0 {
		return fmt.Errorf("%w: top %d", ErrInvalidOffset, c.HotspotOffsetTop)
	}
	if c.HotspotOffsetBottom < 0 {
		return fmt.Errorf("%w: bottom %d", ErrInvalidOffset, c.HotspotOffsetBottom)
	}
	if c.Mode != ModeRange && c.Mode != ModePath {
		return fmt.Errorf("%w: %d", ErrUnknownMode, c.Mode)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, c.TickInterval)
	}
	return nil
}
