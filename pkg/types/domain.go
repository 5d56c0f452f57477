package types

// Position is the top-left corner of a display in the virtual desktop,
// in display units.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Mode is the active resolution and refresh rate of a display.
type Mode struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	RefreshHz float64 `json:"refresh_hz,omitempty"`
}

// Display is one monitor's placement within a layout.
type Display struct {
	// Stable identifier reported by the display subsystem.
	// example: DP-1
	ID       string   `json:"id" example:"DP-1"`
	Position Position `json:"position"`
	Mode     Mode     `json:"mode"`
	// Primary marks the display that owns the taskbar/menu bar.
	// example: true
	Primary bool `json:"primary,omitempty" example:"true"`
}

// Layout is a named monitor arrangement that can be applied on demand.
type Layout struct {
	// Stable identifier for the layout.
	// example: desk
	ID string `json:"id" example:"desk"`
	// Human-friendly name.
	// example: Desk (dual)
	Name string `json:"name" example:"Desk (dual)"`
	// Optional emoji shown on the dashboard tile.
	Emoji string `json:"emoji,omitempty"`
	// Hidden layouts stay in the registry but are not listed on the
	// dashboard.
	Hidden bool `json:"hidden,omitempty"`
	// Displays describes the arrangement this layout applies.
	Displays []Display `json:"layout"`
}
