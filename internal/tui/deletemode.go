package tui

// deleteKind identifies which delete mode a toggle targets.
type deleteKind int

const (
	deleteKindTask deleteKind = iota
	deleteKindCategory
)

// deleteModeController tracks the board's delete modes. At most one mode is
// active at a time: enabling one forces the other off, and registered
// callbacks fire for every flag that changes.
type deleteModeController struct {
	active   map[deleteKind]bool
	onChange map[deleteKind]func(bool)
}

func newDeleteModeController() *deleteModeController {
	return &deleteModeController{
		active:   make(map[deleteKind]bool),
		onChange: make(map[deleteKind]func(bool)),
	}
}

// Register installs the callback invoked whenever the given mode's flag
// changes. One callback per kind; a later call replaces the earlier one.
func (c *deleteModeController) Register(kind deleteKind, fn func(bool)) {
	c.onChange[kind] = fn
}

// SetMode enables or disables the given mode. Enabling deactivates every
// other mode first so the flags stay mutually exclusive.
func (c *deleteModeController) SetMode(kind deleteKind, enabled bool) {
	if enabled {
		for other := range c.active {
			if other != kind && c.active[other] {
				c.set(other, false)
			}
		}
	}
	c.set(kind, enabled)
}

// Toggle flips the given mode, deactivating the others when turning it on.
func (c *deleteModeController) Toggle(kind deleteKind) {
	c.SetMode(kind, !c.active[kind])
}

// Active reports whether the given mode is on.
func (c *deleteModeController) Active(kind deleteKind) bool {
	return c.active[kind]
}

// AnyActive reports whether any delete mode is on.
func (c *deleteModeController) AnyActive() bool {
	for _, on := range c.active {
		if on {
			return true
		}
	}
	return false
}

// Reset turns every mode off, firing callbacks for those that were on.
func (c *deleteModeController) Reset() {
	for kind := range c.active {
		if c.active[kind] {
			c.set(kind, false)
		}
	}
}

func (c *deleteModeController) set(kind deleteKind, enabled bool) {
	if c.active[kind] == enabled {
		return
	}
	c.active[kind] = enabled
	if fn, ok := c.onChange[kind]; ok {
		fn(enabled)
	}
}
