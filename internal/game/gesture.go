package game

// pressState is the detector's top-level state.
type pressState int

const (
	pressIdle pressState = iota
	pressActive
)

// GestureDetector turns raw pointer/touch positions into press, drag, sector
// and release events on the bus. It knows nothing about tiers or commands:
// sector meaning comes entirely from whatever the registry currently holds.
//
// State machine: Idle ⇄ Pressing, with an active-sector sub-state while
// pressing. Release always returns to Idle regardless of outcome.
type GestureDetector struct {
	bus      *Bus
	registry *SectorRegistry
	pulser   Pulser

	state        pressState
	center       Vec2
	activeSector string // "" when no sector is active
}

// NewGestureDetector wires a detector to its collaborators.
func NewGestureDetector(bus *Bus, registry *SectorRegistry, pulser Pulser) *GestureDetector {
	return &GestureDetector{bus: bus, registry: registry, pulser: pulser}
}

// Pressing reports whether a press is in progress.
func (d *GestureDetector) Pressing() bool { return d.state == pressActive }

// Center returns the current press origin.
func (d *GestureDetector) Center() Vec2 { return d.center }

// ActiveSector returns the currently resolved sector id, "" if none.
func (d *GestureDetector) ActiveSector() string { return d.activeSector }

// StartPress begins a press with its polar origin at pos. A press that is
// already in progress is left untouched: the caller must release first.
func (d *GestureDetector) StartPress(pos Vec2) {
	if d.state == pressActive {
		return
	}
	d.state = pressActive
	d.center = pos
	d.activeSector = ""
	d.bus.Publish(EventPressStarted, &PressPayload{Pos: pos})
}

// UpdatePosition processes a pointer move. No-op unless pressing. The drag
// event fires unconditionally; sector resolution only happens inside the
// activation band, and a drag outside the band exits any active sector.
func (d *GestureDetector) UpdatePosition(pos Vec2) {
	if d.state != pressActive {
		return
	}
	angle, dist := Polar(d.center, pos)

	next := ""
	if dist >= ActivationMin && dist <= ActivationMax {
		if s, ok := d.registry.Resolve(angle); ok {
			next = s.ID
		}
	}

	d.bus.Publish(EventDragUpdated, &DragPayload{Pos: pos, Angle: angle, Dist: dist, Sector: next})

	if next != d.activeSector {
		if d.activeSector != "" {
			d.bus.Publish(EventSectorExited, &SectorPayload{ID: d.activeSector})
		}
		d.activeSector = next
		if next != "" {
			d.bus.Publish(EventSectorEntered, &SectorPayload{ID: next})
			d.pulser.Pulse(PulseSector)
		}
	}
}

// EndPress finishes the press. If a sector is active the release is
// confirmed; either way the press state and active sector are cleared and
// the detector returns to Idle.
func (d *GestureDetector) EndPress(pos Vec2) {
	if d.state != pressActive {
		return
	}
	if d.activeSector != "" {
		d.bus.Publish(EventReleaseConfirmed, &SectorPayload{ID: d.activeSector})
	}
	d.state = pressIdle
	d.activeSector = ""
	d.bus.Publish(EventPressEnded, &PressPayload{Pos: pos})
}

// Reset drops any in-progress press without emitting events. Used when the
// session is abandoned out from under the user (possession loss, full-auto).
func (d *GestureDetector) Reset() {
	d.state = pressIdle
	d.activeSector = ""
}
