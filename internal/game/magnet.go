package game

import "time"

// Magnet tuning. SnapInRadius < SnapOutRadius plus the sticky window is the
// hysteresis that stops the selection flickering between adjacent candidates
// near a boundary.
const (
	SnapInRadius  = 60.0
	SnapOutRadius = 110.0

	// stickyReleaseWindow retains a snap after the selector leaves
	// SnapOutRadius; only a full window outside releases it.
	stickyReleaseWindow = 250 * time.Millisecond

	// snapSpring is the per-tick pull of the selector toward its snapped
	// candidate: a critically-damped single-step interpolation, not a physics
	// integrator.
	snapSpring = 0.35
)

// TargetCandidate is one selectable target offered by the current tier.
// Candidates are rebuilt fresh on every tier entry and refreshed from live
// snapshots while the tier is open; nothing survives the session.
type TargetCandidate struct {
	ID     int    // entity track id, or a synthetic index for aim dots
	Pos    Vec2   // screen position
	Role   string // "player" or "aim"
	Target Target // the command target this candidate resolves to
}

// SnapState is the magnet's externally visible state.
type SnapState struct {
	TargetID        int
	Snapped         bool
	InStickyRelease bool
	stickyStart     time.Time
}

// MagnetSnapper keeps a virtual selector position attracted to the nearest
// eligible candidate. The drag drives the selector; Advance applies snapping
// once per scheduling tick.
type MagnetSnapper struct {
	selector Vec2
	state    SnapState
}

// NewMagnetSnapper creates a snapper with its selector at start.
func NewMagnetSnapper(start Vec2) *MagnetSnapper {
	return &MagnetSnapper{selector: start}
}

// Reset moves the selector and drops any snap.
func (m *MagnetSnapper) Reset(pos Vec2) {
	m.selector = pos
	m.state = SnapState{}
}

// SetSelector drives the selector from the drag position.
func (m *MagnetSnapper) SetSelector(pos Vec2) { m.selector = pos }

// Selector returns the current virtual selector position.
func (m *MagnetSnapper) Selector() Vec2 { return m.selector }

// State returns the current snap state.
func (m *MagnetSnapper) State() SnapState { return m.state }

// Advance runs one tick of the magnet against the current candidate list.
//
// Unsnapped: the nearest candidate within SnapInRadius captures the selector.
// Snapped and inside SnapOutRadius: the selector is pulled toward the
// candidate and the snap holds. Snapped but outside SnapOutRadius: a sticky
// window keeps the snap; the snap clears only after a full window elapses
// without re-entry.
func (m *MagnetSnapper) Advance(candidates []TargetCandidate, now time.Time) {
	if !m.state.Snapped {
		if c, ok := nearestCandidate(m.selector, candidates); ok && Dist(m.selector, c.Pos) <= SnapInRadius {
			m.state = SnapState{TargetID: c.ID, Snapped: true}
		}
		return
	}

	c, ok := findCandidate(m.state.TargetID, candidates)
	if !ok {
		// Snapped candidate disappeared from the live list.
		m.state = SnapState{}
		return
	}

	if Dist(m.selector, c.Pos) <= SnapOutRadius {
		m.selector = LerpVec(m.selector, c.Pos, snapSpring)
		m.state.InStickyRelease = false
		return
	}
	if !m.state.InStickyRelease {
		m.state.InStickyRelease = true
		m.state.stickyStart = now
		return
	}
	if now.Sub(m.state.stickyStart) >= stickyReleaseWindow {
		m.state = SnapState{}
	}
}

// NearestDot is the non-magnet selection used by fixed-dot tiers: the single
// nearest candidate every tick, no hysteresis, no spring. Visual highlight
// only.
func NearestDot(pos Vec2, candidates []TargetCandidate) (TargetCandidate, bool) {
	return nearestCandidate(pos, candidates)
}

func nearestCandidate(pos Vec2, candidates []TargetCandidate) (TargetCandidate, bool) {
	best := TargetCandidate{}
	bestDist := 0.0
	found := false
	for _, c := range candidates {
		d := Dist(pos, c.Pos)
		if !found || d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

func findCandidate(id int, candidates []TargetCandidate) (TargetCandidate, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return TargetCandidate{}, false
}
