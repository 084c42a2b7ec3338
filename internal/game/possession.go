package game

import "github.com/yellowhama/footballgame-sub006/internal/protocol"

// PossessionTracker watches the snapshot stream for the controlled player
// gaining or losing the ball and publishes the edges. It never errors: an
// unresolvable owner simply counts as "no owner".
type PossessionTracker struct {
	bus          *Bus
	controlledID int
	hasBall      bool
}

// NewPossessionTracker creates a tracker for the controlled track id.
func NewPossessionTracker(bus *Bus, controlledID int) *PossessionTracker {
	return &PossessionTracker{bus: bus, controlledID: controlledID}
}

// HasBall reports whether the controlled player held the ball as of the last
// observed snapshot.
func (t *PossessionTracker) HasBall() bool { return t.hasBall }

// Observe processes one snapshot. Runs on the frame goroutine at feed
// cadence; it only reads the snapshot and flips the edge state.
func (t *PossessionTracker) Observe(snap *protocol.Snapshot) {
	owner, ok := snap.BallOwner()
	has := ok && owner == t.controlledID
	if has == t.hasBall {
		return
	}
	t.hasBall = has
	payload := &PossessionPayload{TrackID: t.controlledID, Tick: snap.Tick}
	if has {
		t.bus.Publish(EventPossessionGained, payload)
	} else {
		t.bus.Publish(EventPossessionLost, payload)
	}
}
