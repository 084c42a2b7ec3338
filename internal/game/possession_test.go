package game

import (
	"testing"

	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

func ownerSnap(tick uint64, owner int) *protocol.Snapshot {
	return &protocol.Snapshot{Tick: tick, BallOwnerTrackID: &owner}
}

func TestPossession_GainAndLossEdges(t *testing.T) {
	bus := NewBus()
	rec := recordAll(bus)
	tr := NewPossessionTracker(bus, 9)

	tr.Observe(ownerSnap(1, 4)) // someone else has it
	tr.Observe(ownerSnap(2, 9)) // controlled player gains
	tr.Observe(ownerSnap(3, 9)) // still holding: no repeat edge
	tr.Observe(ownerSnap(4, 5)) // loses it

	if rec.count(EventPossessionGained) != 1 {
		t.Fatalf("want 1 gain edge, got %d", rec.count(EventPossessionGained))
	}
	if rec.count(EventPossessionLost) != 1 {
		t.Fatalf("want 1 loss edge, got %d", rec.count(EventPossessionLost))
	}
}

func TestPossession_UnresolvableOwnerIsNoOwner(t *testing.T) {
	bus := NewBus()
	rec := recordAll(bus)
	tr := NewPossessionTracker(bus, 9)

	tr.Observe(&protocol.Snapshot{Tick: 1}) // no ownership fields at all
	if rec.count(EventPossessionGained)+rec.count(EventPossessionLost) != 0 {
		t.Fatal("malformed snapshot must not produce edges")
	}

	tr.Observe(ownerSnap(2, 9))
	tr.Observe(&protocol.Snapshot{Tick: 3}) // ownership vanishes: counts as loss
	if rec.count(EventPossessionLost) != 1 {
		t.Fatal("losing track of the owner must count as possession loss")
	}
}

func TestPossession_HasBallFlagPath(t *testing.T) {
	bus := NewBus()
	rec := recordAll(bus)
	tr := NewPossessionTracker(bus, 9)

	tr.Observe(&protocol.Snapshot{
		Tick:    1,
		Players: map[string]protocol.PlayerSnap{"9": {X: 10, Y: 5, HasBall: true}},
	})
	if rec.count(EventPossessionGained) != 1 {
		t.Fatal("has_ball flag alone must be enough to detect possession gain")
	}
}
