package game

import (
	"math"
	"testing"
	"time"

	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

func TestDecision_PossessionOpensIntentTierAtPlayerAnchor(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 10, 5))

	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("starts hidden, got %v", sim.Machine.Tier())
	}
	sim.GainPossession()
	if sim.Machine.Tier() != TierIntent {
		t.Fatalf("possession gain opens the intent tier, got %v", sim.Machine.Tier())
	}
	// 10m,5m at 6 px/m around (640,360).
	c := sim.Machine.SessionCenter()
	if c.X != 700 || c.Y != 390 {
		t.Fatalf("session centre anchored to the controlled player, got (%v,%v)", c.X, c.Y)
	}
}

func TestDecision_PassFlowSnapsToTeammate(t *testing.T) {
	sim := NewGestureSim(
		WithControlled(9, protocol.SideHome, 0, 0),
		WithTeammate(10, 5, 0),
		WithTeammate(11, -20, 0),
	)
	sim.GainPossession()

	// First flick right: the passing wedge.
	sim.Flick(0, 90)
	if sim.Machine.Tier() != TierTarget || sim.Machine.Intent() != IntentPass {
		t.Fatalf("tier=%v intent=%v after the intent flick", sim.Machine.Tier(), sim.Machine.Intent())
	}
	if len(sim.Machine.Candidates()) != 2 {
		t.Fatalf("want 2 pass candidates, got %d", len(sim.Machine.Candidates()))
	}

	// Second press: drag onto the near teammate (5m right = 30px).
	sim.PressCenter()
	sim.Drag(670, 360)
	sim.Step(16 * time.Millisecond)
	if st := sim.Machine.Snapper().State(); !st.Snapped || st.TargetID != 10 {
		t.Fatalf("magnet must capture teammate 10, state=%+v", st)
	}
	sim.Release()

	cmds := sim.Commands()
	if len(cmds) != 1 {
		t.Fatalf("one complete session dispatches exactly one command, got %d", len(cmds))
	}
	p := cmds[0].Payload
	if p.Action != "pass" || p.TargetTrackID == nil || *p.TargetTrackID != 10 {
		t.Fatalf("pass payload wrong: %+v", p)
	}
	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("dispatch closes the session, tier=%v", sim.Machine.Tier())
	}
}

func TestDecision_UnsnappedReleaseFallsBackToAutoTarget(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))
	sim.GainPossession()
	sim.Flick(0, 90)

	// No teammates in the snapshot: nothing to snap to.
	if len(sim.Machine.Candidates()) != 0 {
		t.Fatalf("no candidates expected, got %d", len(sim.Machine.Candidates()))
	}
	sim.PressCenter()
	sim.DragPolar(0, 80)
	sim.Step(16 * time.Millisecond)
	sim.Release()

	cmds := sim.Commands()
	if len(cmds) != 1 {
		t.Fatalf("release still resolves, got %d commands", len(cmds))
	}
	if p := cmds[0].Payload; p.Action != "pass" || !p.AutoTarget || p.TargetTrackID != nil {
		t.Fatalf("want auto pass, got %+v", p)
	}
}

func TestDecision_HoldDispatchesImmediatelyThenHides(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))
	sim.GainPossession()

	sim.Flick(5*math.Pi/4, 90)
	if sim.Machine.Tier() != TierImmediate {
		t.Fatalf("hold skips the target tier, got %v", sim.Machine.Tier())
	}
	cmds := sim.Commands()
	if len(cmds) != 1 {
		t.Fatalf("want 1 hold command, got %d", len(cmds))
	}
	p := cmds[0].Payload
	if p.Action != "hold" || p.AutoTarget || p.TargetTrackID != nil || p.TargetPoint != nil {
		t.Fatalf("hold carries no target at all: %+v", p)
	}

	sim.Step(700 * time.Millisecond)
	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("immediate display auto-hides, got %v", sim.Machine.Tier())
	}
}

func TestDecision_ShootFlowPicksNearestAimDot(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))
	sim.GainPossession()

	sim.Flick(3*math.Pi/2, 90)
	if sim.Machine.Intent() != IntentShoot {
		t.Fatalf("upward flick selects shoot, got %v", sim.Machine.Intent())
	}
	if len(sim.Machine.Candidates()) != 5 {
		t.Fatalf("want 5 aim dots, got %d", len(sim.Machine.Candidates()))
	}

	// Goal mouth is at x=52.5m → screen x=955; aim below centre, -1.6m → y≈350.4.
	sim.PressCenter()
	sim.Drag(955, 351)
	sim.Release()

	cmds := sim.Commands()
	if len(cmds) != 1 {
		t.Fatalf("want 1 shot, got %d", len(cmds))
	}
	p := cmds[0].Payload
	if p.Action != "shoot" || p.Variant != "finesse" {
		t.Fatalf("shot payload wrong: %+v", p)
	}
	if p.TargetPoint == nil || p.TargetPoint.X != 52.5 || p.TargetPoint.Y != -1.6 {
		t.Fatalf("nearest aim dot is (52.5,-1.6), got %+v", p.TargetPoint)
	}
}

func TestDecision_BreakFlowEncodesCompassDirection(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))
	sim.GainPossession()

	sim.Flick(math.Pi, 90)
	if sim.Machine.Intent() != IntentBreak {
		t.Fatalf("leftward flick selects break, got %v", sim.Machine.Intent())
	}

	// Second flick straight up: dir6 on the compass.
	sim.PressCenter()
	sim.DragPolar(3*math.Pi/2, 80)
	sim.Release()

	cmds := sim.Commands()
	if len(cmds) != 1 {
		t.Fatalf("want 1 break command, got %d", len(cmds))
	}
	p := cmds[0].Payload
	if p.Action != "take_on" || p.Variant != "knock_on" {
		t.Fatalf("break payload wrong: %+v", p)
	}
	if p.DirectionDX == nil || p.DirectionDY == nil || p.DirectionMeters == nil {
		t.Fatalf("break must carry a direction: %+v", p)
	}
	if math.Abs(*p.DirectionDX) > 1e-9 || math.Abs(*p.DirectionDY+1) > 1e-9 {
		t.Fatalf("screen-up maps to field (0,-1), got (%v,%v)", *p.DirectionDX, *p.DirectionDY)
	}
	if *p.DirectionMeters != 12 {
		t.Fatalf("carry distance = %v, want 12", *p.DirectionMeters)
	}
}

func TestDecision_IntentTimeoutDefaultsToPassThenAutoDispatch(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0), WithTeammate(10, 5, 0))
	sim.GainPossession()

	sim.Step(2600 * time.Millisecond)
	if sim.Machine.Tier() != TierTarget || sim.Machine.Intent() != IntentPass {
		t.Fatalf("intent timeout advances to the pass target tier, got %v/%v",
			sim.Machine.Tier(), sim.Machine.Intent())
	}

	sim.Step(2600 * time.Millisecond)
	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("target timeout closes the session, got %v", sim.Machine.Tier())
	}
	cmds := sim.Commands()
	if len(cmds) != 1 || cmds[0].Payload.Action != "pass" || !cmds[0].Payload.AutoTarget {
		t.Fatalf("target timeout dispatches the auto pass, got %+v", cmds)
	}
}

func TestDecision_PossessionLossAbandonsWithoutDispatch(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0), WithTeammate(10, 5, 0))
	sim.GainPossession()
	sim.Flick(0, 90)

	// Mid-drag toward a target when the ball is stripped.
	sim.PressCenter()
	sim.Drag(670, 360)
	sim.Step(16 * time.Millisecond)
	sim.LosePossession()

	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("possession loss hides the session, got %v", sim.Machine.Tier())
	}
	// The orphaned physical release must be silent.
	sim.Release()
	if n := sim.DispatchCount(); n != 0 {
		t.Fatalf("abandoned session must dispatch nothing, got %d", n)
	}
}

func TestDecision_InputLockSuppressesRapidRegain(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0), WithTeammate(10, 5, 0))
	sim.GainPossession()
	sim.Flick(0, 90)
	sim.PressCenter()
	sim.DragPolar(0, 80)
	sim.Step(16 * time.Millisecond)
	sim.Release()
	if len(sim.Commands()) != 1 {
		t.Fatal("setup dispatch missing")
	}

	// Instant one-two: the ball comes straight back inside the lock window.
	sim.FeedSnapshot(10)
	sim.GainPossession()
	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("regain inside the lock window is suppressed, got %v", sim.Machine.Tier())
	}

	// After the window expires a fresh gain opens normally.
	sim.Step(350 * time.Millisecond)
	sim.LosePossession()
	sim.GainPossession()
	if sim.Machine.Tier() != TierIntent {
		t.Fatalf("gain after the lock window opens a session, got %v", sim.Machine.Tier())
	}
}

func TestDecision_FullAutoSuppressesSessions(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))

	sim.HoldModeButton(1200 * time.Millisecond)
	if sim.Modes.Mode() != ModeFullAuto {
		t.Fatalf("long hold enters full-auto, got %v", sim.Modes.Mode())
	}

	sim.GainPossession()
	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("full-auto ignores possession gains, got %v", sim.Machine.Tier())
	}
	if n := sim.DispatchCount(); n != 0 {
		t.Fatalf("full-auto issues no client commands, got %d", n)
	}

	// Toggle back: the next gain opens a session again.
	sim.HoldModeButton(1200 * time.Millisecond)
	if sim.Modes.Mode() != ModeManual {
		t.Fatalf("second hold returns to manual, got %v", sim.Modes.Mode())
	}
	sim.LosePossession()
	sim.GainPossession()
	if sim.Machine.Tier() != TierIntent {
		t.Fatalf("manual mode opens sessions again, got %v", sim.Machine.Tier())
	}
}

func TestDecision_EnteringFullAutoAbandonsOpenSession(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))
	sim.GainPossession()
	sim.Flick(0, 90)
	if sim.Machine.Tier() != TierTarget {
		t.Fatal("setup: target tier expected")
	}

	sim.HoldModeButton(1200 * time.Millisecond)
	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("full-auto entry abandons the open session, got %v", sim.Machine.Tier())
	}
	if n := sim.DispatchCount(); n != 0 {
		t.Fatalf("abandon must not dispatch, got %d", n)
	}
}

func TestDecision_ShortModePressFiresAutoTurn(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))
	sim.GainPossession()

	sim.Modes.ButtonDown(sim.Now())
	sim.Step(100 * time.Millisecond)
	sim.Modes.ButtonUp(sim.Now())

	cmds := sim.Commands()
	if len(cmds) != 1 {
		t.Fatalf("short press delegates the turn, got %d commands", len(cmds))
	}
	if p := cmds[0].Payload; p.Action != "pass" || !p.AutoTarget {
		t.Fatalf("idle auto turn defaults to the auto pass, got %+v", p)
	}
	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("auto turn closes the session, got %v", sim.Machine.Tier())
	}
	if sim.Modes.Mode() != ModeManual {
		t.Fatalf("auto-turn is one-shot, mode=%v", sim.Modes.Mode())
	}
}

func TestDecision_AutoTurnUsesLiveIntent(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))
	sim.GainPossession()
	sim.Flick(3*math.Pi/2, 90) // shoot target tier open

	sim.Modes.ButtonDown(sim.Now())
	sim.Step(100 * time.Millisecond)
	sim.Modes.ButtonUp(sim.Now())

	cmds := sim.Commands()
	if len(cmds) != 1 {
		t.Fatalf("want 1 command, got %d", len(cmds))
	}
	if p := cmds[0].Payload; p.Action != "shoot" || !p.AutoTarget {
		t.Fatalf("auto turn keeps the committed intent, got %+v", p)
	}
}

func TestDecision_CancelAndReopen(t *testing.T) {
	sim := NewGestureSim(WithControlled(9, protocol.SideHome, 0, 0))
	sim.GainPossession()

	sim.Machine.Cancel()
	if sim.Machine.Tier() != TierHidden {
		t.Fatalf("cancel hides, got %v", sim.Machine.Tier())
	}

	sim.Machine.Reopen()
	if sim.Machine.Tier() != TierIntent {
		t.Fatalf("reopen while still holding the ball, got %v", sim.Machine.Tier())
	}

	sim.LosePossession()
	sim.Machine.Reopen()
	if sim.Machine.Tier() != TierHidden {
		t.Fatal("reopen without the ball must do nothing")
	}
}

func TestDecision_PassCandidatesExcludeOpponentsAndThumbZone(t *testing.T) {
	sim := NewGestureSim(
		WithControlled(9, protocol.SideHome, 0, 0),
		WithTeammate(10, 10, 0),  // right of the anchor: kept
		WithTeammate(11, 0, 20),  // straight below: inside the thumb zone
		WithOpponent(20, -10, 0), // wrong side
	)
	sim.GainPossession()
	sim.Flick(0, 90)

	cands := sim.Machine.Candidates()
	if len(cands) != 1 || cands[0].ID != 10 {
		t.Fatalf("only the reachable teammate survives filtering, got %+v", cands)
	}
}

func TestDecision_SnapshotRefreshesPassCandidatesLive(t *testing.T) {
	sim := NewGestureSim(
		WithControlled(9, protocol.SideHome, 0, 0),
		WithTeammate(10, 5, 0),
	)
	sim.GainPossession()
	sim.Flick(0, 90)

	sim.MovePlayer(10, 25, 0)
	sim.GainPossession() // next frame, still our ball
	cands := sim.Machine.Candidates()
	if len(cands) != 1 {
		t.Fatalf("want 1 candidate, got %d", len(cands))
	}
	if cands[0].Pos.X != 640+25*6 {
		t.Fatalf("candidate must track the fresh snapshot, got x=%v", cands[0].Pos.X)
	}
}

func TestDecision_NoTranslatorFallsBackToViewportCenter(t *testing.T) {
	sim := NewGestureSim(
		WithControlled(9, protocol.SideHome, 30, 30),
		WithTeammate(10, 5, 0),
		WithoutTranslator(),
	)
	sim.GainPossession()

	c := sim.Machine.SessionCenter()
	if c.X != 640 || c.Y != 360 {
		t.Fatalf("without a translator the centre is the viewport centre, got (%v,%v)", c.X, c.Y)
	}

	// Candidates cannot be projected; the pass tier degrades to auto.
	sim.Flick(0, 90)
	if len(sim.Machine.Candidates()) != 0 {
		t.Fatalf("no projection means no candidates, got %d", len(sim.Machine.Candidates()))
	}
	sim.PressCenter()
	sim.DragPolar(0, 80)
	sim.Release()
	cmds := sim.Commands()
	if len(cmds) != 1 || !cmds[0].Payload.AutoTarget {
		t.Fatalf("degraded pass resolves to auto, got %+v", cmds)
	}
}

func TestDecision_ArbitratedModePublishesActionInsteadOfSending(t *testing.T) {
	var selected []*ActionSelectedPayload
	sim := NewGestureSim(
		WithControlled(9, protocol.SideHome, 0, 0),
		WithTeammate(10, 5, 0),
		WithArbitration(),
	)
	sim.Bus.Subscribe(EventActionSelected, func(p any) {
		selected = append(selected, p.(*ActionSelectedPayload))
	})

	sim.GainPossession()
	sim.Flick(0, 90)
	sim.PressCenter()
	sim.Drag(670, 360)
	sim.Step(16 * time.Millisecond)
	sim.Release()

	if n := sim.DispatchCount(); n != 0 {
		t.Fatalf("arbitrated sessions never reach the sink, got %d", n)
	}
	if len(selected) != 1 {
		t.Fatalf("want 1 arbitrated action, got %d", len(selected))
	}
	if a := selected[0]; a.Type != "pass_to" || !a.HasTarget || a.TargetID != 10 {
		t.Fatalf("arbitrated pass wrong: %+v", a)
	}
}

// A snapshot delivered before the machine has ever ticked, as happens when the
// client connects mid-match, must not open the session at the zero time.
func TestDecision_SnapshotBeforeFirstTickDoesNotExpireIntent(t *testing.T) {
	bus := NewBus()
	reg := NewSectorRegistry()
	logger := NewDecisionLog(false)
	det := NewGestureDetector(bus, reg, NopPulser{})
	emitter := NewCommandEmitter(bus, NewRecordingSink(), -1, 0)
	m := NewDecisionMachine(DecisionDeps{
		Bus:      bus,
		Emitter:  emitter,
		Detector: det,
		Registry: reg,
		Log:      logger,
		Pulser:   NopPulser{},
		Translator: ScaleTranslator{
			PixelsPerMeter: 6,
			ScreenCenter:   Vec2{X: 640, Y: 360},
		},
	}, 9, protocol.SideHome, 1280, 720)
	modes := NewModeController(bus, NopPulser{}, logger, m.DispatchAutoTurn, m.EnterFullAuto)
	m.SetModeSource(modes.Mode)

	owner := 9
	m.HandleSnapshot(&protocol.Snapshot{
		Tick:             1,
		BallOwnerTrackID: &owner,
		Players:          map[string]protocol.PlayerSnap{"9": {X: 0, Y: 0, Side: protocol.SideHome}},
	})
	if m.Tier() != TierIntent {
		t.Fatalf("owning snapshot opens the intent tier, got %v", m.Tier())
	}
	session := m.SessionCenter()
	if session.X != 640 || session.Y != 360 {
		t.Fatalf("session centre wrong before the first tick: (%v,%v)", session.X, session.Y)
	}

	m.Tick(time.Now())
	if m.Tier() != TierIntent {
		t.Fatalf("first tick after connecting must not expire the intent tier, got %v", m.Tier())
	}
}
