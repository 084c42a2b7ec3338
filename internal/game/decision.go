package game

import (
	"fmt"
	"time"

	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

// Tier is the decision UI's progression state.
type Tier int

const (
	TierHidden    Tier = iota // no session, waiting for possession
	TierIntent                // first flick: pick the action category
	TierTarget                // second flick: pick the target
	TierImmediate             // hold fired; brief display before auto-hide
)

func (t Tier) String() string {
	switch t {
	case TierHidden:
		return "hidden"
	case TierIntent:
		return "intent"
	case TierTarget:
		return "target"
	case TierImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// Tier timing. All timers are captured start timestamps compared against the
// tick clock; nothing is callback-driven.
const (
	// intentTimeout expiry defaults to the passing intent and advances.
	intentTimeout = 2500 * time.Millisecond
	// targetTimeout expiry dispatches with the auto target.
	targetTimeout = 2500 * time.Millisecond
	// inputLockWindow suppresses session entry after a dispatch so one
	// physical release cannot double-trigger.
	inputLockWindow = 300 * time.Millisecond
	// immediateDisplay keeps the hold confirmation visible before hiding.
	immediateDisplay = 600 * time.Millisecond
	// breakCarryMeters is the knock-on distance for a break command.
	breakCarryMeters = 12.0
)

// Translator projects between field space (meters) and screen space
// (pixels). The host screen supplies it; the gesture subsystem never computes
// projection itself.
type Translator interface {
	ToScreen(field Vec2) Vec2
	ToField(screen Vec2) Vec2
}

// GestureSession is the single in-flight decision. At most one exists; it is
// owned exclusively by the DecisionMachine and dies on release, timeout or
// possession loss.
type GestureSession struct {
	Center      Vec2
	StartedAt   time.Time
	TierEntered time.Time
}

// DecisionDeps are the machine's constructor-injected collaborators.
type DecisionDeps struct {
	Bus        *Bus
	Emitter    *CommandEmitter
	Detector   *GestureDetector
	Registry   *SectorRegistry
	Log        *DecisionLog
	Pulser     Pulser
	Translator Translator // nil is tolerated: session centre falls back to the viewport centre
}

// DecisionMachine owns the tier progression, all tier timers, the input
// lock, and command construction. Everything runs on the single frame
// goroutine: bus handlers and Tick are never concurrent.
type DecisionMachine struct {
	bus        *Bus
	emitter    *CommandEmitter
	detector   *GestureDetector
	registry   *SectorRegistry
	log        *DecisionLog
	pulser     Pulser
	translator Translator
	tracker    *PossessionTracker
	modeFn     func() ControlMode

	controlledID int
	side         protocol.TeamSide
	viewport     Vec2

	tier          Tier
	session       *GestureSession
	intent        Intent
	candidates    []TargetCandidate
	snapper       *MagnetSnapper
	releaseSector string // sector id captured from the confirming release
	ignoreNextEnd bool   // the press end that confirmed the intent tier

	lockedUntil    time.Time
	immediateUntil time.Time

	lastSnapshot *protocol.Snapshot
	now          time.Time
	tickCount    int
}

// NewDecisionMachine wires the machine and subscribes it to the bus.
func NewDecisionMachine(deps DecisionDeps, controlledID int, side protocol.TeamSide, viewportW, viewportH int) *DecisionMachine {
	m := &DecisionMachine{
		bus:          deps.Bus,
		emitter:      deps.Emitter,
		detector:     deps.Detector,
		registry:     deps.Registry,
		log:          deps.Log,
		pulser:       deps.Pulser,
		translator:   deps.Translator,
		controlledID: controlledID,
		side:         side,
		viewport:     Vec2{X: float64(viewportW), Y: float64(viewportH)},
		modeFn:       func() ControlMode { return ModeManual },
	}
	m.tracker = NewPossessionTracker(deps.Bus, controlledID)
	m.snapper = NewMagnetSnapper(m.viewportCenter())

	deps.Bus.Subscribe(EventPossessionGained, func(any) { m.onPossessionGained() })
	deps.Bus.Subscribe(EventPossessionLost, func(any) { m.abandon("possession_loss") })
	deps.Bus.Subscribe(EventReleaseConfirmed, func(p any) { m.onReleaseConfirmed(p.(*SectorPayload).ID) })
	deps.Bus.Subscribe(EventPressEnded, func(any) { m.onPressEnded() })
	deps.Bus.Subscribe(EventDragUpdated, func(p any) { m.onDragUpdated(p.(*DragPayload)) })
	return m
}

// SetModeSource injects the mode lookup. Wired after construction because
// the mode controller needs the machine's callbacks too.
func (m *DecisionMachine) SetModeSource(fn func() ControlMode) { m.modeFn = fn }

// --- View accessors (overlay + harness) ---

func (m *DecisionMachine) Tier() Tier                    { return m.tier }
func (m *DecisionMachine) Intent() Intent                { return m.intent }
func (m *DecisionMachine) Candidates() []TargetCandidate { return m.candidates }
func (m *DecisionMachine) Snapper() *MagnetSnapper       { return m.snapper }
func (m *DecisionMachine) ControlledID() int             { return m.controlledID }
func (m *DecisionMachine) Side() protocol.TeamSide       { return m.side }

// SessionCenter returns the active session centre, or the viewport centre.
func (m *DecisionMachine) SessionCenter() Vec2 {
	if m.session != nil {
		return m.session.Center
	}
	return m.viewportCenter()
}

// MagnetActive reports whether the current tier delegates selection to the
// magnet snapper.
func (m *DecisionMachine) MagnetActive() bool {
	return m.tier == TierTarget && m.intent == IntentPass
}

// --- Feed input ---

// HandleSnapshot ingests one frame of match state. Must not block: it reads
// the snapshot, updates possession edges, and refreshes the live candidate
// list for an open pass tier.
func (m *DecisionMachine) HandleSnapshot(snap *protocol.Snapshot) {
	if m.now.IsZero() {
		// A snapshot can arrive before the first frame tick, e.g. when the
		// client connects mid-match. A session opened here must not start at
		// the zero time or the first Tick would expire it instantly.
		m.now = time.Now()
	}
	m.lastSnapshot = snap
	m.tracker.Observe(snap)
	if m.MagnetActive() {
		m.candidates = m.passCandidates(snap)
	}
}

// --- Tick driver ---

// Tick advances all timers and the magnet. Call once per frame with the
// current wall clock.
func (m *DecisionMachine) Tick(now time.Time) {
	m.now = now
	m.tickCount++

	switch m.tier {
	case TierIntent:
		if now.Sub(m.session.TierEntered) >= intentTimeout {
			m.log.Add(m.tickCount, "sm", "tier", "intent_timeout", "defaulting to pass", 0)
			m.intent = IntentPass
			m.enterTarget(IntentPass)
			return
		}
		m.log.AddVerbose(m.tickCount, "sm", "timer", "intent_remaining", "",
			(intentTimeout - now.Sub(m.session.TierEntered)).Seconds())
	case TierTarget:
		if now.Sub(m.session.TierEntered) >= targetTimeout {
			m.log.Add(m.tickCount, "sm", "tier", "target_timeout", "dispatching auto target", 0)
			m.dispatch(NewCommand(m.intent, AutoTarget(), m.controlledID, m.side))
			return
		}
		if m.MagnetActive() {
			before := m.snapper.State()
			m.snapper.Advance(m.candidates, now)
			after := m.snapper.State()
			if before.Snapped != after.Snapped || before.TargetID != after.TargetID {
				m.log.Add(m.tickCount, "snap", "snap", "target_change",
					fmt.Sprintf("%v:%d → %v:%d", before.Snapped, before.TargetID, after.Snapped, after.TargetID), 0)
			}
			sel := m.snapper.Selector()
			m.log.AddVerbose(m.tickCount, "snap", "snap", "selector",
				fmt.Sprintf("(%.0f,%.0f) snapped=%v target=%d", sel.X, sel.Y, after.Snapped, after.TargetID), 0)
		}
		m.log.AddVerbose(m.tickCount, "sm", "timer", "target_remaining", "",
			(targetTimeout - now.Sub(m.session.TierEntered)).Seconds())
	case TierImmediate:
		if !now.Before(m.immediateUntil) {
			m.log.Add(m.tickCount, "sm", "tier", "immediate_hide", "", 0)
			m.hide()
		}
	}
}

// --- Session entry and exit ---

func (m *DecisionMachine) onPossessionGained() {
	if m.modeFn() == ModeFullAuto {
		m.log.Add(m.tickCount, "sm", "possession", "gain_suppressed", "full auto", 0)
		return
	}
	if m.tier != TierHidden {
		return
	}
	if m.now.Before(m.lockedUntil) {
		m.log.Add(m.tickCount, "sm", "possession", "gain_locked", "input lock active", 0)
		return
	}
	m.enterIntent()
}

// Reopen re-enters the intent tier after an explicit cancel, provided the
// controlled player still holds the ball.
func (m *DecisionMachine) Reopen() {
	if m.tier != TierHidden || !m.tracker.HasBall() {
		return
	}
	m.enterIntent()
}

// Cancel closes the session without dispatching.
func (m *DecisionMachine) Cancel() {
	m.abandon("cancel")
}

func (m *DecisionMachine) enterIntent() {
	center := m.anchorCenter()
	m.session = &GestureSession{Center: center, StartedAt: m.now, TierEntered: m.now}
	m.tier = TierIntent
	m.intent = IntentPass
	m.candidates = nil
	m.releaseSector = ""
	m.registry.Reset(IntentSectors()...)
	m.snapper.Reset(center)
	m.log.Add(m.tickCount, "sm", "tier", "enter_intent",
		fmt.Sprintf("center=(%.0f,%.0f)", center.X, center.Y), 0)
}

// anchorCenter projects the controlled player's field position onto the
// screen. Without a translator or a known position it falls back to the
// viewport centre rather than failing the gesture.
func (m *DecisionMachine) anchorCenter() Vec2 {
	if m.translator == nil || m.lastSnapshot == nil {
		return m.viewportCenter()
	}
	p, ok := m.lastSnapshot.Player(m.controlledID)
	if !ok {
		return m.viewportCenter()
	}
	return m.translator.ToScreen(Vec2{X: p.X, Y: p.Y})
}

func (m *DecisionMachine) viewportCenter() Vec2 {
	return Vec2{X: m.viewport.X / 2, Y: m.viewport.Y / 2}
}

// abandon drops any in-flight session with no dispatch. Last write wins:
// nothing partial is ever sent.
func (m *DecisionMachine) abandon(reason string) {
	if m.tier == TierHidden {
		return
	}
	m.log.Add(m.tickCount, "sm", "tier", "abandon", reason, 0)
	m.detector.Reset()
	m.hide()
}

func (m *DecisionMachine) hide() {
	m.tier = TierHidden
	m.session = nil
	m.candidates = nil
	m.releaseSector = ""
	m.ignoreNextEnd = false
	m.registry.Clear()
	m.snapper.Reset(m.viewportCenter())
}

// --- Gesture input ---

func (m *DecisionMachine) onDragUpdated(drag *DragPayload) {
	if m.tier == TierTarget {
		m.snapper.SetSelector(drag.Pos)
	}
}

func (m *DecisionMachine) onReleaseConfirmed(sectorID string) {
	switch m.tier {
	case TierIntent:
		m.confirmIntent(sectorID)
	case TierTarget:
		m.releaseSector = sectorID
	}
}

func (m *DecisionMachine) onPressEnded() {
	if m.ignoreNextEnd {
		m.ignoreNextEnd = false
		return
	}
	if m.tier != TierTarget {
		return
	}
	m.confirmTarget()
}

func (m *DecisionMachine) confirmIntent(sectorID string) {
	intent, ok := intentForSector(sectorID)
	if !ok {
		return
	}
	m.log.Add(m.tickCount, "sm", "intent", "confirm", intent.String(), 0)
	// The physical release that confirmed this tier must not also confirm
	// the next one.
	m.ignoreNextEnd = true
	if intent == IntentHold {
		m.dispatchImmediate()
		return
	}
	m.enterTarget(intent)
}

// --- Target tier ---

func (m *DecisionMachine) enterTarget(intent Intent) {
	m.tier = TierTarget
	m.intent = intent
	m.releaseSector = ""
	m.session.TierEntered = m.now
	m.snapper.Reset(m.session.Center)

	switch intent {
	case IntentPass:
		m.registry.Clear()
		m.candidates = m.passCandidates(m.lastSnapshot)
	case IntentShoot:
		m.registry.Clear()
		m.candidates = m.aimCandidates()
	case IntentBreak:
		m.registry.Reset(CompassSectors()...)
		m.candidates = nil
	}
	m.log.Add(m.tickCount, "sm", "tier", "enter_target",
		fmt.Sprintf("%s candidates=%d", intent, len(m.candidates)), float64(len(m.candidates)))
}

// passCandidates builds live pass recipients from the snapshot: teammates
// only, never the controlled player, and never inside the thumb zone.
func (m *DecisionMachine) passCandidates(snap *protocol.Snapshot) []TargetCandidate {
	if snap == nil || m.translator == nil || m.session == nil {
		return nil
	}
	out := make([]TargetCandidate, 0, len(snap.Players))
	for key, p := range snap.Players {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			continue
		}
		if id == m.controlledID {
			continue
		}
		if p.Side != "" && p.Side != m.side {
			continue
		}
		pos := m.translator.ToScreen(Vec2{X: p.X, Y: p.Y})
		if angle, dist := Polar(m.session.Center, pos); dist > 0 && InThumbZone(angle) {
			continue
		}
		out = append(out, TargetCandidate{ID: id, Pos: pos, Role: "player", Target: PlayerTarget(id)})
	}
	return out
}

// aimCandidates places fixed aim dots across the attacked goal mouth.
func (m *DecisionMachine) aimCandidates() []TargetCandidate {
	if m.translator == nil || m.session == nil {
		return nil
	}
	goalX := 52.5
	if m.side == protocol.SideAway {
		goalX = -52.5
	}
	ys := []float64{-3.2, -1.6, 0, 1.6, 3.2}
	out := make([]TargetCandidate, 0, len(ys))
	for i, y := range ys {
		field := Vec2{X: goalX, Y: y}
		pos := m.translator.ToScreen(field)
		if angle, dist := Polar(m.session.Center, pos); dist > 0 && InThumbZone(angle) {
			continue
		}
		out = append(out, TargetCandidate{
			ID:     i,
			Pos:    pos,
			Role:   "aim",
			Target: PointTarget(field.X, field.Y),
		})
	}
	return out
}

func (m *DecisionMachine) confirmTarget() {
	target := AutoTarget()
	switch m.intent {
	case IntentPass:
		if st := m.snapper.State(); st.Snapped {
			target = PlayerTarget(st.TargetID)
		}
		// Unsnapped or no candidates at all: the release still resolves,
		// to the auto target, rather than rejecting the gesture.
	case IntentShoot:
		if c, ok := NearestDot(m.snapper.Selector(), m.candidates); ok {
			target = c.Target
		}
	case IntentBreak:
		if dir, ok := CompassDirection(m.releaseSector); ok {
			fd := m.screenDirToField(dir)
			target = DirectionTarget(fd.X, fd.Y, breakCarryMeters)
		}
	}
	m.log.Add(m.tickCount, "sm", "target", "confirm", targetString(target), 0)
	m.dispatch(NewCommand(m.intent, target, m.controlledID, m.side))
}

// screenDirToField converts a unit screen direction into field space by
// probing the translator around the session centre.
func (m *DecisionMachine) screenDirToField(dir Vec2) Vec2 {
	if m.translator == nil || m.session == nil {
		return dir
	}
	c := m.session.Center
	p0 := m.translator.ToField(c)
	p1 := m.translator.ToField(Vec2{X: c.X + dir.X*10, Y: c.Y + dir.Y*10})
	d := Vec2{X: p1.X - p0.X, Y: p1.Y - p0.Y}
	if n := Dist(Vec2{}, d); n > 0 {
		d.X /= n
		d.Y /= n
	}
	return d
}

// --- Dispatch ---

func (m *DecisionMachine) dispatch(cmd Command) {
	if err := m.emitter.Dispatch(cmd); err != nil {
		// Aborted dispatch still closes the session; the turn is simply
		// lost rather than retried.
		m.log.Add(m.tickCount, "emit", "dispatch", "failed", err.Error(), 0)
	} else {
		m.log.Add(m.tickCount, "emit", "dispatch", "sent",
			fmt.Sprintf("%s %s", cmd.Intent, targetString(cmd.Target)), 0)
		m.pulser.Pulse(PulseConfirm)
	}
	m.lockedUntil = m.now.Add(inputLockWindow)
	m.hide()
}

// dispatchImmediate fires the hold command and keeps the UI visible briefly
// before auto-hiding.
func (m *DecisionMachine) dispatchImmediate() {
	cmd := NewCommand(IntentHold, AutoTarget(), m.controlledID, m.side)
	if err := m.emitter.Dispatch(cmd); err != nil {
		m.log.Add(m.tickCount, "emit", "dispatch", "failed", err.Error(), 0)
		m.lockedUntil = m.now.Add(inputLockWindow)
		m.hide()
		return
	}
	m.log.Add(m.tickCount, "emit", "dispatch", "sent", "hold", 0)
	m.pulser.Pulse(PulseConfirm)
	m.lockedUntil = m.now.Add(inputLockWindow)
	m.tier = TierImmediate
	m.immediateUntil = m.now.Add(immediateDisplay)
	m.candidates = nil
	m.registry.Clear()
}

// DispatchAutoTurn fires the auto command for this turn: the live intent if
// a target tier is open, otherwise the pass default. Used by the mode
// controller's short-press path.
func (m *DecisionMachine) DispatchAutoTurn() {
	intent := IntentPass
	if m.tier == TierTarget {
		intent = m.intent
	}
	m.log.Add(m.tickCount, "sm", "dispatch", "auto_turn", intent.String(), 0)
	m.detector.Reset()
	m.dispatch(NewCommand(intent, AutoTarget(), m.controlledID, m.side))
}

// EnterFullAuto force-hides any open session; possession gains are ignored
// while the mode source reports FullAuto.
func (m *DecisionMachine) EnterFullAuto() {
	m.abandon("full_auto")
}

func targetString(t Target) string {
	switch t.Kind {
	case TargetPlayer:
		return fmt.Sprintf("player:%d", t.PlayerID)
	case TargetPoint:
		return fmt.Sprintf("point:(%.1f,%.1f)", t.Point.X, t.Point.Y)
	case TargetDirection:
		return fmt.Sprintf("dir:(%.2f,%.2f)x%.0fm", t.Dir.X, t.Dir.Y, t.Meters)
	default:
		return "auto"
	}
}
