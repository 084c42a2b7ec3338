package game

import "time"

// ControlMode is the three-way control scheme. Manual is the default and the
// only mode in which possession gain opens a gesture session automatically.
type ControlMode int

const (
	ModeManual   ControlMode = iota
	ModeAutoTurn             // transient: one auto command, then back to Manual
	ModeFullAuto             // gesture subsystem bypassed entirely
)

func (m ControlMode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeAutoTurn:
		return "auto_turn"
	case ModeFullAuto:
		return "full_auto"
	default:
		return "unknown"
	}
}

// LongPressThreshold separates the auxiliary control's short press (auto
// this turn) from its long press (toggle full auto).
const LongPressThreshold = time.Second

// ModeController tracks the control mode and interprets the auxiliary
// control. Mode state is process-wide and survives gesture sessions; it is
// the only persistent mutable state in the subsystem.
type ModeController struct {
	bus    *Bus
	pulser Pulser
	log    *DecisionLog

	mode       ControlMode
	pressing   bool
	pressStart time.Time
	longFired  bool

	// onAutoTurn dispatches the auto command for the current turn.
	onAutoTurn func()
	// onFullAutoEnter force-hides the decision UI.
	onFullAutoEnter func()

	tickCount int
}

// NewModeController starts in Manual.
func NewModeController(bus *Bus, pulser Pulser, log *DecisionLog, onAutoTurn, onFullAutoEnter func()) *ModeController {
	return &ModeController{
		bus:             bus,
		pulser:          pulser,
		log:             log,
		mode:            ModeManual,
		onAutoTurn:      onAutoTurn,
		onFullAutoEnter: onFullAutoEnter,
	}
}

// Mode returns the current control mode.
func (mc *ModeController) Mode() ControlMode { return mc.mode }

// ButtonDown starts timing an auxiliary control press.
func (mc *ModeController) ButtonDown(now time.Time) {
	if mc.pressing {
		return
	}
	mc.pressing = true
	mc.pressStart = now
	mc.longFired = false
}

// Tick fires the long-press toggle as soon as the hold crosses the
// threshold, without waiting for release.
func (mc *ModeController) Tick(now time.Time) {
	mc.tickCount++
	if mc.pressing && !mc.longFired && now.Sub(mc.pressStart) >= LongPressThreshold {
		mc.longFired = true
		mc.toggleFullAuto()
	}
}

// ButtonUp finishes the press. A hold below the threshold is the short-press
// path: one auto command for this turn, then straight back to Manual.
func (mc *ModeController) ButtonUp(now time.Time) {
	if !mc.pressing {
		return
	}
	mc.pressing = false
	if mc.longFired {
		return
	}
	if now.Sub(mc.pressStart) >= LongPressThreshold {
		// Released exactly at the threshold before the tick caught it.
		mc.toggleFullAuto()
		return
	}
	mc.setMode(ModeAutoTurn)
	mc.onAutoTurn()
	mc.setMode(ModeManual)
}

func (mc *ModeController) toggleFullAuto() {
	if mc.mode == ModeFullAuto {
		mc.setMode(ModeManual)
	} else {
		mc.setMode(ModeFullAuto)
		mc.onFullAutoEnter()
	}
	mc.pulser.Pulse(PulseMode)
}

func (mc *ModeController) setMode(m ControlMode) {
	if mc.mode == m {
		return
	}
	mc.mode = m
	mc.log.Add(mc.tickCount, "mode", "mode", "change", m.String(), 0)
	mc.bus.Publish(EventModeChanged, &ModeChangedPayload{Mode: m})
}
