package game

import "github.com/yellowhama/footballgame-sub006/internal/protocol"

// Intent is the top-level action category picked on the first tier.
type Intent int

const (
	IntentPass  Intent = iota // ground pass to a teammate
	IntentShoot               // strike at a goal aim point
	IntentBreak               // knock the ball on and sprint a direction
	IntentHold                // shield the ball in place
)

func (i Intent) String() string {
	switch i {
	case IntentPass:
		return "pass"
	case IntentShoot:
		return "shoot"
	case IntentBreak:
		return "break"
	case IntentHold:
		return "hold"
	default:
		return "unknown"
	}
}

// Action maps the intent to the engine's on-ball action vocabulary.
func (i Intent) Action() string {
	switch i {
	case IntentPass:
		return "pass"
	case IntentShoot:
		return "shoot"
	case IntentBreak:
		return "take_on"
	case IntentHold:
		return "hold"
	default:
		return "hold"
	}
}

// Technique is the static intent→technique refinement. There is no separate
// technique tier: the refinement is inferred, and an empty technique means
// the action's own default.
func (i Intent) Technique() string {
	switch i {
	case IntentShoot:
		return "finesse"
	case IntentBreak:
		return "knock_on"
	default:
		return ""
	}
}

// intentForSector maps an intent-tier sector id to its Intent.
func intentForSector(id string) (Intent, bool) {
	switch id {
	case SectorPass:
		return IntentPass, true
	case SectorShoot:
		return IntentShoot, true
	case SectorBreak:
		return IntentBreak, true
	case SectorHold:
		return IntentHold, true
	}
	return 0, false
}

// TargetKind discriminates the Target variant.
type TargetKind int

const (
	TargetAuto      TargetKind = iota // engine picks
	TargetPlayer                      // pass recipient by track id
	TargetPoint                       // field-space aim point
	TargetDirection                   // field-space direction plus distance
)

// Target is the final command parameter: a player, a point, a direction, or
// an automatic choice.
type Target struct {
	Kind     TargetKind
	PlayerID int
	Point    Vec2 // field meters
	Dir      Vec2 // unit direction, field space
	Meters   float64
}

// AutoTarget leaves target selection to the engine.
func AutoTarget() Target { return Target{Kind: TargetAuto} }

// PlayerTarget aims at a teammate by track id.
func PlayerTarget(id int) Target { return Target{Kind: TargetPlayer, PlayerID: id} }

// PointTarget aims at a field-space point.
func PointTarget(x, y float64) Target { return Target{Kind: TargetPoint, Point: Vec2{X: x, Y: y}} }

// DirectionTarget aims along a field-space direction for a distance.
func DirectionTarget(dx, dy, meters float64) Target {
	return Target{Kind: TargetDirection, Dir: Vec2{X: dx, Y: dy}, Meters: meters}
}

// Command is one fully resolved player decision. Immutable once built; it is
// handed to the emitter exactly once and discarded.
type Command struct {
	Intent       Intent
	Technique    string
	Target       Target
	ControlledID int
	Side         protocol.TeamSide
}

// NewCommand builds a Command with the intent's inferred technique.
func NewCommand(intent Intent, target Target, controlledID int, side protocol.TeamSide) Command {
	return Command{
		Intent:       intent,
		Technique:    intent.Technique(),
		Target:       target,
		ControlledID: controlledID,
		Side:         side,
	}
}
