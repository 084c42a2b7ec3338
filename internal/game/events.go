package game

// EventType identifies a gesture subsystem event.
type EventType int

const (
	// EventPressStarted signals a new press on the gesture surface
	// Trigger: GestureDetector.StartPress | Payload: *PressPayload
	EventPressStarted EventType = iota

	// EventDragUpdated carries every pointer move while pressing, whether or
	// not a sector resolves
	// Trigger: GestureDetector.UpdatePosition | Payload: *DragPayload
	EventDragUpdated

	// EventSectorEntered signals the drag resolving a new sector
	// Trigger: GestureDetector.UpdatePosition on sector change
	// Consumer: DecisionMachine, overlay highlight | Payload: *SectorPayload
	EventSectorEntered

	// EventSectorExited signals the drag leaving the previous sector; always
	// emitted before the matching EventSectorEntered
	// Payload: *SectorPayload
	EventSectorExited

	// EventReleaseConfirmed signals a release while a sector was active
	// Trigger: GestureDetector.EndPress | Payload: *SectorPayload
	EventReleaseConfirmed

	// EventPressEnded signals any release, confirmed or not
	// Trigger: GestureDetector.EndPress | Payload: *PressPayload
	EventPressEnded

	// EventPossessionGained signals the controlled player receiving the ball
	// Trigger: PossessionTracker | Consumer: DecisionMachine | Payload: *PossessionPayload
	EventPossessionGained

	// EventPossessionLost signals the controlled player losing the ball
	// Trigger: PossessionTracker | Consumer: DecisionMachine | Payload: *PossessionPayload
	EventPossessionLost

	// EventCommandDispatched signals a command handed to the sink
	// Trigger: CommandEmitter | Payload: *CommandDispatchedPayload
	EventCommandDispatched

	// EventActionSelected is the arbitration-mode alternative to a direct
	// dispatch; consumed by an external arbiter
	// Trigger: CommandEmitter in arbitrated mode | Payload: *ActionSelectedPayload
	EventActionSelected

	// EventModeChanged signals a control mode transition
	// Trigger: ModeController | Payload: *ModeChangedPayload
	EventModeChanged

	eventTypeCount
)

// PressPayload accompanies press start/end events.
type PressPayload struct {
	Pos Vec2
}

// DragPayload accompanies every drag update.
type DragPayload struct {
	Pos    Vec2
	Angle  float64
	Dist   float64
	Sector string // active sector id, "" if none
}

// SectorPayload accompanies sector enter/exit/release events.
type SectorPayload struct {
	ID string
}

// PossessionPayload accompanies possession edge events.
type PossessionPayload struct {
	TrackID int
	Tick    uint64
}

// CommandDispatchedPayload accompanies every dispatched command.
type CommandDispatchedPayload struct {
	Cmd Command
}

// ActionSelectedPayload is the arbitration vocabulary: shoot, dribble, or
// pass_to with an optional target.
type ActionSelectedPayload struct {
	Type      string
	TargetID  int
	HasTarget bool
}

// ModeChangedPayload accompanies control mode transitions.
type ModeChangedPayload struct {
	Mode ControlMode
}

// Bus is a synchronous typed observer registry. Handlers run in subscription
// order, inside the publishing call, on the single frame goroutine. There is
// no queueing: an event published mid-tick is fully handled before Publish
// returns.
type Bus struct {
	handlers [eventTypeCount][]func(any)
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(et EventType, fn func(payload any)) {
	b.handlers[et] = append(b.handlers[et], fn)
}

// Publish invokes every handler registered for et, in subscription order.
func (b *Bus) Publish(et EventType, payload any) {
	for _, fn := range b.handlers[et] {
		fn(payload)
	}
}
