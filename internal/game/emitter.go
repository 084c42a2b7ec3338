package game

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

// CommandSink is the external surface that executes commands. The websocket
// feed implements it for live play; tests inject a recorder.
type CommandSink interface {
	Send(cmd protocol.UserCommand) error
	SendRouted(cmd protocol.MultiAgentCommand) error
	Register(reg protocol.RegisterController) (protocol.RegisterControllerResult, error)
}

// DispatchMode selects which of the emitter's two paths runs. Exactly one
// executes per confirmed command.
type DispatchMode int

const (
	// DispatchDirect hands the structured payload to the command sink.
	DispatchDirect DispatchMode = iota
	// DispatchArbitrated raises an actionSelected event for an external
	// arbiter instead, never touching the sink.
	DispatchArbitrated
)

// CommandEmitter assembles wire payloads from confirmed Commands and hands
// them out exactly once each.
type CommandEmitter struct {
	bus  *Bus
	sink CommandSink
	mode DispatchMode

	// Multi-agent routing: active when controllerID >= 0. The controller
	// slot binding is registered lazily before the first routed command.
	controllerID int
	playerSlot   int
	registered   bool

	lastJSON []byte // last payload handed to the sink, for debug export
}

// NewCommandEmitter creates a direct-mode emitter. controllerID < 0 selects
// the plain single-agent envelope.
func NewCommandEmitter(bus *Bus, sink CommandSink, controllerID, playerSlot int) *CommandEmitter {
	return &CommandEmitter{bus: bus, sink: sink, controllerID: controllerID, playerSlot: playerSlot}
}

// SetDispatchMode switches between the direct and arbitrated paths. Set by
// the host screen, not by the gesture pipeline.
func (e *CommandEmitter) SetDispatchMode(m DispatchMode) { e.mode = m }

// DispatchMode returns the current path selection.
func (e *CommandEmitter) DispatchMode() DispatchMode { return e.mode }

// LastDispatchJSON returns the payload of the most recent direct dispatch.
func (e *CommandEmitter) LastDispatchJSON() []byte { return e.lastJSON }

// Dispatch executes exactly one path for the command. In arbitrated mode the
// sink is never touched.
func (e *CommandEmitter) Dispatch(cmd Command) error {
	if e.mode == DispatchArbitrated {
		e.bus.Publish(EventActionSelected, arbitrate(cmd))
		e.bus.Publish(EventCommandDispatched, &CommandDispatchedPayload{Cmd: cmd})
		return nil
	}

	payload := buildPayload(cmd)
	if e.controllerID >= 0 {
		if !e.registered {
			res, err := e.sink.Register(protocol.RegisterController{
				ControllerID: e.controllerID,
				Side:         cmd.Side,
				PlayerSlot:   e.playerSlot,
			})
			if err != nil {
				log.Printf("emitter: controller %d registration failed: %v", e.controllerID, err)
				return fmt.Errorf("register controller %d: %w", e.controllerID, err)
			}
			if !res.Success {
				log.Printf("emitter: controller %d registration rejected: %s", e.controllerID, res.Error)
				return fmt.Errorf("register controller %d rejected", e.controllerID)
			}
			e.registered = true
		}
		routed := protocol.MultiAgentCommand{ControllerID: e.controllerID, Payload: payload}
		if err := e.sink.SendRouted(routed); err != nil {
			return err
		}
		e.lastJSON, _ = json.Marshal(routed)
	} else {
		wire := protocol.UserCommand{
			Mode:              "career_player",
			Side:              cmd.Side,
			ControlledTrackID: cmd.ControlledID,
			Payload:           payload,
		}
		if err := e.sink.Send(wire); err != nil {
			return err
		}
		e.lastJSON, _ = json.Marshal(wire)
	}

	e.bus.Publish(EventCommandDispatched, &CommandDispatchedPayload{Cmd: cmd})
	return nil
}

// buildPayload maps a Command onto the on_ball_action wire shape. The
// technique rides as "variant" only when it refines the action's default.
func buildPayload(cmd Command) protocol.CommandPayload {
	p := protocol.CommandPayload{
		Cmd:    "on_ball_action",
		Action: cmd.Intent.Action(),
	}
	if cmd.Technique != "" && cmd.Technique != p.Action {
		p.Variant = cmd.Technique
	}
	if p.Action == "hold" {
		// Hold is untargeted: no target fields at all, not even auto.
		return p
	}
	switch cmd.Target.Kind {
	case TargetPlayer:
		id := cmd.Target.PlayerID
		p.TargetTrackID = &id
	case TargetPoint:
		p.TargetPoint = &protocol.PointXY{X: cmd.Target.Point.X, Y: cmd.Target.Point.Y}
	case TargetDirection:
		dx, dy, m := cmd.Target.Dir.X, cmd.Target.Dir.Y, cmd.Target.Meters
		p.DirectionDX = &dx
		p.DirectionDY = &dy
		p.DirectionMeters = &m
	case TargetAuto:
		p.AutoTarget = true
	}
	return p
}

// arbitrate translates a command into the arbiter's smaller vocabulary:
// shoot, dribble, or pass_to. Hold folds into dribble (keep the ball).
func arbitrate(cmd Command) *ActionSelectedPayload {
	switch cmd.Intent {
	case IntentShoot:
		return &ActionSelectedPayload{Type: "shoot"}
	case IntentBreak, IntentHold:
		return &ActionSelectedPayload{Type: "dribble"}
	default:
		p := &ActionSelectedPayload{Type: "pass_to"}
		if cmd.Target.Kind == TargetPlayer {
			p.TargetID = cmd.Target.PlayerID
			p.HasTarget = true
		}
		return p
	}
}
