package game

import (
	"fmt"
	"math"
	"time"

	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

// RecordingSink is a CommandSink that captures everything handed to it.
// Used by the headless driver and tests; the registration outcome is
// scriptable.
type RecordingSink struct {
	Sent   []protocol.UserCommand
	Routed []protocol.MultiAgentCommand
	Regs   []protocol.RegisterController

	RegResult protocol.RegisterControllerResult
	RegErr    error
}

// NewRecordingSink creates a sink whose registrations succeed.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{RegResult: protocol.RegisterControllerResult{Success: true}}
}

func (s *RecordingSink) Send(cmd protocol.UserCommand) error {
	s.Sent = append(s.Sent, cmd)
	return nil
}

func (s *RecordingSink) SendRouted(cmd protocol.MultiAgentCommand) error {
	s.Routed = append(s.Routed, cmd)
	return nil
}

func (s *RecordingSink) Register(reg protocol.RegisterController) (protocol.RegisterControllerResult, error) {
	s.Regs = append(s.Regs, reg)
	return s.RegResult, s.RegErr
}

// ScaleTranslator is a linear field↔screen projection: field meters scaled
// by PixelsPerMeter around ScreenCenter. The live client builds one from its
// camera; the harness uses a fixed one.
type ScaleTranslator struct {
	PixelsPerMeter float64
	ScreenCenter   Vec2
}

func (t ScaleTranslator) ToScreen(field Vec2) Vec2 {
	return Vec2{
		X: t.ScreenCenter.X + field.X*t.PixelsPerMeter,
		Y: t.ScreenCenter.Y + field.Y*t.PixelsPerMeter,
	}
}

func (t ScaleTranslator) ToField(screen Vec2) Vec2 {
	return Vec2{
		X: (screen.X - t.ScreenCenter.X) / t.PixelsPerMeter,
		Y: (screen.Y - t.ScreenCenter.Y) / t.PixelsPerMeter,
	}
}

// simPlayer is one scripted player on the pitch.
type simPlayer struct {
	id   int
	pos  Vec2 // field meters
	side protocol.TeamSide
}

// simConfig collects the options before wiring.
type simConfig struct {
	controlledID  int
	controlledPos Vec2
	side          protocol.TeamSide
	viewportW     int
	viewportH     int
	verbose       bool
	controllerID  int
	playerSlot    int
	arbitrated    bool
	noTranslator  bool
	sink          CommandSink
	players       []simPlayer
	start         time.Time
}

// SimOption configures a GestureSim.
type SimOption func(*simConfig)

// WithControlled sets the controlled player's id, side and field position.
func WithControlled(id int, side protocol.TeamSide, x, y float64) SimOption {
	return func(c *simConfig) {
		c.controlledID = id
		c.side = side
		c.controlledPos = Vec2{X: x, Y: y}
	}
}

// WithTeammate adds a same-side player at a field position.
func WithTeammate(id int, x, y float64) SimOption {
	return func(c *simConfig) {
		c.players = append(c.players, simPlayer{id: id, pos: Vec2{X: x, Y: y}, side: c.side})
	}
}

// WithOpponent adds an opposing player at a field position.
func WithOpponent(id int, x, y float64) SimOption {
	return func(c *simConfig) {
		side := protocol.SideAway
		if c.side == protocol.SideAway {
			side = protocol.SideHome
		}
		c.players = append(c.players, simPlayer{id: id, pos: Vec2{X: x, Y: y}, side: side})
	}
}

// WithViewport sets the screen dimensions.
func WithViewport(w, h int) SimOption {
	return func(c *simConfig) { c.viewportW, c.viewportH = w, h }
}

// WithVerbose enables verbose decision logging.
func WithVerbose() SimOption {
	return func(c *simConfig) { c.verbose = true }
}

// WithController enables multi-agent routing.
func WithController(id, slot int) SimOption {
	return func(c *simConfig) { c.controllerID, c.playerSlot = id, slot }
}

// WithArbitration starts the emitter in arbitrated dispatch mode.
func WithArbitration() SimOption {
	return func(c *simConfig) { c.arbitrated = true }
}

// WithoutTranslator drops the coordinate translator to exercise the
// viewport-centre fallback.
func WithoutTranslator() SimOption {
	return func(c *simConfig) { c.noTranslator = true }
}

// WithSink substitutes a custom command sink.
func WithSink(s CommandSink) SimOption {
	return func(c *simConfig) { c.sink = s }
}

// GestureSim is a headless harness that drives the full gesture pipeline —
// detector, decision machine, mode controller, emitter — with scripted
// snapshots, pointer traces and a deterministic clock. No graphics, no
// sockets.
type GestureSim struct {
	Bus      *Bus
	Detector *GestureDetector
	Registry *SectorRegistry
	Machine  *DecisionMachine
	Modes    *ModeController
	Emitter  *CommandEmitter
	Log      *DecisionLog

	// Sink is set when the default recording sink is in use.
	Sink *RecordingSink

	controlledID int
	side         protocol.TeamSide
	players      map[int]*simPlayer
	now          time.Time
	pointer      Vec2
	tickNo       uint64
}

// NewGestureSim wires a harness from the options.
func NewGestureSim(opts ...SimOption) *GestureSim {
	cfg := simConfig{
		controlledID: 9,
		side:         protocol.SideHome,
		viewportW:    1280,
		viewportH:    720,
		controllerID: -1,
		start:        time.Unix(1_000_000, 0),
	}
	for _, o := range opts {
		o(&cfg)
	}

	bus := NewBus()
	reg := NewSectorRegistry()
	logger := NewDecisionLog(cfg.verbose)
	det := NewGestureDetector(bus, reg, NopPulser{})

	sink := cfg.sink
	var rec *RecordingSink
	if sink == nil {
		rec = NewRecordingSink()
		sink = rec
	}
	emitter := NewCommandEmitter(bus, sink, cfg.controllerID, cfg.playerSlot)
	if cfg.arbitrated {
		emitter.SetDispatchMode(DispatchArbitrated)
	}

	var tr Translator
	if !cfg.noTranslator {
		tr = ScaleTranslator{
			PixelsPerMeter: 6,
			ScreenCenter:   Vec2{X: float64(cfg.viewportW) / 2, Y: float64(cfg.viewportH) / 2},
		}
	}
	machine := NewDecisionMachine(DecisionDeps{
		Bus:        bus,
		Emitter:    emitter,
		Detector:   det,
		Registry:   reg,
		Log:        logger,
		Pulser:     NopPulser{},
		Translator: tr,
	}, cfg.controlledID, cfg.side, cfg.viewportW, cfg.viewportH)
	modes := NewModeController(bus, NopPulser{}, logger, machine.DispatchAutoTurn, machine.EnterFullAuto)
	machine.SetModeSource(modes.Mode)

	sim := &GestureSim{
		Bus:          bus,
		Detector:     det,
		Registry:     reg,
		Machine:      machine,
		Modes:        modes,
		Emitter:      emitter,
		Log:          logger,
		Sink:         rec,
		controlledID: cfg.controlledID,
		side:         cfg.side,
		players:      map[int]*simPlayer{},
		now:          cfg.start,
	}
	sim.players[cfg.controlledID] = &simPlayer{id: cfg.controlledID, pos: cfg.controlledPos, side: cfg.side}
	for i := range cfg.players {
		p := cfg.players[i]
		sim.players[p.id] = &p
	}

	// Establish the clock before any events arrive.
	sim.Step(0)
	return sim
}

// Now returns the harness clock.
func (s *GestureSim) Now() time.Time { return s.now }

// Step advances the clock and runs one tick of the machine and the mode
// controller.
func (s *GestureSim) Step(d time.Duration) {
	s.now = s.now.Add(d)
	s.Machine.Tick(s.now)
	s.Modes.Tick(s.now)
}

// StepFrames runs n ticks of ~16ms each.
func (s *GestureSim) StepFrames(n int) {
	for i := 0; i < n; i++ {
		s.Step(16 * time.Millisecond)
	}
}

// MovePlayer repositions a scripted player in field space.
func (s *GestureSim) MovePlayer(id int, x, y float64) {
	if p, ok := s.players[id]; ok {
		p.pos = Vec2{X: x, Y: y}
	}
}

// FeedSnapshot delivers one snapshot with the given ball owner (negative for
// a loose ball).
func (s *GestureSim) FeedSnapshot(owner int) {
	s.tickNo++
	players := make(map[string]protocol.PlayerSnap, len(s.players))
	for id, p := range s.players {
		players[fmt.Sprintf("%d", id)] = protocol.PlayerSnap{X: p.pos.X, Y: p.pos.Y, Side: p.side}
	}
	o := owner
	s.Machine.HandleSnapshot(&protocol.Snapshot{
		Tick:             s.tickNo,
		TimestampMs:      s.now.UnixMilli(),
		BallOwnerTrackID: &o,
		Players:          players,
	})
}

// GainPossession hands the ball to the controlled player.
func (s *GestureSim) GainPossession() { s.FeedSnapshot(s.controlledID) }

// LosePossession turns the ball loose.
func (s *GestureSim) LosePossession() { s.FeedSnapshot(-1) }

// Press starts a pointer press at a screen position.
func (s *GestureSim) Press(x, y float64) {
	s.pointer = Vec2{X: x, Y: y}
	s.Detector.StartPress(s.pointer)
}

// PressCenter presses on the session centre.
func (s *GestureSim) PressCenter() {
	c := s.Machine.SessionCenter()
	s.Press(c.X, c.Y)
}

// Drag moves the pointer to a screen position.
func (s *GestureSim) Drag(x, y float64) {
	s.pointer = Vec2{X: x, Y: y}
	s.Detector.UpdatePosition(s.pointer)
}

// DragPolar drags to a polar offset from the press centre.
func (s *GestureSim) DragPolar(angle, dist float64) {
	c := s.Detector.Center()
	s.Drag(c.X+dist*math.Cos(angle), c.Y+dist*math.Sin(angle))
}

// Release ends the press at the last pointer position.
func (s *GestureSim) Release() {
	s.Detector.EndPress(s.pointer)
}

// Flick is a complete press → drag → release at a polar offset from the
// session centre.
func (s *GestureSim) Flick(angle, dist float64) {
	s.PressCenter()
	s.DragPolar(angle, dist)
	s.Release()
}

// HoldModeButton presses the auxiliary control for a duration, ticking the
// clock through it.
func (s *GestureSim) HoldModeButton(d time.Duration) {
	s.Modes.ButtonDown(s.now)
	for elapsed := time.Duration(0); elapsed < d; elapsed += 50 * time.Millisecond {
		s.Step(50 * time.Millisecond)
	}
	s.Modes.ButtonUp(s.now)
}

// Commands returns every single-agent command captured by the default sink.
func (s *GestureSim) Commands() []protocol.UserCommand {
	if s.Sink == nil {
		return nil
	}
	return s.Sink.Sent
}

// DispatchCount counts commands across both sink paths.
func (s *GestureSim) DispatchCount() int {
	if s.Sink == nil {
		return 0
	}
	return len(s.Sink.Sent) + len(s.Sink.Routed)
}
