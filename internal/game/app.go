package game

import (
	"encoding/json"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

// SnapshotSource is the non-blocking inbound side of the engine link. The
// websocket Feed implements it; the harness bypasses it entirely.
type SnapshotSource interface {
	Poll() (protocol.Envelope, bool)
}

// App is the ebiten front end: it drains the engine feed, feeds raw pointer
// state into the gesture detector, drives the tier and mode clocks, and
// paints the overlay. All game state mutation happens in Update; Draw only
// reads.
type App struct {
	machine  *DecisionMachine
	modes    *ModeController
	detector *GestureDetector
	emitter  *CommandEmitter
	overlay  *Overlay
	log      *DecisionLog
	feed     SnapshotSource // nil when running offline

	width  int
	height int

	prevMouseLeft bool // for edge-triggered press detection
	prevKeys      map[ebiten.Key]bool
	activeTouch   ebiten.TouchID
	touchActive   bool
	touchScratch  []ebiten.TouchID
}

// AppDeps bundles the app's collaborators.
type AppDeps struct {
	Machine  *DecisionMachine
	Modes    *ModeController
	Detector *GestureDetector
	Emitter  *CommandEmitter
	Log      *DecisionLog
	Feed     *Feed
}

// NewApp wires the front end.
func NewApp(deps AppDeps, width, height int) *App {
	a := &App{
		machine:  deps.Machine,
		modes:    deps.Modes,
		detector: deps.Detector,
		emitter:  deps.Emitter,
		overlay:  NewOverlay(deps.Machine, deps.Modes, deps.Log),
		log:      deps.Log,
		width:    width,
		height:   height,
		prevKeys: make(map[ebiten.Key]bool),
	}
	if deps.Feed != nil {
		a.feed = deps.Feed
	}
	return a
}

func (a *App) Update() error {
	a.drainFeed()

	now := time.Now()
	a.handlePointer()
	a.handleKeys(now)

	a.machine.Tick(now)
	a.modes.Tick(now)
	return nil
}

// drainFeed consumes every queued envelope without blocking the frame.
func (a *App) drainFeed() {
	if a.feed == nil {
		return
	}
	for {
		env, ok := a.feed.Poll()
		if !ok {
			return
		}
		if env.Type != "tick_snapshot" {
			continue
		}
		var snap protocol.Snapshot
		if err := json.Unmarshal(env.Data, &snap); err != nil {
			log.Printf("app: bad snapshot: %v", err)
			continue
		}
		a.machine.HandleSnapshot(&snap)
	}
}

// handlePointer maps mouse and single-touch input onto the detector. A touch
// takes priority over the mouse; only the first touch of a gesture is
// tracked, extra fingers are ignored.
func (a *App) handlePointer() {
	a.touchScratch = ebiten.AppendTouchIDs(a.touchScratch[:0])

	if a.touchActive {
		alive := false
		for _, id := range a.touchScratch {
			if id == a.activeTouch {
				alive = true
				break
			}
		}
		if alive {
			x, y := ebiten.TouchPosition(a.activeTouch)
			a.detector.UpdatePosition(Vec2{X: float64(x), Y: float64(y)})
		} else {
			a.touchActive = false
			x, y := ebiten.CursorPosition()
			a.detector.EndPress(Vec2{X: float64(x), Y: float64(y)})
		}
		return
	}

	if len(a.touchScratch) > 0 {
		a.activeTouch = a.touchScratch[0]
		a.touchActive = true
		x, y := ebiten.TouchPosition(a.activeTouch)
		a.detector.StartPress(Vec2{X: float64(x), Y: float64(y)})
		return
	}

	mouseLeft := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	x, y := ebiten.CursorPosition()
	pos := Vec2{X: float64(x), Y: float64(y)}
	switch {
	case mouseLeft && !a.prevMouseLeft:
		a.detector.StartPress(pos)
	case mouseLeft:
		a.detector.UpdatePosition(pos)
	case a.prevMouseLeft:
		a.detector.EndPress(pos)
	}
	a.prevMouseLeft = mouseLeft
}

// handleKeys processes the auxiliary control (space), cancel/reopen, and the
// debug toggles, all edge-triggered off the previous-frame key map.
func (a *App) handleKeys(now time.Time) {
	currentKeys := map[ebiten.Key]bool{}
	pressedEdge := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !a.prevKeys[k]
	}
	releasedEdge := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return !currentKeys[k] && a.prevKeys[k]
	}

	if pressedEdge(ebiten.KeySpace) {
		a.modes.ButtonDown(now)
	}
	if releasedEdge(ebiten.KeySpace) {
		a.modes.ButtonUp(now)
	}
	if pressedEdge(ebiten.KeyEscape) {
		a.machine.Cancel()
	}
	if pressedEdge(ebiten.KeyR) {
		a.machine.Reopen()
	}
	if pressedEdge(ebiten.KeyL) {
		a.overlay.ShowLogTail = !a.overlay.ShowLogTail
	}
	if pressedEdge(ebiten.KeyC) {
		if err := CopyDebugReport(a.emitter, a.log); err != nil {
			log.Printf("app: debug report copy failed: %v", err)
		}
	}

	a.prevKeys = currentKeys
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 42, B: 24, A: 255})
	a.overlay.Draw(screen)
}

func (a *App) Layout(_, _ int) (int, int) {
	return a.width, a.height
}
