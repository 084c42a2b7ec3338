package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/yellowhama/footballgame-sub006/internal/game"
	"github.com/yellowhama/footballgame-sub006/internal/netcfg"
	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

const (
	screenW = 1280
	screenH = 720
)

func main() {
	cfg, err := netcfg.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var pulser game.Pulser = game.NopPulser{}
	if !cfg.Muted {
		pulser = game.NewBeepPulser()
	}

	var feed *game.Feed
	if f, err := game.DialFeed(cfg.EngineWSURL); err != nil {
		// Offline: the overlay still runs, commands go nowhere.
		log.Printf("engine feed unavailable at %s: %v (running offline)", cfg.EngineWSURL, err)
	} else {
		feed = f
		defer feed.Close()
	}

	bus := game.NewBus()
	registry := game.NewSectorRegistry()
	decLog := game.NewDecisionLog(false)
	detector := game.NewGestureDetector(bus, registry, pulser)

	var sink game.CommandSink = feed
	if feed == nil {
		sink = game.NewRecordingSink()
	}
	emitter := game.NewCommandEmitter(bus, sink, cfg.ControllerID, cfg.PlayerSlot)

	machine := game.NewDecisionMachine(game.DecisionDeps{
		Bus:      bus,
		Emitter:  emitter,
		Detector: detector,
		Registry: registry,
		Log:      decLog,
		Pulser:   pulser,
		Translator: game.ScaleTranslator{
			PixelsPerMeter: 6,
			ScreenCenter:   game.Vec2{X: screenW / 2, Y: screenH / 2},
		},
	}, cfg.ControlledTrackID, protocol.TeamSide(cfg.Side), screenW, screenH)
	modes := game.NewModeController(bus, pulser, decLog, machine.DispatchAutoTurn, machine.EnterFullAuto)
	machine.SetModeSource(modes.Mode)

	app := game.NewApp(game.AppDeps{
		Machine:  machine,
		Modes:    modes,
		Detector: detector,
		Emitter:  emitter,
		Log:      decLog,
		Feed:     feed,
	}, screenW, screenH)

	ebiten.SetWindowTitle("Gesture Control")
	ebiten.SetWindowSize(screenW, screenH)
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
