package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/yellowhama/footballgame-sub006/internal/game"
	"github.com/yellowhama/footballgame-sub006/internal/protocol"
)

// scenarioFunc drives one scripted gesture sequence to completion.
type scenarioFunc func(sim *game.GestureSim)

var scenarios = map[string]scenarioFunc{
	"pass-magnet": runPassMagnet,
	"shoot":       runShoot,
	"break":       runBreak,
	"hold":        runHold,
	"timeout":     runTimeout,
	"full-auto":   runFullAuto,
}

var scenarioOrder = []string{"pass-magnet", "shoot", "break", "hold", "timeout", "full-auto"}

func main() {
	var name string
	var verbose bool
	var showLog bool

	flag.StringVar(&name, "scenario", "all", "scenario name, or \"all\"")
	flag.BoolVar(&verbose, "verbose", false, "record per-tick selector and timer entries")
	flag.BoolVar(&showLog, "log", false, "print the full decision log for each scenario")
	flag.Parse()

	names := scenarioOrder
	if name != "all" {
		if _, ok := scenarios[name]; !ok {
			fmt.Printf("error: unknown scenario %q (supported: all", name)
			for _, n := range scenarioOrder {
				fmt.Printf(", %s", n)
			}
			fmt.Println(")")
			return
		}
		names = []string{name}
	}

	fmt.Printf("=== Headless Gesture Report ===\n\n")
	for _, n := range names {
		runOne(n, verbose, showLog)
	}
}

func runOne(name string, verbose, showLog bool) {
	sim := newScenarioSim(verbose)
	scenarios[name](sim)
	printReport(name, sim, verbose, showLog)
}

// newScenarioSim builds the shared pitch setup: a controlled striker, two
// reachable teammates and a pressing opponent.
func newScenarioSim(verbose bool) *game.GestureSim {
	opts := []game.SimOption{
		game.WithControlled(9, protocol.SideHome, 0, 0),
		game.WithTeammate(10, 5, 0),
		game.WithTeammate(11, 15, -8),
		game.WithOpponent(20, 8, 3),
	}
	if verbose {
		opts = append(opts, game.WithVerbose())
	}
	return game.NewGestureSim(opts...)
}

func printReport(name string, sim *game.GestureSim, verbose, showLog bool) {
	fmt.Printf("--- Scenario %s ---\n", name)
	fmt.Printf("tier_end=%s mode_end=%s\n", sim.Machine.Tier(), sim.Modes.Mode())
	fmt.Printf("log_totals: tier=%d intent=%d target=%d dispatch=%d mode=%d snap=%d possession=%d\n",
		sim.Log.Count("tier", ""),
		sim.Log.Count("intent", ""),
		sim.Log.Count("target", ""),
		sim.Log.Count("dispatch", ""),
		sim.Log.Count("mode", ""),
		sim.Log.Count("snap", ""),
		sim.Log.Count("possession", ""))

	cmds := sim.Commands()
	fmt.Printf("commands=%d\n", len(cmds))
	for i, c := range cmds {
		p := c.Payload
		fmt.Printf("  [%d] action=%s variant=%q target=%s\n", i, p.Action, p.Variant, targetDesc(p))
	}
	if verbose && !showLog {
		fmt.Println("timer_trace:")
		for _, e := range sim.Log.Filter("timer") {
			fmt.Printf("  [T=%03d] %s=%.3fs\n", e.Tick, e.Key, e.NumVal)
		}
	}
	if showLog {
		fmt.Print(sim.Log.String())
	}
	fmt.Println()
}

func targetDesc(p protocol.CommandPayload) string {
	switch {
	case p.TargetTrackID != nil:
		return fmt.Sprintf("player:%d", *p.TargetTrackID)
	case p.TargetPoint != nil:
		return fmt.Sprintf("point:(%.1f,%.1f)", p.TargetPoint.X, p.TargetPoint.Y)
	case p.DirectionDX != nil:
		return fmt.Sprintf("dir:(%.2f,%.2f)x%.0fm", *p.DirectionDX, *p.DirectionDY, *p.DirectionMeters)
	case p.AutoTarget:
		return "auto"
	default:
		return "none"
	}
}

// runPassMagnet: flick right into the passing wedge, then drag onto the near
// teammate and let the magnet capture before releasing.
func runPassMagnet(sim *game.GestureSim) {
	sim.GainPossession()
	sim.Flick(0, 90)
	sim.PressCenter()
	sim.Drag(670, 360)
	sim.StepFrames(3)
	sim.Release()
}

// runShoot: flick up, then aim just below the middle of the goal mouth.
func runShoot(sim *game.GestureSim) {
	sim.GainPossession()
	sim.Flick(3*math.Pi/2, 90)
	sim.PressCenter()
	sim.Drag(955, 351)
	sim.Release()
}

// runBreak: flick left, then pick the upward compass direction.
func runBreak(sim *game.GestureSim) {
	sim.GainPossession()
	sim.Flick(math.Pi, 90)
	sim.PressCenter()
	sim.DragPolar(3*math.Pi/2, 80)
	sim.Release()
}

// runHold: a single flick into the hold wedge fires immediately.
func runHold(sim *game.GestureSim) {
	sim.GainPossession()
	sim.Flick(5*math.Pi/4, 90)
	sim.Step(700 * time.Millisecond)
}

// runTimeout: touch nothing and let both tier timers expire.
func runTimeout(sim *game.GestureSim) {
	sim.GainPossession()
	sim.Step(2600 * time.Millisecond)
	sim.Step(2600 * time.Millisecond)
}

// runFullAuto: toggle full-auto, verify a possession gain stays silent, then
// toggle back out.
func runFullAuto(sim *game.GestureSim) {
	sim.HoldModeButton(1200 * time.Millisecond)
	sim.GainPossession()
	sim.StepFrames(10)
	sim.HoldModeButton(1200 * time.Millisecond)
}
