package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Overlay renders the gesture UI: the activation ring, the sector wedges,
// candidate dots and the magnet highlight. It reads machine state only; all
// mutation happens in Update.
type Overlay struct {
	machine *DecisionMachine
	modes   *ModeController
	log     *DecisionLog

	ShowLogTail bool
}

// NewOverlay wires the overlay to its read-side collaborators.
func NewOverlay(machine *DecisionMachine, modes *ModeController, log *DecisionLog) *Overlay {
	return &Overlay{machine: machine, modes: modes, log: log}
}

var (
	ringCol      = color.RGBA{R: 220, G: 220, B: 200, A: 90}
	wedgeCol     = color.RGBA{R: 120, G: 180, B: 120, A: 60}
	wedgeHotCol  = color.RGBA{R: 220, G: 240, B: 120, A: 160}
	dotCol       = color.RGBA{R: 120, G: 160, B: 220, A: 180}
	dotSnapCol   = color.RGBA{R: 255, G: 220, B: 60, A: 230}
	immediateCol = color.RGBA{R: 240, G: 160, B: 60, A: 200}
)

// Draw paints the overlay for the current tier. Hidden draws only the mode
// badge.
func (o *Overlay) Draw(screen *ebiten.Image) {
	o.drawModeBadge(screen)
	if o.ShowLogTail {
		o.drawLogTail(screen)
	}

	switch o.machine.Tier() {
	case TierHidden:
		return
	case TierIntent:
		o.drawRing(screen)
		o.drawSectors(screen, true)
	case TierTarget:
		o.drawRing(screen)
		if o.machine.Intent() == IntentBreak {
			o.drawSectors(screen, false)
		}
		o.drawCandidates(screen)
	case TierImmediate:
		o.drawImmediate(screen)
	}
}

// drawRing strokes the activation band around the session centre.
func (o *Overlay) drawRing(screen *ebiten.Image) {
	c := o.machine.SessionCenter()
	strokeCircle(screen, c, ActivationMin, 1.0, ringCol)
	strokeCircle(screen, c, ActivationMax, 1.0, ringCol)
}

// drawSectors paints each registered wedge as two radial edges plus a label
// at the wedge midpoint. labeled is false for the compass, which would be
// unreadable with eight captions.
func (o *Overlay) drawSectors(screen *ebiten.Image, labeled bool) {
	c := o.machine.SessionCenter()
	active := o.machine.detector.ActiveSector()
	for _, s := range o.machine.registry.Sectors() {
		col := wedgeCol
		if s.ID == active {
			col = wedgeHotCol
		}
		strokeRadial(screen, c, s.Min(), col)
		strokeRadial(screen, c, s.Max(), col)
		if labeled {
			mid := float64(ActivationMin+ActivationMax) / 2
			lx := c.X + mid*math.Cos(s.Center)
			ly := c.Y + mid*math.Sin(s.Center)
			text.Draw(screen, s.ID, basicfont.Face7x13, int(lx)-len(s.ID)*3, int(ly)+4, col)
		}
	}
}

// drawCandidates paints target dots. The magnet's snap gets the highlight plus
// the release-radius ring; fixed-dot tiers highlight the dot nearest the
// selector instead, matching what a release would resolve to.
func (o *Overlay) drawCandidates(screen *ebiten.Image) {
	hotID, hot := highlightedCandidate(o.machine)
	magnet := o.machine.MagnetActive()
	for _, cand := range o.machine.Candidates() {
		col := dotCol
		r := 5.0
		if hot && cand.ID == hotID {
			col = dotSnapCol
			r = 8.0
			if magnet {
				strokeCircle(screen, cand.Pos, SnapOutRadius, 0.5, color.RGBA{R: 255, G: 220, B: 60, A: 40})
			}
		}
		fillDot(screen, cand.Pos, r, col)
	}
	// Selector puck.
	fillDot(screen, o.machine.Snapper().Selector(), 3, color.RGBA{R: 240, G: 240, B: 240, A: 160})
}

// highlightedCandidate resolves which dot is hot: the magnet's snap when the
// magnet owns selection, the single nearest dot to the selector otherwise.
func highlightedCandidate(m *DecisionMachine) (int, bool) {
	if m.MagnetActive() {
		st := m.Snapper().State()
		return st.TargetID, st.Snapped
	}
	c, ok := NearestDot(m.Snapper().Selector(), m.Candidates())
	return c.ID, ok
}

// drawImmediate flashes the hold confirmation at the session centre.
func (o *Overlay) drawImmediate(screen *ebiten.Image) {
	c := o.machine.SessionCenter()
	strokeCircle(screen, c, InnerRadius+6, 2.0, immediateCol)
	text.Draw(screen, "HOLD", basicfont.Face7x13, int(c.X)-14, int(c.Y)+4, immediateCol)
}

func (o *Overlay) drawModeBadge(screen *ebiten.Image) {
	label := fmt.Sprintf("mode: %s", o.modes.Mode())
	bgW := float32(len(label)*6 + 8)
	vector.DrawFilledRect(screen, 8, 8, bgW, 18, color.RGBA{R: 15, G: 18, B: 15, A: 180}, false)
	text.Draw(screen, label, basicfont.Face7x13, 12, 21, color.White)
}

// drawLogTail prints the last few decision log lines bottom-left.
func (o *Overlay) drawLogTail(screen *ebiten.Image) {
	entries := o.log.Entries()
	const tail = 6
	const lineH = 14
	start := 0
	if len(entries) > tail {
		start = len(entries) - tail
	}
	h := screen.Bounds().Dy()
	y := h - (len(entries)-start)*lineH - 8
	for i := start; i < len(entries); i++ {
		ebitenutil.DebugPrintAt(screen, entries[i].String(), 8, y)
		y += lineH
	}
}

// strokeCircle approximates a circle with line segments.
func strokeCircle(screen *ebiten.Image, c Vec2, r, width float64, col color.RGBA) {
	const segs = 32
	for i := 0; i < segs; i++ {
		a0 := float64(i) / segs * 2 * math.Pi
		a1 := float64(i+1) / segs * 2 * math.Pi
		vector.StrokeLine(screen,
			float32(c.X+r*math.Cos(a0)), float32(c.Y+r*math.Sin(a0)),
			float32(c.X+r*math.Cos(a1)), float32(c.Y+r*math.Sin(a1)),
			float32(width), col, false)
	}
}

// strokeRadial draws one wedge edge across the activation band.
func strokeRadial(screen *ebiten.Image, c Vec2, angle float64, col color.RGBA) {
	cos, sin := math.Cos(angle), math.Sin(angle)
	vector.StrokeLine(screen,
		float32(c.X+ActivationMin*cos), float32(c.Y+ActivationMin*sin),
		float32(c.X+ActivationMax*cos), float32(c.Y+ActivationMax*sin),
		1.0, col, false)
}

// fillDot draws a small square marker centred on c.
func fillDot(screen *ebiten.Image, c Vec2, r float64, col color.RGBA) {
	vector.DrawFilledRect(screen, float32(c.X-r), float32(c.Y-r), float32(2*r), float32(2*r), col, false)
}
