package game

import (
	"fmt"
	"math"
)

// Radial layout constants, shared by every tier. Distances are screen pixels
// from the session centre.
const (
	// InnerRadius is the dead zone: drags shorter than this never resolve a
	// sector, which also swallows degenerate zero-length vectors.
	InnerRadius = 28.0

	// ActivationMin/ActivationMax bound the band in which sector resolution
	// is attempted at all.
	ActivationMin = 28.0
	ActivationMax = 160.0

	// ThumbZoneCenter/ThumbZoneHalf reserve straight "down" (+Y in screen
	// space) ± 45° for the resting thumb. No tier places a sector there and
	// target candidates whose screen angle falls inside are filtered out.
	ThumbZoneCenter = math.Pi / 2
	ThumbZoneHalf   = math.Pi / 4
)

// Intent tier sector ids.
const (
	SectorPass  = "pass"
	SectorShoot = "shoot"
	SectorBreak = "break"
	SectorHold  = "hold"
)

// SectorDef is one selectable wedge of the radial menu. Center is stored
// normalized to [0, 2π); the wedge spans Center ± HalfWidth and may wrap
// past 2π.
type SectorDef struct {
	ID        string
	Center    float64
	HalfWidth float64
}

// Min returns the wedge's lower angular bound, normalized.
func (s SectorDef) Min() float64 { return NormalizeAngle(s.Center - s.HalfWidth) }

// Max returns the wedge's upper angular bound, normalized.
func (s SectorDef) Max() float64 { return NormalizeAngle(s.Center + s.HalfWidth) }

// Contains reports whether the angle falls inside the wedge, bounds
// inclusive.
func (s SectorDef) Contains(angle float64) bool {
	return AngleInRange(angle, s.Min(), s.Max())
}

// SectorRegistry holds the sector set for the currently presented tier. The
// contents are ephemeral: each tier entry rebuilds them from scratch.
// Registration order is the tie-break priority when wedges touch or overlap.
type SectorRegistry struct {
	sectors []SectorDef
}

// NewSectorRegistry creates an empty registry.
func NewSectorRegistry() *SectorRegistry {
	return &SectorRegistry{}
}

// Reset replaces the registry contents. Centers are normalized on the way in.
func (r *SectorRegistry) Reset(defs ...SectorDef) {
	r.sectors = r.sectors[:0]
	for _, d := range defs {
		d.Center = NormalizeAngle(d.Center)
		r.sectors = append(r.sectors, d)
	}
}

// Clear empties the registry.
func (r *SectorRegistry) Clear() {
	r.sectors = r.sectors[:0]
}

// Resolve returns the first registered sector containing the angle.
func (r *SectorRegistry) Resolve(angle float64) (SectorDef, bool) {
	for _, s := range r.sectors {
		if s.Contains(angle) {
			return s, true
		}
	}
	return SectorDef{}, false
}

// Sectors returns the registered sectors in priority order.
func (r *SectorRegistry) Sectors() []SectorDef {
	return r.sectors
}

// InThumbZone reports whether a screen angle falls in the reserved
// down-facing exclusion zone.
func InThumbZone(angle float64) bool {
	return AngleInRange(angle, ThumbZoneCenter-ThumbZoneHalf, ThumbZoneCenter+ThumbZoneHalf)
}

// IntentSectors is the fixed top-tier layout. Screen angles, y-down: pass is
// a flick right (wraps past 2π), shoot is up, break is left, hold sits
// between break and shoot. Straight down stays empty for the thumb.
func IntentSectors() []SectorDef {
	return []SectorDef{
		{ID: SectorPass, Center: 0, HalfWidth: math.Pi / 8},
		{ID: SectorShoot, Center: 3 * math.Pi / 2, HalfWidth: math.Pi / 8},
		{ID: SectorBreak, Center: math.Pi, HalfWidth: math.Pi / 8},
		{ID: SectorHold, Center: 5 * math.Pi / 4, HalfWidth: math.Pi / 8},
	}
}

// CompassSectors is the break tier layout: the 8 compass directions, each a
// 45° wedge, covering the full circle. A carry direction is a deliberate
// command, so the thumb-zone reservation does not apply here.
func CompassSectors() []SectorDef {
	defs := make([]SectorDef, 0, 8)
	for i := 0; i < 8; i++ {
		defs = append(defs, SectorDef{
			ID:        fmt.Sprintf("dir%d", i),
			Center:    float64(i) * math.Pi / 4,
			HalfWidth: math.Pi / 8,
		})
	}
	return defs
}

// CompassDirection returns the unit screen-space direction for a compass
// sector id produced by CompassSectors.
func CompassDirection(id string) (Vec2, bool) {
	var i int
	if _, err := fmt.Sscanf(id, "dir%d", &i); err != nil || i < 0 || i > 7 {
		return Vec2{}, false
	}
	a := float64(i) * math.Pi / 4
	return Vec2{X: math.Cos(a), Y: math.Sin(a)}, true
}
