// Package protocol defines the JSON wire types exchanged with the match
// engine: outgoing on-ball commands (single-agent and controller-routed) and
// incoming tick snapshots.
package protocol

import (
	"encoding/json"
	"fmt"
)

// TeamSide identifies which side of the pitch a player belongs to.
type TeamSide string

const (
	SideHome TeamSide = "home"
	SideAway TeamSide = "away"
)

// Envelope is the generic message frame on the engine socket.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// --- Outgoing commands ---

// CommandPayload is the "on_ball_action" command body. Exactly one of the
// target field groups is populated, or AutoTarget is set, or none of them
// (untargeted actions such as hold).
type CommandPayload struct {
	Cmd     string `json:"cmd"` // always "on_ball_action"
	Action  string `json:"action"`
	Variant string `json:"variant,omitempty"`

	TargetTrackID   *int     `json:"target_track_id,omitempty"`
	TargetPoint     *PointXY `json:"target_point,omitempty"`
	DirectionDX     *float64 `json:"direction_dx,omitempty"`
	DirectionDY     *float64 `json:"direction_dy,omitempty"`
	DirectionMeters *float64 `json:"direction_meters,omitempty"`
	AutoTarget      bool     `json:"auto_target,omitempty"`
}

// PointXY is a field-space coordinate in meters.
type PointXY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UserCommand is the single-agent command envelope.
type UserCommand struct {
	Mode              string         `json:"mode"` // always "career_player"
	Side              TeamSide       `json:"side"`
	ControlledTrackID int            `json:"controlled_track_id"`
	Payload           CommandPayload `json:"payload"`
}

// MultiAgentCommand routes a command through a registered controller slot.
type MultiAgentCommand struct {
	ControllerID int            `json:"controller_id"`
	Payload      CommandPayload `json:"payload"`
}

// RegisterController is the one-time controller-slot binding handshake.
type RegisterController struct {
	ControllerID int      `json:"controller_id"`
	Side         TeamSide `json:"side"`
	PlayerSlot   int      `json:"player_slot"`
}

// RegisterControllerResult is the engine's reply to RegisterController.
type RegisterControllerResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// --- Incoming snapshots ---

// Snapshot is one frame of the streaming match state. The engine has shipped
// several ball-ownership encodings over time; BallOwner resolves them in a
// fixed precedence order rather than requiring any single one.
type Snapshot struct {
	Tick        uint64 `json:"tick"`
	TimestampMs int64  `json:"timestamp_ms"`

	// Ownership, most recent schema first. OwnerID is the legacy field and
	// keeps its loose-ball sentinel (-1).
	BallOwnerTrackID *int `json:"ball_owner_track_id,omitempty"`
	OwnerID          *int `json:"owner_id,omitempty"`

	// Player table keyed by track id (JSON object keys are strings).
	Players map[string]PlayerSnap `json:"players"`
}

// PlayerSnap is one player's entry in the snapshot table. The engine emits
// positions either as an {x, y} object or as a bare [x, y] pair; both decode
// into the same struct.
type PlayerSnap struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	HasBall bool     `json:"has_ball,omitempty"`
	Role    string   `json:"role,omitempty"`
	Side    TeamSide `json:"side,omitempty"`
}

// UnmarshalJSON accepts the object form and the legacy [x, y] pair form.
func (p *PlayerSnap) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err == nil {
		p.X, p.Y = pair[0], pair[1]
		return nil
	}
	type alias PlayerSnap
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("player snap: %w", err)
	}
	*p = PlayerSnap(a)
	return nil
}

// BallOwner resolves the owning track id, trying the explicit field, then the
// legacy field, then the per-player has_ball flag. A negative id in either
// field means loose ball. Returns ok=false when no encoding yields an owner;
// an unresolvable owner is never an error.
func (s *Snapshot) BallOwner() (int, bool) {
	if s.BallOwnerTrackID != nil {
		if id := *s.BallOwnerTrackID; id >= 0 {
			return id, true
		}
		return 0, false
	}
	if s.OwnerID != nil {
		if id := *s.OwnerID; id >= 0 {
			return id, true
		}
		return 0, false
	}
	for key, p := range s.Players {
		if !p.HasBall {
			continue
		}
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err == nil {
			return id, true
		}
	}
	return 0, false
}

// Player looks up a player entry by numeric track id.
func (s *Snapshot) Player(trackID int) (PlayerSnap, bool) {
	p, ok := s.Players[fmt.Sprintf("%d", trackID)]
	return p, ok
}
