// Package netcfg resolves engine endpoints and client options from the
// environment.
package netcfg

import "github.com/caarlos0/env/v11"

// Config holds everything the client reads from the environment. Gameplay
// tuning lives in code; only deployment-specific knobs belong here.
type Config struct {
	// EngineWSURL is the match engine's websocket endpoint. The same socket
	// carries snapshots in and commands out.
	EngineWSURL string `env:"OFC_ENGINE_WS_URL" envDefault:"ws://127.0.0.1:9977/feed"`

	// ControlledTrackID is the track id of the player this client steers.
	// Side is "home" or "away".
	ControlledTrackID int    `env:"OFC_CONTROLLED_TRACK_ID" envDefault:"9"`
	Side              string `env:"OFC_SIDE" envDefault:"home"`

	// ControllerID enables multi-agent routing when >= 0. The client then
	// registers the (controller, side, slot) binding before its first command.
	ControllerID int `env:"OFC_CONTROLLER_ID" envDefault:"-1"`
	PlayerSlot   int `env:"OFC_PLAYER_SLOT" envDefault:"0"`

	// Muted disables the audio pulse feedback.
	Muted bool `env:"OFC_MUTED" envDefault:"false"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var c Config
	err := env.Parse(&c)
	return c, err
}
