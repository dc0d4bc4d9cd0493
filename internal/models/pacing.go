package models

import "time"

// InteractionStep is one timed pseudo-action in a pacing plan. The
// adapter decides what the action means mechanically; the engine only
// supplies the timing.
type InteractionStep struct {
	Action string        `json:"action"`
	Pause  time.Duration `json:"pause"`
}

// PacingHints shape a single fetch attempt: the request headers to
// present and the timed pseudo-interactions to play back between the
// adapter's internal steps. Sites penalize bursty, uniform traffic, so
// hints are randomized per attempt.
type PacingHints struct {
	UserAgent      string            `json:"user_agent"`
	AcceptLanguage string            `json:"accept_language"`
	Interactions   []InteractionStep `json:"interactions,omitempty"`
}
