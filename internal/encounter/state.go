// Package encounter runs one fishing encounter from cast to result.
//
// The engine is synchronous and owns no goroutines or timers: the host
// advances it with Update once per simulation step and learns about results
// through the callbacks it supplies.
package encounter

import "github.com/xtding233/fishing-backend/internal/fishing"

// State tags the encounter phase.
type State string

const (
	StateIdle           State = "idle"
	StateReady          State = "ready"
	StateCasting        State = "casting"
	StateWaitingForBite State = "waiting_for_bite"
	StateHooked         State = "hooked"
	StateMinigame       State = "minigame"
	StateResultSuccess  State = "result_success"
	StateResultFail     State = "result_fail"
)

// Failure reasons reported through Snapshot and Outcome.
const (
	ReasonNoBait      = "no bait equipped"
	ReasonBaitRanOut  = "bait ran out"
	ReasonEscaped     = "the fish escaped"
	ReasonGaveUp      = "gave up"
	ReasonEmptyPool   = "no fish in this zone"
	ReasonMissingCast = "cast data missing"
	ReasonMissingReel = "minigame state missing"
)

// Outcome is reported once per encounter resolution.
type Outcome struct {
	Fish    *fishing.Fish `json:"fish,omitempty"`
	Success bool          `json:"success"`
	Reason  string        `json:"reason,omitempty"`
}

// Callbacks are the host's hooks into the engine.
type Callbacks struct {
	// ConsumeBait is called at the hook moment; false means no bait was left.
	ConsumeBait func() bool
	// Outcome is called exactly once when an encounter resolves.
	Outcome func(Outcome)
	// StateChanged, if set, receives every snapshot.
	StateChanged func(Snapshot)
}

// MinigameSnapshot is the render view of the reel minigame.
type MinigameSnapshot struct {
	Progress       float64 `json:"progress"`
	BarPosition    float64 `json:"barPosition"`
	BarWidth       float64 `json:"barWidth"`
	TargetPosition float64 `json:"targetPosition"`
	TargetWidth    float64 `json:"targetWidth"`
	EscapeSeconds  float64 `json:"escapeSeconds"`
	Overlapping    bool    `json:"overlapping"`
	MissGrace      float64 `json:"missGrace"`
}

// Snapshot is everything a presentation layer needs.
type Snapshot struct {
	State          State                 `json:"state"`
	BiteInSeconds  float64               `json:"biteInSeconds,omitempty"`
	Fish           *fishing.Fish         `json:"fish,omitempty"`
	Minigame       *MinigameSnapshot     `json:"minigame,omitempty"`
	FailureReason  string                `json:"failureReason,omitempty"`
	LastSuccess    bool                  `json:"lastSuccess"`
	LuckMultiplier float64               `json:"luckMultiplier,omitempty"`
	Odds           fishing.RarityWeights `json:"odds,omitempty"`
}
