package encounter

import (
	"errors"
	"log/slog"
	"math"

	"github.com/xtding233/fishing-backend/internal/fishing"
)

// Options configures an Engine. Zero Tuning fields take the DefaultTuning
// value; a nil RNG or Logger falls back to the package defaults.
type Options struct {
	Tuning Tuning
	RNG    fishing.RandomSource
	Logger *slog.Logger
}

// cast is the equipment captured by StartCast.
type cast struct {
	rod  fishing.Rod
	bait fishing.Bait
	pool []fishing.Fish
	zone string
}

// Engine owns a single encounter at a time.
type Engine struct {
	tuning Tuning
	rng    fishing.RandomSource
	log    *slog.Logger
	cb     Callbacks

	state State
	timer float64 // countdown for casting, waiting_for_bite and hooked

	cast *cast
	fish *fishing.Fish
	reel *minigameState

	luck          float64
	odds          fishing.RarityWeights
	failureReason string
	lastSuccess   bool
}

// NewEngine builds an engine in StateIdle.
func NewEngine(cb Callbacks, opts Options) *Engine {
	opts.Tuning = opts.Tuning.withDefaults()
	if opts.RNG == nil {
		opts.RNG = fishing.DefaultRNG()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		tuning: opts.Tuning,
		rng:    opts.RNG,
		log:    opts.Logger,
		cb:     cb,
		state:  StateIdle,
	}
}

// State returns the current state tag.
func (e *Engine) State() State { return e.state }

// Snapshot projects the engine for presentation.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:         e.state,
		FailureReason: e.failureReason,
		LastSuccess:   e.lastSuccess,
	}
	if e.state == StateWaitingForBite {
		s.BiteInSeconds = math.Max(0, e.timer)
	}
	if e.fish != nil {
		f := *e.fish
		s.Fish = &f
		s.LuckMultiplier = e.luck
		s.Odds = e.odds
	}
	if e.reel != nil {
		s.Minigame = e.reel.snapshot(e.tuning)
	}
	return s
}

func (e *Engine) emit() {
	if e.cb.StateChanged != nil {
		e.cb.StateChanged(e.Snapshot())
	}
}

func (e *Engine) transition(next State) {
	if next != e.state {
		e.log.Debug("encounter transition", "from", e.state, "to", next)
	}
	e.state = next
	e.emit()
}

// clearEncounter drops everything tied to the current encounter.
func (e *Engine) clearEncounter() {
	e.timer = 0
	e.cast = nil
	e.fish = nil
	e.reel = nil
	e.luck = 0
	e.odds = nil
}

// Open moves idle to ready. It is a no-op in any other state.
func (e *Engine) Open() bool {
	if e.state != StateIdle {
		return false
	}
	e.failureReason = ""
	e.transition(StateReady)
	return true
}

// StartCast begins an encounter. It only works from StateReady and requires
// baitQuantity > 0; otherwise it returns false and stays put.
func (e *Engine) StartCast(rod fishing.Rod, bait fishing.Bait, pool []fishing.Fish, baitQuantity int, zone string) bool {
	if e.state != StateReady {
		e.log.Debug("cast rejected", "state", e.state)
		return false
	}
	if baitQuantity <= 0 {
		e.failureReason = ReasonNoBait
		e.lastSuccess = false
		e.log.Info("cast rejected", "reason", ReasonNoBait, "bait", bait.ID)
		e.emit()
		return false
	}

	e.clearEncounter()
	e.cast = &cast{
		rod:  rod,
		bait: bait,
		pool: append([]fishing.Fish(nil), pool...),
		zone: zone,
	}
	e.failureReason = ""
	e.timer = e.tuning.CastDelaySeconds
	e.transition(StateCasting)
	return true
}

// Update advances the encounter by dtSeconds. At most one state boundary is
// crossed per call.
func (e *Engine) Update(dtSeconds float64, holdInputActive bool) {
	if math.IsNaN(dtSeconds) || dtSeconds < 0 {
		dtSeconds = 0
	}

	switch e.state {
	case StateCasting:
		if e.cast == nil {
			e.fail(ReasonMissingCast)
			return
		}
		e.timer -= dtSeconds
		if e.timer <= 0 {
			e.timer = fishing.Uniform(e.rng, e.tuning.BiteMinSeconds, e.tuning.BiteMaxSeconds)
			e.transition(StateWaitingForBite)
		}

	case StateWaitingForBite:
		if e.cast == nil {
			e.fail(ReasonMissingCast)
			return
		}
		e.timer -= dtSeconds
		if e.timer <= 0 {
			e.hook()
			return
		}
		e.emit()

	case StateHooked:
		if e.cast == nil || e.fish == nil {
			e.fail(ReasonMissingCast)
			return
		}
		e.timer -= dtSeconds
		if e.timer <= 0 {
			e.timer = 0
			e.reel = newMinigameState(e.tuning, *e.fish, e.cast.rod, e.rng)
			e.transition(StateMinigame)
		}

	case StateMinigame:
		if e.reel == nil || e.fish == nil {
			e.fail(ReasonMissingReel)
			return
		}
		e.reel.step(e.tuning, dtSeconds, holdInputActive, e.rng)
		switch {
		case e.reel.progress >= 1:
			e.succeed()
		case e.reel.escape <= 0:
			e.fail(ReasonEscaped)
		default:
			e.emit()
		}
	}
}

// hook consumes bait and rolls the fish.
func (e *Engine) hook() {
	if e.cb.ConsumeBait != nil && !e.cb.ConsumeBait() {
		e.fail(ReasonBaitRanOut)
		return
	}
	res, err := fishing.RollFish(fishing.RollInput{
		Rod:  e.cast.rod,
		Bait: e.cast.bait,
		Pool: e.cast.pool,
		Zone: e.cast.zone,
	}, e.rng)
	if err != nil {
		if errors.Is(err, fishing.ErrEmptyPool) {
			e.fail(ReasonEmptyPool)
		} else {
			e.fail(err.Error())
		}
		return
	}
	fish := res.Fish
	e.fish = &fish
	e.luck = res.LuckMultiplier
	e.odds = res.Distribution
	e.timer = e.tuning.HookSettleSecs
	e.log.Debug("fish hooked", "fish", fish.ID, "rarity", res.Rarity, "luck", res.LuckMultiplier, "zone", e.cast.zone)
	e.transition(StateHooked)
}

func (e *Engine) succeed() {
	fish := *e.fish
	e.reel = nil
	e.timer = 0
	e.lastSuccess = true
	e.failureReason = ""
	e.log.Info("fish caught", "fish", fish.ID, "rarity", fish.Rarity)
	e.transition(StateResultSuccess)
	if e.cb.Outcome != nil {
		e.cb.Outcome(Outcome{Fish: &fish, Success: true})
	}
}

// fail resolves the encounter with reason and reports it.
func (e *Engine) fail(reason string) {
	var fish *fishing.Fish
	if e.fish != nil {
		f := *e.fish
		fish = &f
	}
	e.reel = nil
	e.timer = 0
	e.lastSuccess = false
	e.failureReason = reason
	e.log.Info("encounter failed", "reason", reason, "state", e.state)
	e.transition(StateResultFail)
	if e.cb.Outcome != nil {
		e.cb.Outcome(Outcome{Fish: fish, Success: false, Reason: reason})
	}
}

// CancelWaiting returns to ready from casting or waiting_for_bite. No bait
// has been spent at that point.
func (e *Engine) CancelWaiting() bool {
	if e.state != StateCasting && e.state != StateWaitingForBite {
		return false
	}
	e.clearEncounter()
	e.failureReason = ""
	e.transition(StateReady)
	return true
}

// GiveUpMinigame abandons the reel. The bait spent at hook is not refunded.
func (e *Engine) GiveUpMinigame() bool {
	if e.state != StateMinigame {
		return false
	}
	e.fail(ReasonGaveUp)
	return true
}

// Retry goes from a result back to ready.
func (e *Engine) Retry() bool {
	if e.state != StateResultSuccess && e.state != StateResultFail {
		return false
	}
	e.clearEncounter()
	e.failureReason = ""
	e.transition(StateReady)
	return true
}

// CloseToIdle drops all runtime state from any state.
func (e *Engine) CloseToIdle() {
	e.clearEncounter()
	e.failureReason = ""
	e.lastSuccess = false
	e.transition(StateIdle)
}
