// Package playback converts wall-clock frame timestamps into a looping
// (step, t) position over a fixed number of trajectory steps.
package playback

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned when a clock cannot start without producing NaN state.
var ErrInvalidConfig = errors.New("playback: invalid clock configuration")

// ErrInvalidSpeed is returned for non-positive or non-finite speed multipliers.
var ErrInvalidSpeed = errors.New("playback: speed must be positive")

// Config describes one clock.
type Config struct {
	StepDuration float64 // Simulated seconds per step
	StepCount    int     // Number of steps before looping
	TimeScale    float64 // Simulated seconds per wall second at 1x
	Speed        float64 // Initial speed multiplier
	InitialStep  int     // Step seeded on the first Advance
	Playing      bool    // Start playing instead of paused
}

// Position is the clock output for one frame.
type Position struct {
	Step        int
	T           float64 // Interpolation factor in [0, 1)
	Accumulated float64 // Simulated seconds since step 0
	Wrapped     bool    // Set on the tick that looped back to step 0
}

// Progress returns the position as a fraction of the whole sequence.
func (p Position) Progress(stepCount int) float64 {
	if stepCount <= 0 {
		return 0
	}
	return float64(p.Step) / float64(stepCount)
}

// Clock owns the playback state for a single scene.
// It is not safe for concurrent use.
type Clock struct {
	stepDuration float64
	stepCount    int
	timeScale    float64
	initialStep  int

	playing     bool
	speed       float64
	accumulated float64
	lastWall    float64
	latched     bool
}

// NewClock validates cfg and returns a clock that has not yet latched a wall time.
func NewClock(cfg Config) (*Clock, error) {
	switch {
	case !(cfg.StepDuration > 0) || math.IsInf(cfg.StepDuration, 0):
		return nil, fmt.Errorf("%w: step duration %g", ErrInvalidConfig, cfg.StepDuration)
	case cfg.StepCount <= 0:
		return nil, fmt.Errorf("%w: step count %d", ErrInvalidConfig, cfg.StepCount)
	case !(cfg.TimeScale > 0) || math.IsInf(cfg.TimeScale, 0):
		return nil, fmt.Errorf("%w: time scale %g", ErrInvalidConfig, cfg.TimeScale)
	case !validSpeed(cfg.Speed):
		return nil, fmt.Errorf("%w: speed %g", ErrInvalidConfig, cfg.Speed)
	case cfg.InitialStep < 0 || cfg.InitialStep >= cfg.StepCount:
		return nil, fmt.Errorf("%w: initial step %d outside [0, %d)", ErrInvalidConfig, cfg.InitialStep, cfg.StepCount)
	}

	return &Clock{
		stepDuration: cfg.StepDuration,
		stepCount:    cfg.StepCount,
		timeScale:    cfg.TimeScale,
		initialStep:  cfg.InitialStep,
		playing:      cfg.Playing,
		speed:        cfg.Speed,
	}, nil
}

func validSpeed(s float64) bool {
	return s > 0 && !math.IsInf(s, 0)
}

// Playing reports whether the clock advances with wall time.
func (c *Clock) Playing() bool { return c.playing }

// Speed returns the current speed multiplier.
func (c *Clock) Speed() float64 { return c.speed }

// StepCount returns the number of steps in one loop.
func (c *Clock) StepCount() int { return c.stepCount }

// StepDuration returns the simulated seconds per step.
func (c *Clock) StepDuration() float64 { return c.stepDuration }

// LoopDuration returns the wall seconds one pass over the sequence takes at
// the current speed.
func (c *Clock) LoopDuration() float64 {
	return float64(c.stepCount) * c.stepDuration / (c.speed * c.timeScale)
}

// Advance moves the clock to wall (seconds) and returns the new position.
// The first call latches wall and seeds the initial step.
func (c *Clock) Advance(wall float64) Position {
	if !c.latched {
		c.latch(wall)
		c.accumulated = float64(c.initialStep) * c.stepDuration
		return c.position(wall)
	}
	if c.playing {
		c.accumulated += (wall - c.lastWall) * c.speed * c.timeScale
		c.lastWall = wall
	}
	return c.position(wall)
}

// Current returns the position for the accumulated time without advancing.
// Before the first Advance it reports the initial step.
func (c *Clock) Current() Position {
	if !c.latched {
		return Position{Step: c.initialStep, Accumulated: float64(c.initialStep) * c.stepDuration}
	}
	step := int(math.Floor(c.accumulated / c.stepDuration))
	if step >= c.stepCount {
		step = c.stepCount - 1
	}
	return Position{
		Step:        step,
		T:           c.fraction(),
		Accumulated: c.accumulated,
	}
}

// Scrub jumps to fraction f of the sequence and re-latches the wall clock.
// f is clamped to [0, 1]; f = 1 lands on the last step.
func (c *Clock) Scrub(f, wall float64) Position {
	if math.IsNaN(f) || f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	step := int(math.Floor(f * float64(c.stepCount)))
	if step >= c.stepCount {
		step = c.stepCount - 1
	}
	c.accumulated = float64(step) * c.stepDuration
	c.latch(wall)
	return Position{Step: step, T: 0, Accumulated: c.accumulated}
}

// SetSpeed changes the multiplier. While playing, time elapsed since the last
// tick is first applied at the old multiplier and the wall clock re-latched,
// so nothing is double counted or skipped on the next Advance.
func (c *Clock) SetSpeed(speed, wall float64) error {
	if !validSpeed(speed) {
		return fmt.Errorf("%w: got %g", ErrInvalidSpeed, speed)
	}
	if c.latched {
		c.fold(wall)
	}
	c.speed = speed
	return nil
}

// Play resumes playback. Wall time spent paused is never applied.
func (c *Clock) Play(wall float64) {
	if c.playing {
		return
	}
	c.playing = true
	if c.latched {
		c.lastWall = wall
	}
}

// Pause freezes playback after applying time elapsed since the last tick.
func (c *Clock) Pause(wall float64) {
	if !c.playing {
		return
	}
	if c.latched {
		c.fold(wall)
	}
	c.playing = false
}

// Toggle flips between playing and paused and reports the new state.
func (c *Clock) Toggle(wall float64) bool {
	if c.playing {
		c.Pause(wall)
	} else {
		c.Play(wall)
	}
	return c.playing
}

// fold applies elapsed wall time at the current speed and re-latches.
func (c *Clock) fold(wall float64) {
	if c.playing {
		c.accumulated += (wall - c.lastWall) * c.speed * c.timeScale
		c.position(wall)
	}
	c.lastWall = wall
}

func (c *Clock) latch(wall float64) {
	c.lastWall = wall
	c.latched = true
}

// position derives (step, t) and loops back to zero past the last step.
func (c *Clock) position(wall float64) Position {
	step := int(math.Floor(c.accumulated / c.stepDuration))
	wrapped := false
	if step >= c.stepCount {
		c.accumulated = 0
		step = 0
		c.lastWall = wall
		wrapped = true
	}
	return Position{
		Step:        step,
		T:           c.fraction(),
		Accumulated: c.accumulated,
		Wrapped:     wrapped,
	}
}

func (c *Clock) fraction() float64 {
	t := math.Mod(c.accumulated, c.stepDuration) / c.stepDuration
	if t < 0 {
		t += 1
	}
	return t
}
