package playback

import "fmt"

// Command is a control input dispatched into a Clock between frames.
type Command interface {
	apply(c *Clock, wall float64) (Position, error)
	String() string
}

// Play resumes playback.
type Play struct{}

// Pause freezes playback.
type Pause struct{}

// TogglePlay flips between playing and paused.
type TogglePlay struct{}

// SetSpeed changes the speed multiplier.
type SetSpeed struct {
	Speed float64
}

// ScrubTo jumps to a fraction of the sequence.
type ScrubTo struct {
	Fraction float64
}

func (Play) apply(c *Clock, wall float64) (Position, error) {
	c.Play(wall)
	return c.Current(), nil
}

func (Pause) apply(c *Clock, wall float64) (Position, error) {
	c.Pause(wall)
	return c.Current(), nil
}

func (TogglePlay) apply(c *Clock, wall float64) (Position, error) {
	c.Toggle(wall)
	return c.Current(), nil
}

func (s SetSpeed) apply(c *Clock, wall float64) (Position, error) {
	if err := c.SetSpeed(s.Speed, wall); err != nil {
		return c.Current(), err
	}
	return c.Current(), nil
}

func (s ScrubTo) apply(c *Clock, wall float64) (Position, error) {
	return c.Scrub(s.Fraction, wall), nil
}

func (Play) String() string       { return "play" }
func (Pause) String() string      { return "pause" }
func (TogglePlay) String() string { return "toggle" }
func (s SetSpeed) String() string { return fmt.Sprintf("speed(%g)", s.Speed) }
func (s ScrubTo) String() string  { return fmt.Sprintf("scrub(%g)", s.Fraction) }

// Apply dispatches cmd at wall time and returns the resulting position.
func (c *Clock) Apply(cmd Command, wall float64) (Position, error) {
	if cmd == nil {
		return c.Current(), nil
	}
	return cmd.apply(c, wall)
}
