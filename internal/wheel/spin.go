package wheel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/prize-wheel/internal/logger"
)

const (
	DefaultFullTurns = 5
	DefaultDuration  = 5 * time.Second
)

var (
	// ErrFrameFault wraps a panic recovered from a frame step.
	ErrFrameFault = errors.New("wheel: frame step panicked")
	// ErrSpinActive is returned by operations that need an idle controller.
	ErrSpinActive = errors.New("wheel: spin in progress")
)

// AnimationState is the controller-owned spin state. Callers get copies.
type AnimationState struct {
	CurrentAngle        float64   // radians in [0, 2π)
	Active              bool      // a spin is in flight
	StartTimestamp      time.Time // zero until the first frame of a spin
	TargetTotalRotation float64   // fixed once a spin starts
	WinningIndex        int
}

// Options tunes a Controller. Start from DefaultOptions; Duration must be
// positive.
type Options struct {
	FullTurns int
	Duration  time.Duration

	// OnFrame runs after every angle update. A returned error or a panic
	// aborts the spin and is reported through the completion channel.
	OnFrame func(angle float64) error

	// OnComplete runs synchronously with the final frame, once per spin.
	OnComplete func(err error)
}

// DefaultOptions returns five full turns over five seconds.
func DefaultOptions() Options {
	return Options{FullTurns: DefaultFullTurns, Duration: DefaultDuration}
}

// Controller animates a wheel of a fixed slice count onto a winning slice.
//
// A Controller is driven by Advance, once per display tick, from a single
// goroutine. It holds no locks and must not be shared between goroutines.
// A running spin cannot be cancelled; it ends on its last frame or on a
// frame fault.
type Controller struct {
	sliceCount int
	opts       Options

	state     AnimationState
	lastFrame time.Time
	done      chan error
}

// NewController validates sliceCount and opts.
func NewController(sliceCount int, opts Options) (*Controller, error) {
	if sliceCount <= 0 {
		return nil, ErrInvalidSliceCount
	}
	if opts.FullTurns < 0 {
		return nil, fmt.Errorf("wheel: full turns must not be negative, got %d", opts.FullTurns)
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("wheel: spin duration must be positive, got %v", opts.Duration)
	}
	return &Controller{sliceCount: sliceCount, opts: opts}, nil
}

// TargetRotation is the total rotation that stops the wheel with the
// bisector of winningIndex under the pointer after fullTurns extra turns.
func TargetRotation(sliceCount, winningIndex, fullTurns int) (float64, error) {
	if sliceCount <= 0 {
		return 0, ErrInvalidSliceCount
	}
	if winningIndex < 0 || winningIndex >= sliceCount {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidWinningIndex, winningIndex, sliceCount-1)
	}
	span := sliceSpan(sliceCount)
	alignment := fullCircle - (float64(winningIndex)*span + span/2)
	return fullCircle*float64(fullTurns) + alignment, nil
}

// EaseOut is the quadratic ease-out curve from b to b+c over duration d,
// evaluated at elapsed time t.
func EaseOut(t, b, c, d float64) float64 {
	t /= d
	return -c*t*(t-2) + b
}

// Spin starts a spin that stops on winningIndex and returns a channel that
// receives the outcome once and is then closed.
//
// An out-of-range index fails with ErrInvalidWinningIndex and changes
// nothing. While a spin is active the call is a no-op that returns the
// in-flight spin's channel.
func (c *Controller) Spin(winningIndex int) (<-chan error, error) {
	target, err := TargetRotation(c.sliceCount, winningIndex, c.opts.FullTurns)
	if err != nil {
		return nil, err
	}
	if c.state.Active {
		logger.Debug("spin ignored, wheel already spinning", zap.Int("winning_index", winningIndex))
		return c.done, nil
	}

	c.state = AnimationState{
		CurrentAngle:        c.state.CurrentAngle,
		Active:              true,
		TargetTotalRotation: target,
		WinningIndex:        winningIndex,
	}
	c.lastFrame = time.Time{}
	c.done = make(chan error, 1)

	logger.Info("spin started",
		zap.Int("winning_index", winningIndex),
		zap.Float64("target", target),
		zap.Duration("duration", c.opts.Duration))
	return c.done, nil
}

// Advance runs one animation step for the display tick at now. Frames whose
// timestamp does not move past the previous frame are dropped. The angle is
// derived from elapsed time only, so skipped frames do not change where the
// wheel stops.
func (c *Controller) Advance(now time.Time) {
	if !c.state.Active {
		return
	}
	finished, err := c.step(now)
	if err != nil || finished {
		c.finish(err)
	}
}

func (c *Controller) step(now time.Time) (finished bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrFrameFault, r)
		}
	}()

	if c.state.StartTimestamp.IsZero() {
		c.state.StartTimestamp = now
	} else if !now.After(c.lastFrame) {
		return false, nil
	}
	c.lastFrame = now

	elapsed := now.Sub(c.state.StartTimestamp)
	if elapsed > c.opts.Duration {
		elapsed = c.opts.Duration
	}
	eased := EaseOut(float64(elapsed), 0, c.state.TargetTotalRotation, float64(c.opts.Duration))
	c.state.CurrentAngle = math.Mod(eased, fullCircle)

	if c.opts.OnFrame != nil {
		if err := c.opts.OnFrame(c.state.CurrentAngle); err != nil {
			return false, err
		}
	}
	return elapsed >= c.opts.Duration, nil
}

func (c *Controller) finish(err error) {
	done := c.done
	c.done = nil
	c.state.Active = false
	c.state.StartTimestamp = time.Time{}

	if err != nil {
		logger.Error("spin aborted", zap.Error(err), zap.Float64("angle", c.state.CurrentAngle))
	} else {
		logger.Info("spin finished",
			zap.Int("winning_index", c.state.WinningIndex),
			zap.Float64("angle", c.state.CurrentAngle))
	}

	if c.opts.OnComplete != nil {
		c.opts.OnComplete(err)
	}
	done <- err
	close(done)
}

// Angle is the current rotation in [0, 2π).
func (c *Controller) Angle() float64 { return c.state.CurrentAngle }

func (c *Controller) Active() bool { return c.state.Active }

func (c *Controller) SliceCount() int { return c.sliceCount }

// State returns a copy of the animation state.
func (c *Controller) State() AnimationState { return c.state }

// SetOptions replaces the timing and hooks of an idle controller.
func (c *Controller) SetOptions(opts Options) error {
	if c.state.Active {
		return ErrSpinActive
	}
	if opts.FullTurns < 0 {
		return fmt.Errorf("wheel: full turns must not be negative, got %d", opts.FullTurns)
	}
	if opts.Duration <= 0 {
		return fmt.Errorf("wheel: spin duration must be positive, got %v", opts.Duration)
	}
	c.opts = opts
	return nil
}

// SetSliceCount retargets an idle controller to a wheel with n slices,
// keeping the current angle.
func (c *Controller) SetSliceCount(n int) error {
	if n <= 0 {
		return ErrInvalidSliceCount
	}
	if c.state.Active {
		return ErrSpinActive
	}
	c.sliceCount = n
	return nil
}
