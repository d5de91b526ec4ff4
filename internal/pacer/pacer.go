// Package pacer provides the suspension primitive between animation steps.
//
// A Pacer never aborts a sleep that has started. It checks the stop flag
// immediately before and immediately after each sleep, so a stop requested
// mid-sleep is observed as soon as the sleep returns.
package pacer

import (
	"errors"
	"math"
	"sync/atomic"
	"time"
)

var (
	// ErrCancelled is returned by Wait when a stop was requested.
	ErrCancelled = errors.New("pacer: run cancelled")

	// ErrInvalidDelay indicates a non-positive delay.
	ErrInvalidDelay = errors.New("pacer: delay must be positive")
)

const (
	MinSpeed = 1
	MaxSpeed = 50

	SlowestDelay = 700 * time.Millisecond
	FastestDelay = 20 * time.Millisecond
)

// Canceller exposes the stop flag of the active run.
type Canceller interface {
	Cancelled() bool
}

// Sleeper suspends the caller.
type Sleeper interface {
	Sleep(d time.Duration)
}

// RealSleeper sleeps on the wall clock.
type RealSleeper struct{}

func (RealSleeper) Sleep(d time.Duration) {
	t := time.NewTimer(d)
	<-t.C
}

// Instant returns immediately. Headless runs and tests use it.
type Instant struct{}

func (Instant) Sleep(time.Duration) {}

// Flag is a Canceller that can be set from any goroutine.
type Flag struct {
	set atomic.Bool
}

func (f *Flag) Cancel()         { f.set.Store(true) }
func (f *Flag) Cancelled() bool { return f.set.Load() }

type Pacer struct {
	delay   atomic.Int64
	cancel  Canceller
	sleeper Sleeper

	waits atomic.Int64
	slept atomic.Int64
}

// New builds a pacer. A nil canceller never cancels and a nil sleeper sleeps
// on the wall clock.
func New(delay time.Duration, cancel Canceller, sleeper Sleeper) (*Pacer, error) {
	if delay <= 0 {
		return nil, ErrInvalidDelay
	}
	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	p := &Pacer{cancel: cancel, sleeper: sleeper}
	p.delay.Store(int64(delay))
	return p, nil
}

func (p *Pacer) Delay() time.Duration {
	return time.Duration(p.delay.Load())
}

// SetDelay changes the delay used by subsequent waits.
func (p *Pacer) SetDelay(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidDelay
	}
	p.delay.Store(int64(d))
	return nil
}

// Checkpoint reports ErrCancelled if a stop was requested.
func (p *Pacer) Checkpoint() error {
	if p.cancel != nil && p.cancel.Cancelled() {
		return ErrCancelled
	}
	return nil
}

// Wait suspends for the current delay.
func (p *Pacer) Wait() error {
	return p.WaitFor(p.Delay())
}

// WaitFor suspends for d, bracketed by checkpoints.
func (p *Pacer) WaitFor(d time.Duration) error {
	if err := p.Checkpoint(); err != nil {
		return err
	}
	if d > 0 {
		p.sleeper.Sleep(d)
		p.slept.Add(int64(d))
	}
	p.waits.Add(1)
	return p.Checkpoint()
}

// Waits is the number of completed suspensions.
func (p *Pacer) Waits() int { return int(p.waits.Load()) }

// Slept is the total requested suspension time.
func (p *Pacer) Slept() time.Duration { return time.Duration(p.slept.Load()) }

// DelayForSpeed maps a speed control in [MinSpeed, MaxSpeed] onto
// [SlowestDelay, FastestDelay]; higher speed means a shorter delay.
func DelayForSpeed(speed int) time.Duration {
	if speed < MinSpeed {
		speed = MinSpeed
	}
	if speed > MaxSpeed {
		speed = MaxSpeed
	}
	maxMs := float64(SlowestDelay / time.Millisecond)
	minMs := float64(FastestDelay / time.Millisecond)
	step := (maxMs - minMs) / float64(MaxSpeed-MinSpeed)
	ms := math.Round(maxMs - float64(speed-MinSpeed)*step)
	return time.Duration(ms) * time.Millisecond
}

// Scale returns d divided by div, rounded to the nearest millisecond when d
// is at least a millisecond.
func Scale(d time.Duration, div float64) time.Duration {
	if div <= 0 {
		return d
	}
	if d >= time.Millisecond {
		ms := math.Round(float64(d/time.Millisecond) / div)
		return time.Duration(ms) * time.Millisecond
	}
	return time.Duration(math.Round(float64(d) / div))
}
