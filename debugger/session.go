// Package debugger is the terminal step debugger for g1 programs.
package debugger

import (
	"errors"
	"io"
	"time"

	"go.creack.net/g1/vm"
)

// Phase is the run the session is in.
type Phase int

const (
	PhaseIdle   Phase = iota // Between runs.
	PhaseStart               // Running the start procedure.
	PhaseTick                // Running the tick procedure.
	PhaseHalted              // Stopped by a runtime error.
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStart:
		return "start"
	case PhaseTick:
		return "tick"
	case PhaseHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// ErrHalted is returned when stepping a session stopped by an error.
var ErrHalted = errors.New("machine halted")

// Session drives a machine one instruction at a time.
type Session struct {
	M     *vm.Machine
	Phase Phase
	Ticks int
	Err   error // Runtime error that halted the session.

	now  func() time.Time
	last time.Time
}

// NewSession prepares the start run, if the program has one.
func NewSession(m *vm.Machine) *Session {
	s := &Session{M: m, now: time.Now}
	s.last = s.now()
	m.UpdateReserved(vm.Input{}, 0)
	if m.Program.Start != nil {
		m.PC = *m.Program.Start
		s.Phase = PhaseStart
		s.idleIfDone()
	}
	return s
}

func (s *Session) idleIfDone() {
	if s.M.Done() {
		s.Phase = PhaseIdle
	}
}

func (s *Session) halt(err error) error {
	s.Phase = PhaseHalted
	s.Err = err
	return err
}

// Step executes one instruction of the current run.
func (s *Session) Step() error {
	switch s.Phase {
	case PhaseHalted:
		return ErrHalted
	case PhaseIdle:
		return io.EOF
	}
	if err := s.M.Step(); err != nil && err != io.EOF {
		return s.halt(err)
	}
	s.idleIfDone()
	return nil
}

// Continue runs until the end of the current run.
func (s *Session) Continue() error {
	for s.Phase == PhaseStart || s.Phase == PhaseTick {
		if err := s.Step(); err != nil {
			return err
		}
	}
	if s.Phase == PhaseHalted {
		return ErrHalted
	}
	return nil
}

// NextTick begins a tick run. The reserved cells receive the wall clock
// delta since the previous run began. A run in progress is finished first.
func (s *Session) NextTick() error {
	if err := s.Continue(); err != nil {
		return err
	}
	if s.M.Program.Tick == nil {
		return io.EOF
	}
	now := s.now()
	s.M.UpdateReserved(vm.Input{}, int32(now.Sub(s.last).Milliseconds()))
	s.last = now
	s.M.PC = *s.M.Program.Tick
	s.Phase = PhaseTick
	s.Ticks++
	s.idleIfDone()
	return nil
}
