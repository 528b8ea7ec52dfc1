package noteservice

import (
	"fmt"
	"log/slog"

	"github.com/marwold/stickpad/internal/apperr"
	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/store"
	"github.com/marwold/stickpad/internal/timer"
)

// Preset durations in seconds.
const (
	pomodoroSeconds   = 25 * 60
	shortBreakSeconds = 5 * 60
	longBreakSeconds  = 15 * 60

	minCustomMinutes = 1
	maxCustomMinutes = 999
)

// StartTimer starts a timer note's countdown. An expired timer restarts
// from its full duration. Starting a running timer is a no-op.
func (s *Service) StartTimer(id string) error {
	var remaining int
	err := s.updateTimer(id, func(n *models.Note) {
		if n.TimerRemaining <= 0 {
			n.TimerRemaining = n.TimerDuration
		}
		n.TimerRunning = true
		remaining = n.TimerRemaining
	})
	if err != nil {
		return err
	}
	s.timers.Start(id)
	s.broker.PublishTimer("started", id, remaining, true)
	s.timers.PushState(id, remaining, true)
	return nil
}

// PauseTimer stops the countdown, keeping the remaining time.
func (s *Service) PauseTimer(id string) error {
	var remaining int
	err := s.updateTimer(id, func(n *models.Note) {
		n.TimerRunning = false
		remaining = n.TimerRemaining
	})
	if err != nil {
		return err
	}
	s.timers.Stop(id)
	s.broker.PublishTimer("stopped", id, remaining, false)
	s.timers.PushState(id, remaining, false)
	return nil
}

// ResetTimer stops the countdown and restores the full duration.
func (s *Service) ResetTimer(id string) error {
	var remaining int
	err := s.updateTimer(id, func(n *models.Note) {
		n.TimerRunning = false
		n.TimerRemaining = n.TimerDuration
		remaining = n.TimerRemaining
	})
	if err != nil {
		return err
	}
	s.timers.Stop(id)
	s.broker.PublishTimer("stopped", id, remaining, false)
	s.timers.PushState(id, remaining, false)
	return nil
}

// SetTimerPreset switches a timer note to a preset and resets it. Custom
// durations are clamped to 1 through 999 minutes.
func (s *Service) SetTimerPreset(id, preset string, customMinutes int) error {
	var dur int
	switch preset {
	case models.TimerPomodoro:
		dur = pomodoroSeconds
	case models.TimerShortBreak:
		dur = shortBreakSeconds
	case models.TimerLongBreak:
		dur = longBreakSeconds
	case models.TimerCustom:
		m := customMinutes
		if m < minCustomMinutes {
			m = minCustomMinutes
		}
		if m > maxCustomMinutes {
			m = maxCustomMinutes
		}
		dur = m * 60
	default:
		return fmt.Errorf("noteservice: timer preset %q: %w", preset, apperr.ErrInvalidType)
	}
	err := s.updateTimer(id, func(n *models.Note) {
		n.TimerType = preset
		n.TimerDuration = dur
		n.TimerRemaining = dur
		n.TimerRunning = false
	})
	if err != nil {
		return err
	}
	s.timers.Stop(id)
	s.broker.PublishTimer("stopped", id, dur, false)
	s.timers.PushState(id, dur, false)
	return nil
}

// DetachTimer opens a live link mirroring one timer's state, for an
// always-on-top widget surface. Detaching an already detached timer
// replaces the previous link. Actions arriving on the link are applied by a
// dispatcher goroutine that lives as long as the link.
func (s *Service) DetachTimer(id string) (*timer.Link, error) {
	var remaining int
	var running bool
	err := s.updateTimer(id, func(n *models.Note) {
		n.Detached = true
		remaining = n.TimerRemaining
		running = n.TimerRunning
	})
	if err != nil {
		return nil, err
	}
	link := s.timers.Detach(id)
	go s.dispatchActions(link)
	link.Push(timer.State{NoteID: id, Remaining: remaining, Running: running})
	s.broker.PublishTimer("detached", id, remaining, running)
	return link, nil
}

// ReattachTimer closes a detached timer's link and returns its display to
// the main surface. Only the first reattach for a given link takes effect.
func (s *Service) ReattachTimer(id string) error {
	var remaining int
	var running bool
	err := s.updateTimer(id, func(n *models.Note) {
		n.Detached = false
		remaining = n.TimerRemaining
		running = n.TimerRunning
	})
	if err != nil {
		return err
	}
	if !s.timers.Reattach(id) {
		return nil
	}
	s.broker.PublishTimer("reattached", id, remaining, running)
	return nil
}

// ApplyTimerAction executes a detached-widget action against a timer note.
func (s *Service) ApplyTimerAction(id string, kind timer.ActionKind) error {
	switch kind {
	case timer.ActionToggle:
		n, err := s.GetNote(id)
		if err != nil {
			return err
		}
		if n.TimerRunning {
			return s.PauseTimer(id)
		}
		return s.StartTimer(id)
	case timer.ActionComplete:
		return s.completeTimer(id)
	case timer.ActionReturn:
		return s.ReattachTimer(id)
	default:
		return fmt.Errorf("noteservice: timer action %q: %w", kind, apperr.ErrInvalidType)
	}
}

// completeTimer forces an immediate expiry.
func (s *Service) completeTimer(id string) error {
	var preset string
	err := s.updateTimer(id, func(n *models.Note) {
		n.TimerRunning = false
		n.TimerRemaining = 0
		preset = n.TimerType
	})
	if err != nil {
		return err
	}
	s.timers.Stop(id)
	s.broker.PublishTimer("expired", id, 0, false)
	s.broker.PublishNotification("Timer Complete", timerDoneMessage(preset), id)
	s.timers.PushState(id, 0, false)
	return nil
}

func (s *Service) dispatchActions(link *timer.Link) {
	for {
		select {
		case a := <-link.Actions():
			if err := s.ApplyTimerAction(a.NoteID, a.Kind); err != nil {
				s.logger.Warn("timer action failed",
					slog.String("id", a.NoteID),
					slog.String("action", string(a.Kind)),
					slog.String("error", err.Error()))
			}
		case <-link.Done():
			return
		}
	}
}

func (s *Service) updateTimer(id string, fn func(n *models.Note)) error {
	return s.store.Update(func(d *store.Data) error {
		n := d.FindNote(id)
		if n == nil {
			return fmt.Errorf("noteservice: timer %s: %w", id, apperr.ErrNotFound)
		}
		if n.Type != models.TypeTimer {
			return fmt.Errorf("noteservice: timer %s: %w", id, apperr.ErrInvalidType)
		}
		fn(n)
		return nil
	})
}

// tick is the countdown step shared by every driver goroutine. It returns
// true when the driver should stop: either the note is gone or paused, or
// the countdown just hit zero.
func (s *Service) tick(id string) bool {
	var gone, expired bool
	var remaining int
	var preset string
	_ = s.store.Update(func(d *store.Data) error {
		n := d.FindNote(id)
		if n == nil || n.Type != models.TypeTimer || !n.TimerRunning {
			gone = true
			return nil
		}
		n.TimerRemaining--
		if n.TimerRemaining <= 0 {
			n.TimerRemaining = 0
			n.TimerRunning = false
			expired = true
			preset = n.TimerType
		}
		remaining = n.TimerRemaining
		return nil
	})
	switch {
	case gone:
		return true
	case expired:
		s.broker.PublishTimer("expired", id, 0, false)
		s.broker.PublishNotification("Timer Complete", timerDoneMessage(preset), id)
		s.timers.PushState(id, 0, false)
		return true
	default:
		s.broker.PublishTimer("tick", id, remaining, true)
		s.timers.PushState(id, remaining, true)
		return false
	}
}

func timerDoneMessage(preset string) string {
	switch preset {
	case models.TimerPomodoro:
		return "Pomodoro session completed! Time for a break."
	case models.TimerShortBreak:
		return "Short break over! Ready to focus again?"
	case models.TimerLongBreak:
		return "Long break finished! Feeling refreshed?"
	default:
		return "Timer completed!"
	}
}
