package noteservice

import (
	"fmt"
	"time"

	"github.com/marwold/stickpad/internal/apperr"
	"github.com/marwold/stickpad/internal/models"
	"github.com/marwold/stickpad/internal/sse"
	"github.com/marwold/stickpad/internal/store"
)

// A reminder fires only while now is within this window past its scheduled
// time. A reminder missed by more than the window stays silent.
const reminderTolerance = 2 * time.Minute

// CheckReminders scans the active notes for due reminders and fires each at
// most once. Firing publishes a reminder event and a notification.
func (s *Service) CheckReminders(now time.Time) {
	type hit struct {
		id      string
		message string
	}
	var hits []hit
	_ = s.store.Update(func(d *store.Data) error {
		for _, n := range d.Notes {
			if n.Type != models.TypeReminder || n.ReminderTriggered || n.ReminderDateTime == "" {
				continue
			}
			due, err := n.ReminderTime()
			if err != nil {
				continue
			}
			elapsed := now.Sub(due)
			if elapsed < 0 || elapsed >= reminderTolerance {
				continue
			}
			n.ReminderTriggered = true
			msg := n.ReminderMessage
			if msg == "" {
				msg = "Reminder!"
			}
			hits = append(hits, hit{id: n.ID, message: msg})
		}
		return nil
	})
	for _, h := range hits {
		s.broker.Publish(sse.Event{Type: "reminder.fired", Data: map[string]string{
			"id":      h.id,
			"message": h.message,
		}})
		s.broker.PublishNotification("Reminder", h.message, h.id)
	}
}

// ResetReminder re-arms a fired reminder so it can fire again at its next
// scheduled time.
func (s *Service) ResetReminder(id string) error {
	err := s.store.Update(func(d *store.Data) error {
		n := d.FindNote(id)
		if n == nil {
			return fmt.Errorf("noteservice: reminder %s: %w", id, apperr.ErrNotFound)
		}
		if n.Type != models.TypeReminder {
			return fmt.Errorf("noteservice: reminder %s: %w", id, apperr.ErrInvalidType)
		}
		n.ReminderTriggered = false
		return nil
	})
	if err != nil {
		return err
	}
	s.broker.PublishNote("updated", id)
	return nil
}

// FireReminder delivers a reminder's notification immediately, without
// consuming its scheduled fire.
func (s *Service) FireReminder(id string) error {
	n, err := s.GetNote(id)
	if err != nil {
		return err
	}
	if n.Type != models.TypeReminder {
		return fmt.Errorf("noteservice: reminder %s: %w", id, apperr.ErrInvalidType)
	}
	msg := n.ReminderMessage
	if msg == "" {
		msg = "Reminder!"
	}
	s.broker.PublishNotification("Reminder", msg, id)
	return nil
}
