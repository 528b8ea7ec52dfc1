package internal

import (
	"fmt"
	"time"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config           *Config
	reminderInterval time.Duration
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithReminderInterval overrides the due-reminder scan cadence. Values at or
// below zero keep the default.
func WithReminderInterval(d time.Duration) Option {
	return func(a *application) {
		a.reminderInterval = d
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}
