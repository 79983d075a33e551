package tui

import "time"

// BoardConfig holds the board display toggles.
type BoardConfig struct {
	ShowProgress    bool
	ShowLabels      bool
	ShowDescription bool
}

// Option configures a Model.
type Option func(*Model)

// DefaultBoardConfig returns the default board display toggles.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		ShowProgress:    true,
		ShowLabels:      true,
		ShowDescription: false,
	}
}

// WithBoardConfig sets the board display toggles.
func WithBoardConfig(cfg BoardConfig) Option {
	return func(m *Model) {
		m.board = cfg
	}
}

// WithDeleteFade sets how long a deleted row fades before it is removed. Zero removes immediately.
func WithDeleteFade(d time.Duration) Option {
	return func(m *Model) {
		if d >= 0 {
			m.deleteFade = d
		}
	}
}

// WithCelebrationDuration sets how long the completion overlay stays up. Zero keeps it until dismissed.
func WithCelebrationDuration(d time.Duration) Option {
	return func(m *Model) {
		if d >= 0 {
			m.celebrationFor = d
		}
	}
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithNow replaces the clock used for relative ages.
func WithNow(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithKeyConfig applies user key overrides.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}
