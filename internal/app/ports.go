package app

import (
	"context"

	"github.com/hylla/tavla/internal/domain"
)

// Slot keys used by the board.
const (
	KeyTasks    = "tasks"
	KeyLanguage = "lang"
	KeyTheme    = "theme"
)

// SlotStore persists opaque values under fixed keys.
// ReadSlot returns ErrSlotNotFound when nothing has been written under key.
type SlotStore interface {
	ReadSlot(ctx context.Context, key string) ([]byte, error)
	WriteSlot(ctx context.Context, key string, value []byte) error
}

// ActivityLog records board changes for later inspection.
type ActivityLog interface {
	RecordChange(context.Context, domain.ChangeEvent) error
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
}

// Logger receives non-fatal diagnostics. *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Warn(msg any, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(any, ...any) {}
