package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/transfermarket/platform/internal/domain"
)

func TestWindowOpen(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	covering := domain.TransferWindow{
		StartAt: now.Add(-24 * time.Hour),
		EndAt:   now.Add(24 * time.Hour),
	}

	t.Run("no windows", func(t *testing.T) {
		assert.False(t, WindowOpen(nil, now))
	})

	t.Run("open and covering", func(t *testing.T) {
		w := covering
		w.IsOpen = true
		assert.True(t, WindowOpen([]domain.TransferWindow{w}, now))
	})

	t.Run("covering but flagged closed", func(t *testing.T) {
		w := covering
		w.IsOpen = false
		assert.False(t, WindowOpen([]domain.TransferWindow{w}, now))
	})

	t.Run("open but expired", func(t *testing.T) {
		w := domain.TransferWindow{
			StartAt: now.Add(-48 * time.Hour),
			EndAt:   now.Add(-24 * time.Hour),
			IsOpen:  true,
		}
		assert.False(t, WindowOpen([]domain.TransferWindow{w}, now))
	})

	t.Run("open but not started", func(t *testing.T) {
		w := domain.TransferWindow{
			StartAt: now.Add(time.Hour),
			EndAt:   now.Add(48 * time.Hour),
			IsOpen:  true,
		}
		assert.False(t, WindowOpen([]domain.TransferWindow{w}, now))
	})

	t.Run("one open among closed", func(t *testing.T) {
		closed := covering
		closed.IsOpen = false
		open := covering
		open.IsOpen = true
		assert.True(t, WindowOpen([]domain.TransferWindow{closed, open, closed}, now))
	})

	t.Run("boundaries inclusive", func(t *testing.T) {
		w := domain.TransferWindow{StartAt: now, EndAt: now, IsOpen: true}
		assert.True(t, WindowOpen([]domain.TransferWindow{w}, now))
	})
}
