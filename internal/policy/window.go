package policy

import (
	"time"

	"github.com/transfermarket/platform/internal/domain"
)

// WindowOpen reports whether the transfer market is open at the given
// instant: some window record must be flagged open and cover now. The set
// of windows is a snapshot read; the single-open-window invariant is
// enforced at write time, not here.
func WindowOpen(windows []domain.TransferWindow, now time.Time) bool {
	for i := range windows {
		if windows[i].IsOpen && windows[i].Covers(now) {
			return true
		}
	}
	return false
}
