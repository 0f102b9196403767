package guard

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeGuardAllowsFirstSeen(t *testing.T) {
	g := NewDedupeGuard()
	ctx := context.Background()

	res := g.Check(ctx, "abc123")
	assert.True(t, res.Allowed)

	res = g.Check(ctx, "abc123")
	assert.False(t, res.Allowed)
	assert.Equal(t, "dedupe", res.Guard)

	res = g.Check(ctx, "def456")
	assert.True(t, res.Allowed, "distinct fingerprints are independent")
}

func TestDedupeGuardEmptyFingerprint(t *testing.T) {
	g := NewDedupeGuard()
	ctx := context.Background()

	assert.True(t, g.Check(ctx, "").Allowed)
	assert.True(t, g.Check(ctx, "").Allowed, "empty fingerprint is never deduplicated")
}

func TestDedupeGuardRemove(t *testing.T) {
	g := NewDedupeGuard()
	ctx := context.Background()

	assert.True(t, g.Check(ctx, "retry-me").Allowed)
	g.Remove("retry-me")
	assert.True(t, g.Check(ctx, "retry-me").Allowed, "removed fingerprint can be retried")
}

func TestDedupeGuardConcurrent(t *testing.T) {
	g := NewDedupeGuard()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Check(ctx, "same-key").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, allowed, "exactly one caller wins the fingerprint")
}
