package threadsafe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiringMap(t *testing.T) {
	now := time.Now()
	m := NewExpiringMap[string, int](time.Minute)
	m.now = func() time.Time { return now }

	m.Set("a", 1)
	m.Set("b", 2)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = m.Get("missing")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get("a")
	assert.False(t, ok)

	m.Set("c", 3)
	assert.Equal(t, 1, m.Cleanup()) // only "b" is left expired

	m.Clear()
	_, ok = m.Get("c")
	assert.False(t, ok)
}

func TestRateWindow(t *testing.T) {
	now := time.Now()
	r := NewRateWindow(2, time.Minute)
	r.now = func() time.Time { return now }

	allowed, _ := r.Allow("ip")
	assert.True(t, allowed)
	allowed, _ = r.Allow("ip")
	assert.True(t, allowed)

	allowed, retryAfter := r.Allow("ip")
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retryAfter)

	// other keys are unaffected
	allowed, _ = r.Allow("other")
	assert.True(t, allowed)

	// window elapses, counter resets
	now = now.Add(2 * time.Minute)
	allowed, _ = r.Allow("ip")
	assert.True(t, allowed)

	assert.Equal(t, 1, r.Cleanup()) // "other" expired, "ip" was re-windowed
}
