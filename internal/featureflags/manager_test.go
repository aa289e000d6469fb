package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, 1), name)
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,over=150%")

	assert.True(t, m.Enabled("always", 1))
	assert.True(t, m.Enabled("over", 1))
	assert.False(t, m.Enabled("never", 1))

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42), "rollout must be deterministic per user")
	}
	assert.False(t, m.Enabled("canary", 0), "anonymous callers are outside a rollout")
}

func TestEnabledGlobally(t *testing.T) {
	m := NewManager(GlobalFeedCache + "=on,new_search=50%")

	assert.True(t, m.EnabledGlobally(GlobalFeedCache))
	assert.False(t, m.EnabledGlobally("new_search"))
	assert.False(t, m.EnabledGlobally("unknown"))

	var nilManager *Manager
	assert.False(t, nilManager.EnabledGlobally(GlobalFeedCache))
	assert.False(t, nilManager.Enabled(GlobalFeedCache, 1))
	assert.Empty(t, nilManager.Raw())
	assert.Empty(t, nilManager.Snapshot(1))
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, Y = 20% ,z=off,w=maybe")

	assert.Equal(t, map[string]string{"x": "on", "y": "20%", "z": "off"}, m.Raw())
	assert.Len(t, m.Snapshot(123), 3)
}
