package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLaunchStrategiesOrder(t *testing.T) {
	strategies := launchStrategies()

	// The default lookup always comes first; explicit paths are fallbacks.
	assert.GreaterOrEqual(t, len(strategies), 2)
	assert.Empty(t, strategies[0].execPath)
	for _, s := range strategies[1:] {
		assert.NotEmpty(t, s.execPath)
	}
}

func TestHostBlockingPattern(t *testing.T) {
	assert.Equal(t, "", hostBlockingPattern(nil))
	assert.Equal(t, "a.com", hostBlockingPattern([]string{"a.com"}))
	assert.Equal(t, "a.com,b.io", hostBlockingPattern([]string{"a.com", "b.io"}))
}

func TestDefaultBlockedDomains(t *testing.T) {
	assert.Contains(t, DefaultBlockedDomains, "google-analytics.com")
	assert.Contains(t, DefaultBlockedDomains, "doubleclick.net")
}
