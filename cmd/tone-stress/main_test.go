// ABOUTME: Tests for stress app flag handling
// ABOUTME: Ensures large durations saturate instead of wrapping
package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToneDurationSaturates(t *testing.T) {
	assert.Equal(t, uint32(50), toneDuration(50))
	assert.Equal(t, uint32(math.MaxUint32), toneDuration(math.MaxUint32))
	if math.MaxUint > math.MaxUint32 {
		// 2^32 + 50 would wrap to 50
		big := uint(math.MaxUint32)
		big += 51
		assert.Equal(t, uint32(math.MaxUint32), toneDuration(big))
	}
}
