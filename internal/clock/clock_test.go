package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMock_AddAndSet(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMock(start)

	assert.Equal(t, start, m.Now())

	m.Add(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), m.Now())

	later := start.Add(48 * time.Hour)
	m.Set(later)
	assert.Equal(t, later, m.Now())
}

func TestRealClock_IsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, New().Now().Location())
}
