package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAgentDefaults(t *testing.T) {
	a := NewAgent(4, "Bea")

	assert.Equal(t, FullNeeds(), a.Needs)
	assert.Equal(t, NoSlot, a.Slot)
	assert.True(t, a.Visible)
	assert.Equal(t, StateIdle, a.Activity.State)
}

func TestAgentRememberCaps(t *testing.T) {
	a := NewAgent(1, "Bea")
	for i := range MaxMemories + 5 {
		a.Remember(float64(i), fmt.Sprintf("m%d", i))
	}

	assert.Len(t, a.Memories, MaxMemories)
	assert.Equal(t, "m5", a.Memories[0].Text)
	assert.Equal(t, fmt.Sprintf("m%d", MaxMemories+4), a.Memories[MaxMemories-1].Text)
}

func TestAgentForget(t *testing.T) {
	a := NewAgent(1, "Bea")
	a.Relationship(2).Affinity = 40
	a.Partner = 2

	a.Forget(2)

	assert.Empty(t, a.Relationships)
	assert.Zero(t, a.Partner)
}

func TestFacingFromDelta(t *testing.T) {
	assert.Equal(t, FacingSouth, FacingFromDelta(0, 1))
	assert.Equal(t, FacingNorth, FacingFromDelta(0, -1))
	assert.Equal(t, FacingEast, FacingFromDelta(1, 0))
	assert.Equal(t, FacingWest, FacingFromDelta(-1, 0))
	assert.Equal(t, FacingSouthEast, FacingFromDelta(1, 1))
	assert.Equal(t, FacingNorthWest, FacingFromDelta(-1, -1))
}
