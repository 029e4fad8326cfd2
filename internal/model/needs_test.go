package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsSetClamps(t *testing.T) {
	n := FullNeeds()

	n.Set(NeedHunger, 150)
	assert.Equal(t, 100.0, n.Get(NeedHunger))

	n.Set(NeedHunger, -3)
	assert.Equal(t, 0.0, n.Get(NeedHunger))

	n.Set(NeedHunger, math.NaN())
	assert.Equal(t, 0.0, n.Get(NeedHunger))

	n.Add(NeedFun, -40)
	n.Add(NeedFun, 500)
	assert.Equal(t, 100.0, n.Get(NeedFun))
}

func TestNeedsLowestTiesToEarlierKind(t *testing.T) {
	n := FullNeeds()
	n.Set(NeedSocial, 20)
	n.Set(NeedEnergy, 20)

	k, v := n.Lowest()
	assert.Equal(t, NeedEnergy, k)
	assert.Equal(t, 20.0, v)
}

func TestParseNeedRoundTrip(t *testing.T) {
	for _, k := range AllNeeds() {
		got, ok := ParseNeed(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseNeed("thirst")
	assert.False(t, ok)
}

func TestBuffDelta(t *testing.T) {
	assert.Equal(t, 5.0, Buff{Polarity: 1, Magnitude: 5}.Delta())
	assert.Equal(t, -5.0, Buff{Polarity: -1, Magnitude: 5}.Delta())
}
