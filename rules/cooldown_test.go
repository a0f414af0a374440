package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCooldownTable_UnarmedIsEligible(t *testing.T) {
	c := NewCooldownTable()
	for _, k := range Kinds() {
		assert.True(t, c.IsEligible(k, 0), k.String())
		assert.Zero(t, c.Remaining(k, 0))
	}
	assert.False(t, c.IsEligible(ActionKind(99), 0))
}

func TestCooldownTable_ExpiryIsMonotonic(t *testing.T) {
	c := NewCooldownTable()
	c.Arm(TrainSupplyProvider, 100, 700)

	for tick := 0; tick < 800; tick += 7 {
		assert.False(t, c.IsEligible(TrainSupplyProvider, tick), "tick %d", tick)
	}
	assert.False(t, c.IsEligible(TrainSupplyProvider, 799))
	for tick := 800; tick < 2000; tick += 13 {
		assert.True(t, c.IsEligible(TrainSupplyProvider, tick), "tick %d", tick)
	}
	assert.Equal(t, 50, c.Remaining(TrainSupplyProvider, 750))

	// Other kinds are untouched.
	assert.True(t, c.IsEligible(TrainWorker, 150))
}

func TestCooldownTable_RearmOverwrites(t *testing.T) {
	c := NewCooldownTable()
	c.Arm(TrainWorker, 0, 400)
	c.Arm(TrainWorker, 500, 400)

	retry, armed := c.RetryTick(TrainWorker)
	assert.True(t, armed)
	assert.Equal(t, 900, retry)
	assert.False(t, c.IsEligible(TrainWorker, 899))

	c.Arm(ActionKind(-1), 0, 10)
	_, armed = c.RetryTick(ActionKind(-1))
	assert.False(t, armed)
}
