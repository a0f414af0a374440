package sim_test

import (
	"testing"

	"github.com/nstehr/overmind/agent"
	"github.com/nstehr/overmind/display"
	"github.com/nstehr/overmind/model"
	"github.com/nstehr/overmind/rules"
	"github.com/nstehr/overmind/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOpening(t *testing.T, frames int) (*sim.World, []rules.Outcome, *display.Recorder) {
	t.Helper()
	engine, err := rules.NewEngineFromScript(rules.DefaultScript())
	require.NoError(t, err)

	rec := &display.Recorder{}
	a := agent.New(nil, engine, agent.WithDisplay(rec))
	w := sim.New(sim.DefaultConfig())

	var outcomes []rules.Outcome
	w.Run(frames, func(gs model.GameState, sink rules.ActionSink) {
		if res := a.Step(gs, sink); res.Outcome.Fired {
			outcomes = append(outcomes, res.Outcome)
		}
	})
	return w, outcomes, rec
}

func TestOpening_OnePoolTwoHatcheries(t *testing.T) {
	w, outcomes, rec := runOpening(t, 12000)

	assert.Equal(t, 1, w.Count(rules.SpawningPool))
	assert.GreaterOrEqual(t, w.Count(rules.Hatchery), 2)
	assert.Greater(t, w.Count(rules.Zergling), 0)
	assert.Greater(t, w.Count(rules.Drone), 9)
	assert.Zero(t, w.Dropped(), "every accepted order should still be valid once applied")

	pools := 0
	for _, o := range outcomes {
		if o.Issued && o.Decision.Kind == rules.BuildTechStructure {
			pools++
		}
	}
	assert.Equal(t, 1, pools)
	assert.NotEmpty(t, rec.Last())
}

func TestOpening_PoolComesFirstAtNine(t *testing.T) {
	_, outcomes, _ := runOpening(t, 6000)

	var firstStructure *rules.Outcome
	for i := range outcomes {
		if outcomes[i].Issued && outcomes[i].Decision.Kind.Info().Structure {
			firstStructure = &outcomes[i]
			break
		}
	}
	require.NotNil(t, firstStructure)
	assert.Equal(t, "pool-9", firstStructure.Decision.Rule)
}

func TestOpening_NoDuplicateIssueInsideCooldown(t *testing.T) {
	_, outcomes, _ := runOpening(t, 12000)

	last := make(map[rules.ActionKind]int)
	for _, o := range outcomes {
		if !o.Issued {
			continue
		}
		k := o.Decision.Kind
		if prev, ok := last[k]; ok {
			assert.GreaterOrEqual(t, o.Decision.Tick-prev, k.Info().BuildTime+rules.DefaultGrace,
				"%s issued twice inside its cooldown", k)
		}
		last[k] = o.Decision.Tick
	}
}
