package rules

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScript_PrioritiesFollowListOrder(t *testing.T) {
	rules, err := CompileScript(DefaultScript())
	require.NoError(t, err)

	var scripted []*Rule
	for _, r := range rules {
		if r.Phase == PhaseScripted {
			scripted = append(scripted, r)
		}
	}
	require.Len(t, scripted, len(DefaultScript().Scripted))
	assert.Equal(t, "pool-9", scripted[0].Name)
	assert.Equal(t, 9, scripted[0].MinSupply)
	assert.Equal(t, BuildTechStructure, scripted[0].Kind)
	for i := 1; i < len(scripted); i++ {
		assert.Less(t, scripted[i].Priority, scripted[i-1].Priority)
	}
}

func TestCompileScript_EmptyGuardAlwaysHolds(t *testing.T) {
	rules, err := CompileScript(Script{
		Params: Params{WorkerTarget: 5},
		Steady: []Step{{Name: "lings", Kind: "TrainLightMelee"}},
	})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "true", rules[0].ConditionSrc)
	assert.Equal(t, PhaseSteady, rules[0].Phase)
}

func TestScriptValidate_Errors(t *testing.T) {
	s := Script{
		Scripted: []Step{
			{Name: "a", Kind: "TrainWorker"},
			{Name: "a", Kind: "TrainWorker"},
			{Name: "", Kind: "TrainWorker"},
		},
		Steady: []Step{{Name: "b", Kind: "BuildBunker"}},
	}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")
	assert.Contains(t, err.Error(), "missing name")
	assert.Contains(t, err.Error(), "unknown action kind")

	_, err = CompileScript(s)
	assert.Error(t, err)
}

func TestScriptValidate_Clamps(t *testing.T) {
	s := Script{
		Params:   Params{WorkerTarget: 0, SupplyBuffer: 40},
		Scripted: []Step{{Name: "x", Supply: 500, Kind: "TrainWorker"}},
	}
	require.NoError(t, s.Validate())
	assert.Equal(t, 1, s.WorkerTarget)
	assert.Equal(t, 16, s.SupplyBuffer)
	assert.Equal(t, 200, s.Scripted[0].Supply)
}

func TestCompileScript_LeavesInputUntouched(t *testing.T) {
	s := Script{
		Params:   Params{WorkerTarget: 0, SupplyBuffer: 40},
		Scripted: []Step{{Name: "x", Supply: 500, Kind: "TrainWorker"}},
	}
	rules, err := CompileScript(s)
	require.NoError(t, err)
	assert.Equal(t, 200, rules[0].MinSupply)
	assert.Equal(t, 500, s.Scripted[0].Supply)
	assert.Equal(t, 0, s.WorkerTarget)

	e, err := NewEngineFromScript(s)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Params().WorkerTarget)
	assert.Equal(t, 500, s.Scripted[0].Supply)
}

// Sessions build their engines from one shared config script; run with -race.
func TestNewEngineFromScript_SharedScriptConcurrently(t *testing.T) {
	s := DefaultScript()
	s.Scripted[0].Supply = 999

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := NewEngineFromScript(s)
			assert.NoError(t, err)
			if e != nil {
				assert.Equal(t, 200, e.Rules()[0].MinSupply)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 999, s.Scripted[0].Supply)
}

func TestScriptClone_DoesNotShareSteps(t *testing.T) {
	s := DefaultScript()
	c := s.Clone()
	c.Scripted[0].Name = "changed"
	c.Steady[0].Guard = "false"
	assert.Equal(t, "pool-9", s.Scripted[0].Name)
	assert.NotEqual(t, "false", s.Steady[0].Guard)
}
