package rules

import (
	"testing"

	"github.com/nstehr/overmind/model"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_CountsInProgressAsTarget(t *testing.T) {
	gs := model.GameState{
		Tick:   240,
		Player: model.Player{Name: "p", Minerals: 130, Gas: 8, SupplyUsed: 11, SupplyTotal: 17},
		Units: []model.Unit{
			{ID: 1, Type: Hatchery, Completed: true},
			{ID: 2, Type: Drone, BuildType: Hatchery, Constructing: true}, // morphing into a hatchery
			{ID: 3, Type: Drone, Completed: true},
			{ID: 4, Type: Drone, Completed: true},
			{ID: 5, Type: Egg, BuildType: Drone},
			{ID: 6, Type: Egg, BuildType: Overlord},
			{ID: 7, Type: Overlord, Completed: true},
			{ID: 8, Type: Larva, Completed: true},
			{ID: 9, Type: Larva, Completed: true},
			{ID: 10, Type: SpawningPool},
			{ID: 11, Type: Zergling, Completed: true},
			{ID: 12, Type: "Zerg_Extractor", Completed: true},
		},
	}

	s := Snapshot(gs)
	assert.Equal(t, 240, s.Tick)
	assert.Equal(t, 11, s.SupplyUsed)
	assert.Equal(t, 17, s.SupplyCap)
	assert.Equal(t, 130, s.Minerals)
	assert.Equal(t, 8, s.Gas)
	assert.Equal(t, 3, s.WorkerCount)
	assert.Equal(t, 2, s.MainProductionCount)
	assert.Equal(t, 2, s.SupplyProviderCount)
	assert.Equal(t, 1, s.TechStructureCount)
	assert.Equal(t, 0, s.ReadyTechStructureCount)
	assert.Equal(t, 1, s.LightMeleeCount)
	assert.Equal(t, 2, s.LarvaCount)
}

func TestSnapshot_LairAndHiveAreMainProduction(t *testing.T) {
	s := Snapshot(model.GameState{Units: []model.Unit{
		{ID: 1, Type: Lair, Completed: true},
		{ID: 2, Type: Hive, Completed: true},
		{ID: 3, Type: SpawningPool, Completed: true},
	}})
	assert.Equal(t, 2, s.MainProductionCount)
	assert.Equal(t, 1, s.ReadyTechStructureCount)
}

func TestColonyState_SupplyAndCost(t *testing.T) {
	s := ColonyState{SupplyUsed: 20, SupplyCap: 18, Minerals: 100}
	assert.Zero(t, s.FreeSupply())
	assert.False(t, s.HasSupplyFor(TrainWorker))
	assert.True(t, s.HasSupplyFor(TrainSupplyProvider))
	assert.True(t, s.CanAfford(TrainSupplyProvider))
	assert.False(t, s.CanAfford(BuildTechStructure))

	s = ColonyState{WorkerCount: 3, LightMeleeCount: 4, SupplyProviderCount: 5, TechStructureCount: 1, MainProductionCount: 2}
	assert.Equal(t, 3, s.Count(TrainWorker))
	assert.Equal(t, 4, s.Count(TrainLightMelee))
	assert.Equal(t, 5, s.Count(TrainSupplyProvider))
	assert.Equal(t, 1, s.Count(BuildTechStructure))
	assert.Equal(t, 2, s.Count(BuildMainProduction))
}

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		in   string
		want ActionKind
	}{
		{"TrainWorker", TrainWorker},
		{"trainlightmelee", TrainLightMelee},
		{"Zerg_Overlord", TrainSupplyProvider},
		{"zerg_spawning_pool", BuildTechStructure},
		{"BuildMainProduction", BuildMainProduction},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseActionKind(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseActionKind("BuildCannon")
	assert.Error(t, err)
	assert.Equal(t, "ActionKind(42)", ActionKind(42).String())
	assert.Equal(t, KindInfo{}, ActionKind(42).Info())
}

func TestRuleEnvHelpers(t *testing.T) {
	env := RuleEnv{
		State:  ColonyState{SupplyUsed: 7, SupplyCap: 9, Minerals: 120},
		Params: Params{WorkerTarget: 12, SupplyBuffer: 2},
	}
	assert.Equal(t, 2, env.FreeSupply())
	assert.Equal(t, 1, env.SupplyCost("TrainLightMelee"))
	assert.Equal(t, 200, env.MineralCost("Zerg_Spawning_Pool"))
	assert.Zero(t, env.SupplyCost("nope"))
	assert.True(t, env.Affordable("TrainSupplyProvider"))
	assert.False(t, env.Affordable("BuildMainProduction"))
	assert.False(t, env.Affordable("nope"))
}
