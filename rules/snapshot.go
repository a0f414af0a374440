package rules

import "github.com/nstehr/overmind/model"

// ColonyState is an immutable per-tick view of the colony's economy. It is
// rebuilt from the engine's unit list every evaluation tick, so counts never
// go stale across ticks.
//
// Counts include units and structures still in production: an egg counts as
// the unit it will hatch into, a morphing drone as the structure it becomes.
type ColonyState struct {
	Tick       int
	SupplyUsed int
	SupplyCap  int
	Minerals   int
	Gas        int

	WorkerCount             int
	LightMeleeCount         int
	SupplyProviderCount     int
	MainProductionCount     int
	TechStructureCount      int
	ReadyTechStructureCount int
	LarvaCount              int
}

// Snapshot derives a ColonyState from a game state. It has no side effects.
func Snapshot(gs model.GameState) ColonyState {
	s := ColonyState{
		Tick:       gs.Tick,
		SupplyUsed: gs.Player.SupplyUsed,
		SupplyCap:  gs.Player.SupplyTotal,
		Minerals:   gs.Player.Minerals,
		Gas:        gs.Player.Gas,
		LarvaCount: countType(gs.Units, roles[roleLarva].types),
	}
	for _, u := range gs.Units {
		switch roleOf(u.EffectiveType()) {
		case roleWorker:
			s.WorkerCount++
		case roleLightMelee:
			s.LightMeleeCount++
		case roleSupplyProvider:
			s.SupplyProviderCount++
		case roleMainProduction:
			s.MainProductionCount++
		case roleTechStructure:
			s.TechStructureCount++
			if u.Completed && u.BuildType == "" {
				s.ReadyTechStructureCount++
			}
		}
	}
	return s
}

// FreeSupply is the unused supply capacity, never negative.
func (s ColonyState) FreeSupply() int {
	if free := s.SupplyCap - s.SupplyUsed; free > 0 {
		return free
	}
	return 0
}

// CanAfford reports whether current stock covers kind's resource cost.
func (s ColonyState) CanAfford(k ActionKind) bool {
	info := k.Info()
	return s.Minerals >= info.Minerals && s.Gas >= info.Gas
}

// HasSupplyFor reports whether free supply covers kind's supply cost.
func (s ColonyState) HasSupplyFor(k ActionKind) bool {
	return s.FreeSupply() >= k.Info().Supply
}

// Count returns the tracked count that kind increases.
func (s ColonyState) Count(k ActionKind) int {
	switch k {
	case TrainWorker:
		return s.WorkerCount
	case TrainLightMelee:
		return s.LightMeleeCount
	case TrainSupplyProvider:
		return s.SupplyProviderCount
	case BuildTechStructure:
		return s.TechStructureCount
	case BuildMainProduction:
		return s.MainProductionCount
	}
	return 0
}
