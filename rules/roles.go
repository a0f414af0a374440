package rules

import "strings"

// typed is a generic constraint for any model type with a TypeName accessor.
type typed interface {
	TypeName() string
}

// countType counts items whose TypeName matches any of the given types (case-insensitive).
func countType[T typed](items []T, types []string) int {
	n := 0
	for _, item := range items {
		if matchesAny(item.TypeName(), types) {
			n++
		}
	}
	return n
}

func matchesAny(t string, types []string) bool {
	for _, want := range types {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

// Unit type constants, as named by the engine.
const (
	Drone    = "Zerg_Drone"
	Zergling = "Zerg_Zergling"
	Overlord = "Zerg_Overlord"
	Larva    = "Zerg_Larva"
	Egg      = "Zerg_Egg"
)

// Building type constants.
const (
	Hatchery     = "Zerg_Hatchery"
	Lair         = "Zerg_Lair"
	Hive         = "Zerg_Hive"
	SpawningPool = "Zerg_Spawning_Pool"
)

// role maps a tracked colony role to every engine type that fills it.
type role struct {
	types []string
}

const (
	roleWorker         = "worker"
	roleLightMelee     = "light_melee"
	roleSupplyProvider = "supply_provider"
	roleMainProduction = "main_production"
	roleTechStructure  = "tech_structure"
	roleLarva          = "larva"
)

// roles is the static registry of tracked roles. Lair and Hive are morphed
// hatcheries and keep producing larvae, so they stay main production.
var roles = map[string]role{
	roleWorker:         {types: []string{Drone}},
	roleLightMelee:     {types: []string{Zergling}},
	roleSupplyProvider: {types: []string{Overlord}},
	roleMainProduction: {types: []string{Hatchery, Lair, Hive}},
	roleTechStructure:  {types: []string{SpawningPool}},
	roleLarva:          {types: []string{Larva}},
}

// roleOf returns the role an engine type fills, or "" when untracked.
func roleOf(t string) string {
	for name, r := range roles {
		if matchesAny(t, r.types) {
			return name
		}
	}
	return ""
}

// IsWorkerType reports whether t is the worker unit type.
func IsWorkerType(t string) bool {
	return matchesAny(t, roles[roleWorker].types)
}

// IsStructureType reports whether t is a tracked structure: main production
// or a tech structure.
func IsStructureType(t string) bool {
	switch roleOf(t) {
	case roleMainProduction, roleTechStructure:
		return true
	}
	return false
}
