package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Step is one entry of a build script: once supply used reaches Supply and
// Guard holds, issue Kind. Guards exist because counts change asynchronously;
// a guard such as "TechStructures() == 0" keeps a threshold from firing twice
// while the first build is still in flight.
type Step struct {
	Name   string `mapstructure:"name" json:"name"`
	Supply int    `mapstructure:"supply" json:"supply"`
	Kind   string `mapstructure:"kind" json:"kind"`
	Guard  string `mapstructure:"guard" json:"guard"`
}

// Params are the numeric knobs guards can read through RuleEnv.
type Params struct {
	WorkerTarget int `mapstructure:"worker_target" json:"worker_target"`
	SupplyBuffer int `mapstructure:"supply_buffer" json:"supply_buffer"`
}

// PhaseOf returns the phase the colony is in: scripted until the worker count
// is above the target.
func (p Params) PhaseOf(s ColonyState) Phase {
	if s.WorkerCount > p.WorkerTarget {
		return PhaseSteady
	}
	return PhaseScripted
}

// Script is the full static rule set: the scripted opening and the steady
// loop, each listed in priority order.
type Script struct {
	Params   `mapstructure:",squash"`
	Scripted []Step `mapstructure:"scripted" json:"scripted"`
	Steady   []Step `mapstructure:"steady" json:"steady"`
}

// DefaultScript is a 9-pool opening with a 12-supply hatchery, followed by an
// overlord/zergling loop.
func DefaultScript() Script {
	return Script{
		Params: Params{WorkerTarget: 12, SupplyBuffer: 2},
		Scripted: []Step{
			{Name: "pool-9", Supply: 9, Kind: "BuildTechStructure", Guard: `TechStructures() == 0`},
			{Name: "overlord-scripted", Kind: "TrainSupplyProvider", Guard: `TechStructures() >= 1 && FreeSupply() < SupplyBuffer() && SupplyCap() < 200`},
			{Name: "hatch-12", Supply: 12, Kind: "BuildMainProduction", Guard: `MainProduction() < 2 && TechStructures() >= 1`},
			{Name: "drone", Kind: "TrainWorker", Guard: `Workers() <= WorkerTarget()`},
			{Name: "zergling-scripted", Kind: "TrainLightMelee", Guard: `ReadyTechStructures() >= 1 && !(SupplyUsed() >= 12 && MainProduction() < 2)`},
		},
		Steady: []Step{
			{Name: "overlord", Kind: "TrainSupplyProvider", Guard: `FreeSupply() < SupplyCost("TrainLightMelee") && SupplyCap() < 200`},
			{Name: "rebuild-pool", Kind: "BuildTechStructure", Guard: `TechStructures() == 0`},
			{Name: "zergling", Kind: "TrainLightMelee", Guard: `ReadyTechStructures() >= 1`},
			{Name: "macro-hatch", Kind: "BuildMainProduction", Guard: `Minerals() >= 500`},
		},
	}
}

// Clone returns a copy of s that shares no step storage with it.
func (s Script) Clone() Script {
	s.Scripted = append([]Step(nil), s.Scripted...)
	s.Steady = append([]Step(nil), s.Steady...)
	return s
}

// Validate clamps numeric parameters to their valid ranges and rejects steps
// with no name, a duplicate name, or an unknown kind.
func (s *Script) Validate() error {
	s.WorkerTarget = clampInt(s.WorkerTarget, 1, maxSupply)
	s.SupplyBuffer = clampInt(s.SupplyBuffer, 0, 16)

	var errs []error
	seen := make(map[string]bool)
	check := func(phase Phase, steps []Step) {
		for i := range steps {
			st := &steps[i]
			st.Supply = clampInt(st.Supply, 0, maxSupply)
			if strings.TrimSpace(st.Name) == "" {
				errs = append(errs, fmt.Errorf("%s step %d: missing name", phase, i))
				continue
			}
			if seen[st.Name] {
				errs = append(errs, fmt.Errorf("%s step %q: duplicate name", phase, st.Name))
			}
			seen[st.Name] = true
			if _, err := ParseActionKind(st.Kind); err != nil {
				errs = append(errs, fmt.Errorf("%s step %q: %w", phase, st.Name, err))
			}
		}
	}
	check(PhaseScripted, s.Scripted)
	check(PhaseSteady, s.Steady)
	return errors.Join(errs...)
}

// maxSupply is the engine's supply ceiling in display units.
const maxSupply = 200

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
