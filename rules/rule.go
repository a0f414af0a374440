package rules

import "github.com/expr-lang/expr/vm"

// Phase is the stage of the build order a rule belongs to.
type Phase int

const (
	PhaseScripted Phase = iota // opening script, worker count at or below target
	PhaseSteady                // steady-state loop once workers pass the target
)

func (p Phase) String() string {
	if p == PhaseSteady {
		return "steady"
	}
	return "scripted"
}

// Rule is the atomic unit of production behavior: a guard → action kind pair.
// The engine tries rules of the current phase by priority; the first eligible
// one fires and nothing else is evaluated that tick.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first; ties keep definition order
	Phase        Phase       // only tried while the colony is in this phase
	MinSupply    int         // supply used must be at least this (0 = ungated)
	Kind         ActionKind  // what to issue when the rule fires
	ConditionSrc string      // expr source (preserved for diagnostics)
	program      *vm.Program // compiled bytecode
}
