package rules

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"
)

// DefaultGrace is the number of frames added to a kind's build time when
// arming its cooldown.
const DefaultGrace = 100

// Decision is the single action chosen for a tick.
type Decision struct {
	Tick  int
	Rule  string
	Kind  ActionKind
	Phase Phase
}

// Outcome reports what Evaluate did with a decision.
type Outcome struct {
	Decision Decision
	Fired    bool  // a rule was eligible
	Issued   bool  // the sink accepted the action and the cooldown was armed
	Err      error // sink failure, nil on success
}

// Engine runs compiled production rules against a colony snapshot each tick.
// Rules of the current phase are tried in priority order and the first
// eligible one wins, so at most one action is issued per tick.
//
// An Engine owns its cooldown table and is not safe for concurrent use; each
// game session gets its own.
type Engine struct {
	rules        []*Rule
	params       Params
	grace        int
	cooldowns    *CooldownTable
	logger       zerolog.Logger
	lastDiagTick int
}

// Option configures an Engine.
type Option func(*Engine)

// WithGrace sets the frames added to build time when arming a cooldown.
func WithGrace(frames int) Option {
	return func(e *Engine) {
		if frames >= 0 {
			e.grace = frames
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l.With().Str("component", "rules").Logger() }
}

// WithCooldowns shares an existing cooldown table instead of a fresh one.
func WithCooldowns(c *CooldownTable) Option {
	return func(e *Engine) {
		if c != nil {
			e.cooldowns = c
		}
	}
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by
// priority. A condition that fails to compile is a startup error. The engine
// works on copies; rules and its elements are left as passed.
func NewEngine(rules []*Rule, params Params, opts ...Option) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		rules:        compiled,
		params:       params,
		grace:        DefaultGrace,
		cooldowns:    NewCooldownTable(),
		logger:       zerolog.Nop(),
		lastDiagTick: -diagInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEngineFromScript compiles a script and builds an engine from it. The
// script is read, never written, so one script may back many engines.
func NewEngineFromScript(s Script, opts ...Option) (*Engine, error) {
	v, err := s.validated()
	if err != nil {
		return nil, err
	}
	return NewEngine(v.rules(), v.Params, opts...)
}

// Rules returns the compiled rules in evaluation order.
func (e *Engine) Rules() []*Rule { return e.rules }

func (e *Engine) Cooldowns() *CooldownTable { return e.cooldowns }

func (e *Engine) Params() Params { return e.params }

// CooldownFor is how long kind stays ineligible after a successful issue:
// its nominal build time plus the grace buffer.
func (e *Engine) CooldownFor(kind ActionKind) int {
	return kind.Info().BuildTime + e.grace
}

// Decide picks the rule that would fire for state without issuing anything
// or touching cooldowns.
func (e *Engine) Decide(state ColonyState) (Decision, bool) {
	phase := e.params.PhaseOf(state)
	env := RuleEnv{State: state, Params: e.params}

	for _, r := range e.rules {
		if !e.eligible(r, phase, state) {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			e.logger.Warn().Err(err).Str("rule", r.Name).Msg("rule condition error")
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}

		return Decision{Tick: state.Tick, Rule: r.Name, Kind: r.Kind, Phase: phase}, true
	}
	return Decision{}, false
}

// eligible applies the checks every rule shares regardless of its guard.
func (e *Engine) eligible(r *Rule, phase Phase, state ColonyState) bool {
	return r.Phase == phase &&
		state.SupplyUsed >= r.MinSupply &&
		e.cooldowns.IsEligible(r.Kind, state.Tick) &&
		state.CanAfford(r.Kind) &&
		state.HasSupplyFor(r.Kind)
}

// Evaluate decides, forwards the decision to sink, and arms the kind's
// cooldown only when the sink reports success. A failed issue leaves the
// cooldown untouched so the next evaluation can retry from a fresh snapshot.
func (e *Engine) Evaluate(state ColonyState, sink ActionSink) Outcome {
	d, ok := e.Decide(state)
	if !ok {
		e.logIdleDiagnostics(state)
		return Outcome{}
	}

	out := Outcome{Decision: d, Fired: true}
	e.logger.Debug().
		Str("rule", d.Rule).
		Stringer("kind", d.Kind).
		Stringer("phase", d.Phase).
		Int("tick", d.Tick).
		Msg("rule fired")

	if err := sink.IssueProduction(d.Kind); err != nil {
		out.Err = err
		e.logger.Warn().Err(err).Str("rule", d.Rule).Stringer("kind", d.Kind).Msg("production action failed")
		return out
	}

	e.cooldowns.Arm(d.Kind, state.Tick, e.CooldownFor(d.Kind))
	out.Issued = true
	return out
}

// diagInterval throttles idle diagnostics to avoid log spam.
const diagInterval = 100

// logIdleDiagnostics helps debug "why isn't anything being built?" by dumping
// the blocking conditions when no rule fires.
func (e *Engine) logIdleDiagnostics(state ColonyState) {
	if state.Tick-e.lastDiagTick < diagInterval {
		return
	}
	e.lastDiagTick = state.Tick

	cooling := zerolog.Dict()
	for _, k := range Kinds() {
		if left := e.cooldowns.Remaining(k, state.Tick); left > 0 {
			cooling.Int(k.String(), left)
		}
	}
	e.logger.Debug().
		Stringer("phase", e.params.PhaseOf(state)).
		Str("supply", fmt.Sprintf("%d/%d", state.SupplyUsed, state.SupplyCap)).
		Int("minerals", state.Minerals).
		Int("workers", state.WorkerCount).
		Dict("cooldowns", cooling).
		Msg("idle diagnostics")
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	compiled := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		c := *r
		c.program = prog
		compiled = append(compiled, &c)
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})
	return compiled, nil
}
