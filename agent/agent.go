package agent

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nstehr/overmind/display"
	"github.com/nstehr/overmind/ipc"
	"github.com/nstehr/overmind/metrics"
	"github.com/nstehr/overmind/model"
	"github.com/nstehr/overmind/rules"
	"github.com/rs/zerolog"
)

// Agent owns the decision-making for a single player session.
type Agent struct {
	ID     uuid.UUID
	Conn   *ipc.Connection
	Player string
	Race   string
	Engine *rules.Engine

	display  display.Display
	frames   display.FrameSetter // nil when the display has no frame count
	metrics  *metrics.Metrics
	interval int
	logger   zerolog.Logger
	prev     *colonySnapshot
}

// Option configures an Agent.
type Option func(*Agent)

func WithDisplay(d display.Display) Option {
	return func(a *Agent) {
		if d != nil {
			a.display = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Agent) { a.metrics = m }
}

// WithInterval evaluates only every n ticks. Zero or less follows the
// engine's command latency.
func WithInterval(n int) Option {
	return func(a *Agent) { a.interval = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// New creates an agent for one connection. conn may be nil when the agent is
// driven directly through Step.
func New(conn *ipc.Connection, engine *rules.Engine, opts ...Option) *Agent {
	a := &Agent{
		ID:      uuid.New(),
		Conn:    conn,
		Engine:  engine,
		display: display.Nop{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.frames, _ = a.display.(display.FrameSetter)
	a.logger = a.logger.With().Str("session", a.ID.String()).Logger()
	return a
}

// HandleHello completes the handshake so the bridge knows the core is ready.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, fmt.Errorf("decode hello: %w", err)
	}

	a.Player = hello.Player
	a.Race = hello.Race
	if a.Conn != nil {
		a.Conn.Player = hello.Player
	}
	a.logger = a.logger.With().Str("player", a.Player).Logger()
	a.logger.Info().Str("race", a.Race).Str("map", hello.Map).Msg("player identified")

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleGameState runs one step against the bridge. Commands go out as
// synchronous calls before the ack, so the bridge sees the ack only once the
// tick's orders are all answered.
func (a *Agent) HandleGameState(env ipc.Envelope) (*ipc.Envelope, error) {
	var gs model.GameState
	if err := env.Decode(&gs); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}

	a.Step(gs, NewSink(a.Conn))

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// StepResult reports what one call to Step did.
type StepResult struct {
	Evaluated bool
	Outcome   rules.Outcome
	Workers   rules.AssignResult
	Events    []Event
}

// Step processes one game state: snapshot, worker loop, then the production
// evaluator. It does nothing for replays, paused games, states with no
// player, or ticks between evaluation intervals.
func (a *Agent) Step(gs model.GameState, sink rules.ActionSink) StepResult {
	if gs.Replay || gs.Paused || gs.Player.Name == "" {
		return StepResult{}
	}
	latency := max(gs.LatencyFrames, 1)
	interval := a.interval
	if interval <= 0 {
		interval = latency
	}
	if gs.Tick%interval != 0 {
		return StepResult{}
	}

	res := StepResult{Evaluated: true}
	state := rules.Snapshot(gs)

	cur := takeSnapshot(gs, state, a.Engine.Params())
	res.Events = detectEvents(gs.Tick, cur, a.prev)
	a.prev = &cur
	for _, ev := range res.Events {
		a.logger.Info().Str("event", string(ev.Kind)).Int("tick", ev.Tick).Msg(ev.Detail)
		if a.metrics != nil {
			a.metrics.Events.WithLabelValues(string(ev.Kind)).Inc()
		}
	}

	res.Workers = rules.AssignIdleWorkers(rules.WorkerRecords(gs, latency), sink)
	for _, f := range res.Workers.Failures {
		a.logger.Debug().Int("worker", f.WorkerID).Stringer("task", f.Task).Err(f.Err).Msg("worker order refused")
	}

	res.Outcome = a.Engine.Evaluate(state, sink)
	if res.Outcome.Err != nil {
		a.display.Error(gs.Tick, res.Outcome.Err)
	}

	a.record(state, res)
	if a.frames != nil {
		a.frames.SetFrames(interval)
	}
	a.display.Status(gs.Tick, StatusLines(state, a.Engine.Params().PhaseOf(state)))
	return res
}

func (a *Agent) record(state rules.ColonyState, res StepResult) {
	m := a.metrics
	if m == nil {
		return
	}
	m.TicksEvaluated.Inc()
	m.Supply.WithLabelValues("used").Set(float64(state.SupplyUsed))
	m.Supply.WithLabelValues("cap").Set(float64(state.SupplyCap))
	m.WorkerTasks.WithLabelValues(rules.ReturnCargo.String()).Add(float64(res.Workers.Returned))
	m.WorkerTasks.WithLabelValues(rules.GatherNearest.String()).Add(float64(res.Workers.Gathered))
	m.WorkerFailures.Add(float64(len(res.Workers.Failures)))

	out := res.Outcome
	if !out.Fired {
		return
	}
	m.Decisions.WithLabelValues(out.Decision.Rule, out.Decision.Phase.String()).Inc()
	if out.Issued {
		m.Issued.WithLabelValues(out.Decision.Kind.String()).Inc()
	} else {
		m.Failures.WithLabelValues(out.Decision.Kind.String(), rules.Reason(out.Err)).Inc()
	}
}

// StatusLines renders the colony counts shown on the display.
func StatusLines(state rules.ColonyState, phase rules.Phase) []string {
	return []string{
		fmt.Sprintf("Drones: %d", state.WorkerCount),
		fmt.Sprintf("Lings: %d", state.LightMeleeCount),
		fmt.Sprintf("Overlords: %d", state.SupplyProviderCount),
		fmt.Sprintf("Hatcheries: %d", state.MainProductionCount),
		fmt.Sprintf("Pools: %d", state.TechStructureCount),
		fmt.Sprintf("Supply: %d/%d", state.SupplyUsed, state.SupplyCap),
		fmt.Sprintf("Minerals: %d", state.Minerals),
		fmt.Sprintf("Phase: %s", phase),
	}
}
