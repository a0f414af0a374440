package agent

import (
	"fmt"
	"sort"

	"github.com/nstehr/overmind/model"
	"github.com/nstehr/overmind/rules"
)

// EventKind identifies a significant change in the colony between two
// evaluation ticks.
type EventKind string

const (
	EventStructureLost   EventKind = "structure_lost"
	EventSupplyBlocked   EventKind = "supply_blocked"
	EventPhaseTransition EventKind = "phase_transition"
	EventWorkersLost     EventKind = "workers_lost"
)

// Event is detected by diffing consecutive colony snapshots. Events are
// logged and shown on the display; they never feed back into decisions.
type Event struct {
	Kind   EventKind
	Tick   int
	Detail string
}

func (e Event) String() string {
	return fmt.Sprintf("[tick %d] %s: %s", e.Tick, e.Kind, e.Detail)
}

// workersLostThreshold is how many workers must disappear between two
// evaluations before it is worth reporting.
const workersLostThreshold = 3

// colonySnapshot captures the diffable fields from one evaluation tick.
type colonySnapshot struct {
	structureIDs map[int]string // id → type for owned structures
	workers      int
	phase        rules.Phase
	blocked      bool
}

func takeSnapshot(gs model.GameState, state rules.ColonyState, params rules.Params) colonySnapshot {
	snap := colonySnapshot{
		structureIDs: make(map[int]string),
		workers:      state.WorkerCount,
		phase:        params.PhaseOf(state),
		blocked:      state.FreeSupply() == 0 && state.SupplyCap < 200,
	}
	for _, u := range gs.Units {
		// Morphing drones are not structures yet; losing one is a worker loss.
		if u.BuildType == "" && rules.IsStructureType(u.Type) {
			snap.structureIDs[u.ID] = u.Type
		}
	}
	return snap
}

// detectEvents compares cur against the previous snapshot. Returns nil if
// prev is nil (first evaluation).
func detectEvents(tick int, cur colonySnapshot, prev *colonySnapshot) []Event {
	if prev == nil {
		return nil
	}

	var events []Event

	var lost []int
	for id := range prev.structureIDs {
		if _, ok := cur.structureIDs[id]; !ok {
			lost = append(lost, id)
		}
	}
	sort.Ints(lost)
	for _, id := range lost {
		events = append(events, Event{
			Kind:   EventStructureLost,
			Tick:   tick,
			Detail: fmt.Sprintf("lost %s (id %d)", prev.structureIDs[id], id),
		})
	}

	if n := prev.workers - cur.workers; n >= workersLostThreshold {
		events = append(events, Event{
			Kind:   EventWorkersLost,
			Tick:   tick,
			Detail: fmt.Sprintf("workers %d→%d", prev.workers, cur.workers),
		})
	}

	if cur.blocked && !prev.blocked {
		events = append(events, Event{
			Kind:   EventSupplyBlocked,
			Tick:   tick,
			Detail: "no free supply",
		})
	}

	if cur.phase != prev.phase {
		events = append(events, Event{
			Kind:   EventPhaseTransition,
			Tick:   tick,
			Detail: fmt.Sprintf("%s → %s", prev.phase, cur.phase),
		})
	}

	return events
}
