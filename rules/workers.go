package rules

import "github.com/nstehr/overmind/model"

// WorkerRecord is the read-only view of one worker the task loop needs.
type WorkerRecord struct {
	ID         int
	Idle       bool
	Carrying   bool // holding minerals or gas
	Encumbered bool // holding something that blocks harvesting, e.g. a flag
	Assigned   bool // an order was issued inside the latency window and is not visible yet
}

// WorkerRecords extracts usable workers from a game state. Workers that are
// incomplete, constructing or disabled are left out; latency is the engine's
// command latency in frames.
func WorkerRecords(gs model.GameState, latency int) []WorkerRecord {
	var out []WorkerRecord
	for _, u := range gs.Units {
		if !IsWorkerType(u.Type) || u.BuildType != "" {
			continue
		}
		if !u.Completed || u.Constructing || u.Disabled {
			continue
		}
		out = append(out, WorkerRecord{
			ID:         u.ID,
			Idle:       u.Idle,
			Carrying:   u.Carrying(),
			Encumbered: u.PowerUp,
			Assigned:   u.LastCommandFrame > 0 && gs.Tick-u.LastCommandFrame < latency,
		})
	}
	return out
}

// TaskFor returns the order an idle worker should receive. A carrying worker
// always returns its cargo, even with an order still in flight. Otherwise an
// assigned or encumbered worker gets nothing.
func TaskFor(w WorkerRecord) (WorkerTask, bool) {
	if !w.Idle {
		return 0, false
	}
	if w.Carrying {
		return ReturnCargo, true
	}
	if w.Assigned || w.Encumbered {
		return 0, false
	}
	return GatherNearest, true
}

// WorkerFailure is a worker order the sink refused.
type WorkerFailure struct {
	WorkerID int
	Task     WorkerTask
	Err      error
}

// AssignResult summarizes one pass of the worker loop.
type AssignResult struct {
	Returned int
	Gathered int
	Failures []WorkerFailure
}

// AssignIdleWorkers gives every idle worker a task. Workers are handled
// independently: no source is reserved, so two workers may be sent to the same
// patch, and one refused order does not stop the loop.
func AssignIdleWorkers(workers []WorkerRecord, sink ActionSink) AssignResult {
	var res AssignResult
	for _, w := range workers {
		task, ok := TaskFor(w)
		if !ok {
			continue
		}
		if err := sink.IssueWorkerTask(w.ID, task); err != nil {
			res.Failures = append(res.Failures, WorkerFailure{WorkerID: w.ID, Task: task, Err: err})
			continue
		}
		switch task {
		case ReturnCargo:
			res.Returned++
		case GatherNearest:
			res.Gathered++
		}
	}
	return res
}
