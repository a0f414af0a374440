package sim

import (
	"fmt"

	"github.com/nstehr/overmind/rules"
)

// IssueProduction checks the order against the current state the way the
// engine does, then queues it. It takes effect LatencyFrames later, and is
// dropped then if it can no longer be carried out.
func (w *World) IssueProduction(kind rules.ActionKind) error {
	if code := w.checkProduction(kind); code != "" {
		return rules.NewActionError(kind, code)
	}
	w.pending = append(w.pending, command{due: w.tick + w.cfg.LatencyFrames, kind: kind})
	return nil
}

// IssueWorkerTask queues a worker order.
func (w *World) IssueWorkerTask(workerID int, task rules.WorkerTask) error {
	u, ok := w.units[workerID]
	if !ok || u.Type != rules.Drone || u.BuildType != "" {
		return fmt.Errorf("%s worker %d: %w", task, workerID, rules.ErrorFromCode("unit_does_not_exist"))
	}
	u.LastCommandFrame = w.tick
	w.pending = append(w.pending, command{due: w.tick + w.cfg.LatencyFrames, worker: workerID, task: task, isWorker: true})
	return nil
}

func (w *World) checkProduction(kind rules.ActionKind) string {
	if !kind.Valid() {
		return "invalid_parameter"
	}
	info := kind.Info()
	if w.minerals < info.Minerals {
		return "insufficient_minerals"
	}
	if info.Structure {
		if w.freeDrone() == nil {
			return "no_worker"
		}
		if w.structures() >= w.cfg.BuildSites {
			return "no_build_location"
		}
		return ""
	}
	if info.Supply > 0 && w.supplyTotal()-w.supplyUsed() < info.Supply {
		return "insufficient_supply"
	}
	if kind == rules.TrainLightMelee && !w.hasReady(rules.SpawningPool) {
		return "insufficient_tech"
	}
	if w.freeLarva() == nil {
		return "no_larva"
	}
	return ""
}

func (w *World) applyProduction(kind rules.ActionKind) bool {
	if w.checkProduction(kind) != "" {
		return false
	}
	info := kind.Info()
	var u *unit
	if info.Structure {
		u = w.freeDrone()
		u.Constructing = true
	} else {
		u = w.freeLarva()
		u.Type = rules.Egg
	}
	w.minerals -= info.Minerals
	u.BuildType = info.UnitType
	u.Completed = false
	u.Idle = false
	u.remaining = info.BuildTime
	return true
}

func (w *World) applyWorkerTask(id int, task rules.WorkerTask) bool {
	u, ok := w.units[id]
	if !ok || u.Type != rules.Drone || u.BuildType != "" {
		return false
	}
	if task == rules.ReturnCargo {
		if u.Carrying() {
			w.minerals += w.cfg.MineralsPerTrip
			u.CarryingMinerals = false
			u.CarryingGas = false
		}
	}
	u.Idle = false
	if u.tripLeft <= 0 {
		u.tripLeft = w.cfg.TripFrames
	}
	return true
}

// freeDrone returns the lowest-id completed drone that is not morphing.
func (w *World) freeDrone() *unit {
	return w.first(func(u *unit) bool {
		return u.Type == rules.Drone && u.BuildType == "" && u.Completed
	})
}

func (w *World) freeLarva() *unit {
	return w.first(func(u *unit) bool { return u.Type == rules.Larva })
}

func (w *World) hasReady(typ string) bool {
	return w.first(func(u *unit) bool { return u.Type == typ && u.Completed && u.BuildType == "" }) != nil
}

func (w *World) structures() int {
	n := 0
	for _, u := range w.units {
		if rules.IsStructureType(u.EffectiveType()) {
			n++
		}
	}
	return n
}

func (w *World) first(match func(*unit) bool) *unit {
	var best *unit
	for _, u := range w.units {
		if match(u) && (best == nil || u.ID < best.ID) {
			best = u
		}
	}
	return best
}
