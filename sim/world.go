// Package sim is a small deterministic Zerg economy: mining income, larva
// spawning, eggs, drone-to-structure morphs and command latency. It produces
// the same game states the bridge sends and accepts the same commands, so the
// decision core can be driven end to end without a game.
package sim

import (
	"sort"

	"github.com/nstehr/overmind/model"
	"github.com/nstehr/overmind/rules"
)

// Config tunes the economy. Times are in frames.
type Config struct {
	Player          string
	LatencyFrames   int
	StartMinerals   int
	StartWorkers    int
	StartLarvae     int
	MineralsPerTrip int
	TripFrames      int
	LarvaInterval   int
	MaxLarvae       int // per hatchery
	BuildSites      int // structures the map has room for
}

// DefaultConfig matches a standard melee start.
func DefaultConfig() Config {
	return Config{
		Player:          "Overmind",
		LatencyFrames:   6,
		StartMinerals:   50,
		StartWorkers:    4,
		StartLarvae:     3,
		MineralsPerTrip: 8,
		TripFrames:      280,
		LarvaInterval:   342,
		MaxLarvae:       3,
		BuildSites:      8,
	}
}

type unit struct {
	model.Unit
	remaining  int // frames until the current morph completes
	tripLeft   int // frames until the next mining delivery
	larvaTimer int
	hatchID    int // hatchery a larva belongs to
}

type command struct {
	due      int
	kind     rules.ActionKind
	worker   int
	task     rules.WorkerTask
	isWorker bool
}

// World is the simulated game. It is not safe for concurrent use.
type World struct {
	cfg      Config
	tick     int
	minerals int
	units    map[int]*unit
	nextID   int
	pending  []command
	dropped  int
}

// New creates a world with one hatchery, an overlord, workers and larvae.
func New(cfg Config) *World {
	if cfg.LatencyFrames < 1 {
		cfg.LatencyFrames = 1
	}
	w := &World{
		cfg:      cfg,
		minerals: cfg.StartMinerals,
		units:    make(map[int]*unit),
		nextID:   1,
	}
	hatch := w.spawn(rules.Hatchery, true)
	hatch.larvaTimer = cfg.LarvaInterval
	w.spawn(rules.Overlord, true)
	for range cfg.StartWorkers {
		w.spawn(rules.Drone, true)
	}
	for range cfg.StartLarvae {
		l := w.spawn(rules.Larva, true)
		l.hatchID = hatch.ID
	}
	return w
}

func (w *World) spawn(typ string, completed bool) *unit {
	u := &unit{Unit: model.Unit{ID: w.nextID, Type: typ, Completed: completed, Idle: true}}
	w.units[u.ID] = u
	w.nextID++
	return u
}

func (w *World) Tick() int     { return w.tick }
func (w *World) Minerals() int { return w.minerals }

// Dropped counts accepted commands that the engine could no longer carry out
// once their latency elapsed.
func (w *World) Dropped() int { return w.dropped }

// Count returns how many units of typ exist, including ones still morphing
// into typ.
func (w *World) Count(typ string) int {
	n := 0
	for _, u := range w.units {
		if u.EffectiveType() == typ {
			n++
		}
	}
	return n
}

// State returns the current game state as the bridge would send it.
func (w *World) State() model.GameState {
	ids := make([]int, 0, len(w.units))
	for id := range w.units {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	units := make([]model.Unit, 0, len(ids))
	for _, id := range ids {
		units = append(units, w.units[id].Unit)
	}
	return model.GameState{
		Tick:          w.tick,
		LatencyFrames: w.cfg.LatencyFrames,
		Player: model.Player{
			Name:        w.cfg.Player,
			Race:        "Zerg",
			Minerals:    w.minerals,
			SupplyUsed:  w.supplyUsed(),
			SupplyTotal: w.supplyTotal(),
		},
		Units: units,
	}
}

// supplyUsed is in display units; a zergling takes half a slot.
func (w *World) supplyUsed() int {
	half := 0
	for _, u := range w.units {
		switch {
		case u.Type == rules.Drone && u.BuildType == "":
			half += 2
		case u.Type == rules.Zergling:
			half++
		case u.Type == rules.Egg && (u.BuildType == rules.Drone || u.BuildType == rules.Zergling):
			half += 2
		}
	}
	return (half + 1) / 2
}

func (w *World) supplyTotal() int {
	total := 0
	for _, u := range w.units {
		if !u.Completed || u.BuildType != "" {
			continue
		}
		switch u.Type {
		case rules.Hatchery, rules.Lair, rules.Hive:
			total++
		case rules.Overlord:
			total += 8
		}
	}
	return min(total, 200)
}

// Advance runs the world forward by frames.
func (w *World) Advance(frames int) {
	for range frames {
		w.tick++
		w.applyDue()
		w.step()
	}
}

func (w *World) applyDue() {
	keep := w.pending[:0]
	for _, c := range w.pending {
		if c.due > w.tick {
			keep = append(keep, c)
			continue
		}
		var ok bool
		if c.isWorker {
			ok = w.applyWorkerTask(c.worker, c.task)
		} else {
			ok = w.applyProduction(c.kind)
		}
		if !ok {
			w.dropped++
		}
	}
	w.pending = keep
}

func (w *World) step() {
	ids := make([]int, 0, len(w.units))
	for id := range w.units {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		u := w.units[id]
		switch {
		case u.BuildType != "":
			u.remaining--
			if u.remaining <= 0 {
				w.finishMorph(u)
			}
		case u.Type == rules.Drone && !u.Idle:
			u.tripLeft--
			if u.tripLeft <= 0 {
				w.minerals += w.cfg.MineralsPerTrip
				u.tripLeft = w.cfg.TripFrames
			}
		case isHatchery(u.Type) && u.Completed:
			if w.larvaeOf(u.ID) >= w.cfg.MaxLarvae {
				u.larvaTimer = w.cfg.LarvaInterval
				continue
			}
			u.larvaTimer--
			if u.larvaTimer <= 0 {
				l := w.spawn(rules.Larva, true)
				l.hatchID = u.ID
				u.larvaTimer = w.cfg.LarvaInterval
			}
		}
	}
}

func (w *World) finishMorph(u *unit) {
	typ := u.BuildType
	u.Type = typ
	u.BuildType = ""
	u.Completed = true
	u.Constructing = false
	u.Idle = true
	if isHatchery(typ) {
		u.larvaTimer = w.cfg.LarvaInterval
	}
	if typ == rules.Zergling {
		w.spawn(rules.Zergling, true)
	}
}

func (w *World) larvaeOf(hatchID int) int {
	n := 0
	for _, u := range w.units {
		if u.Type == rules.Larva && u.hatchID == hatchID {
			n++
		}
	}
	return n
}

func isHatchery(t string) bool {
	return t == rules.Hatchery || t == rules.Lair || t == rules.Hive
}

// Run feeds each frame's state to step, then advances one frame, until
// frames have elapsed.
func (w *World) Run(frames int, step func(gs model.GameState, sink rules.ActionSink)) {
	for end := w.tick + frames; w.tick < end; {
		step(w.State(), w)
		w.Advance(1)
	}
}
