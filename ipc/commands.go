package ipc

// Command type constants. Train, build and worker orders are answered with a
// command_result; draw_text is fire-and-forget.
const (
	TypeTrain       = "train"
	TypeBuild       = "build"
	TypeReturnCargo = "return_cargo"
	TypeGather      = "gather"
	TypeDrawText    = "draw_text"
)

// TrainCommand morphs an idle larva near any owned hatchery into UnitType.
type TrainCommand struct {
	UnitType string `json:"unit_type"`
}

// BuildCommand sends the worker closest to the start location to build
// UnitType at the engine's suggested location.
type BuildCommand struct {
	UnitType string `json:"unit_type"`
}

type WorkerCommand struct {
	ActorID uint32 `json:"actor_id"`
}

// DrawTextCommand shows Lines on screen for Frames frames.
type DrawTextCommand struct {
	X      int      `json:"x"`
	Y      int      `json:"y"`
	Lines  []string `json:"lines"`
	Frames int      `json:"frames"`
}
