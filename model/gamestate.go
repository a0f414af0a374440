package model

// GameState is the per-frame view the engine bridge sends. Supply values are in
// whole display units (the bridge halves BWAPI's doubled supply).
type GameState struct {
	Tick          int    `json:"tick"`
	LatencyFrames int    `json:"latencyFrames"`
	Replay        bool   `json:"replay"`
	Paused        bool   `json:"paused"`
	Player        Player `json:"player"`
	Units         []Unit `json:"units"`
}

type Player struct {
	Name        string `json:"name"`
	Race        string `json:"race"`
	Minerals    int    `json:"minerals"`
	Gas         int    `json:"gas"`
	SupplyUsed  int    `json:"supplyUsed"`
	SupplyTotal int    `json:"supplyTotal"`
}

// Unit is an owned unit or structure. BuildType is set while the unit is
// becoming something else (an egg, or a drone morphing into a structure).
type Unit struct {
	ID               int    `json:"id"`
	Type             string `json:"type"`
	BuildType        string `json:"buildType,omitempty"`
	X                int    `json:"x"`
	Y                int    `json:"y"`
	Idle             bool   `json:"idle"`
	Completed        bool   `json:"completed"`
	Constructing     bool   `json:"constructing"`
	Disabled         bool   `json:"disabled"` // locked down, stasis, maelstrom, loaded, unpowered or stuck
	CarryingMinerals bool   `json:"carryingMinerals"`
	CarryingGas      bool   `json:"carryingGas"`
	PowerUp          bool   `json:"powerUp"`
	LastCommandFrame int    `json:"lastCommandFrame"`
}

func (u Unit) TypeName() string { return u.Type }

// EffectiveType is what the unit counts as: the type being produced when one
// is in progress, otherwise its current type.
func (u Unit) EffectiveType() string {
	if u.BuildType != "" {
		return u.BuildType
	}
	return u.Type
}

// Carrying reports whether the unit holds a resource it should return.
func (u Unit) Carrying() bool { return u.CarryingMinerals || u.CarryingGas }
