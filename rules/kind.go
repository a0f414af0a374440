package rules

import (
	"fmt"
	"strings"
)

// ActionKind is the closed set of production and construction actions the
// evaluator can choose among.
type ActionKind int

const (
	TrainWorker ActionKind = iota
	TrainLightMelee
	TrainSupplyProvider
	BuildTechStructure
	BuildMainProduction
)

// NumKinds is the number of defined action kinds.
const NumKinds = int(BuildMainProduction) + 1

// KindInfo is the fixed metadata of an action kind. Supply is in display
// units; BuildTime is in frames.
type KindInfo struct {
	Name           string
	UnitType       string
	Minerals       int
	Gas            int
	Supply         int
	SupplyProvided int
	BuildTime      int
	Structure      bool
}

var kindInfo = [NumKinds]KindInfo{
	TrainWorker:         {Name: "TrainWorker", UnitType: Drone, Minerals: 50, Supply: 1, BuildTime: 300},
	TrainLightMelee:     {Name: "TrainLightMelee", UnitType: Zergling, Minerals: 50, Supply: 1, BuildTime: 420},
	TrainSupplyProvider: {Name: "TrainSupplyProvider", UnitType: Overlord, Minerals: 100, SupplyProvided: 8, BuildTime: 600},
	BuildTechStructure:  {Name: "BuildTechStructure", UnitType: SpawningPool, Minerals: 200, BuildTime: 1200, Structure: true},
	BuildMainProduction: {Name: "BuildMainProduction", UnitType: Hatchery, Minerals: 300, SupplyProvided: 1, BuildTime: 1800, Structure: true},
}

// Info returns the kind's metadata. Unknown kinds return a zero KindInfo.
func (k ActionKind) Info() KindInfo {
	if !k.Valid() {
		return KindInfo{}
	}
	return kindInfo[k]
}

func (k ActionKind) Valid() bool { return k >= 0 && int(k) < NumKinds }

func (k ActionKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
	return kindInfo[k].Name
}

// Kinds returns every action kind in declaration order.
func Kinds() []ActionKind {
	out := make([]ActionKind, NumKinds)
	for i := range out {
		out[i] = ActionKind(i)
	}
	return out
}

// ParseActionKind resolves a kind by name (case-insensitive) or by engine unit type.
func ParseActionKind(s string) (ActionKind, error) {
	for i, info := range kindInfo {
		if strings.EqualFold(s, info.Name) || strings.EqualFold(s, info.UnitType) {
			return ActionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action kind %q", s)
}
