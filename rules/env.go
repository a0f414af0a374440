package rules

// RuleEnv wraps the colony snapshot and script parameters and exposes helper
// methods callable from expr guard expressions.
type RuleEnv struct {
	State  ColonyState
	Params Params
}

func (e RuleEnv) Tick() int            { return e.State.Tick }
func (e RuleEnv) SupplyUsed() int      { return e.State.SupplyUsed }
func (e RuleEnv) SupplyCap() int       { return e.State.SupplyCap }
func (e RuleEnv) FreeSupply() int      { return e.State.FreeSupply() }
func (e RuleEnv) Minerals() int        { return e.State.Minerals }
func (e RuleEnv) Gas() int             { return e.State.Gas }
func (e RuleEnv) Workers() int         { return e.State.WorkerCount }
func (e RuleEnv) LightMelee() int      { return e.State.LightMeleeCount }
func (e RuleEnv) SupplyProviders() int { return e.State.SupplyProviderCount }
func (e RuleEnv) MainProduction() int  { return e.State.MainProductionCount }
func (e RuleEnv) TechStructures() int  { return e.State.TechStructureCount }
func (e RuleEnv) Larvae() int          { return e.State.LarvaCount }

// ReadyTechStructures counts completed tech structures; light-melee training
// needs one.
func (e RuleEnv) ReadyTechStructures() int { return e.State.ReadyTechStructureCount }

func (e RuleEnv) WorkerTarget() int { return e.Params.WorkerTarget }
func (e RuleEnv) SupplyBuffer() int { return e.Params.SupplyBuffer }

// SupplyCost returns the supply cost of the named kind, 0 if unknown.
func (e RuleEnv) SupplyCost(kind string) int {
	k, err := ParseActionKind(kind)
	if err != nil {
		return 0
	}
	return k.Info().Supply
}

// MineralCost returns the mineral cost of the named kind, 0 if unknown.
func (e RuleEnv) MineralCost(kind string) int {
	k, err := ParseActionKind(kind)
	if err != nil {
		return 0
	}
	return k.Info().Minerals
}

// Affordable reports whether the named kind's cost is covered right now.
func (e RuleEnv) Affordable(kind string) bool {
	k, err := ParseActionKind(kind)
	if err != nil {
		return false
	}
	return e.State.CanAfford(k)
}
