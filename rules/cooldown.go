package rules

// CooldownTable holds the earliest tick at which each action kind may be
// issued again. Engine-side counts lag issued commands by several frames, so
// an armed kind is treated as not fireable even when its raw predicate holds.
//
// Entries are never removed; an expired entry is inert and re-arming
// overwrites it.
type CooldownTable struct {
	retry [NumKinds]int
	armed [NumKinds]bool
}

func NewCooldownTable() *CooldownTable {
	return &CooldownTable{}
}

// Arm makes kind ineligible until tick+duration.
func (c *CooldownTable) Arm(kind ActionKind, tick, duration int) {
	if !kind.Valid() {
		return
	}
	c.retry[kind] = tick + duration
	c.armed[kind] = true
}

// IsEligible reports whether kind may fire at tick: never armed, or tick has
// reached the stored retry tick.
func (c *CooldownTable) IsEligible(kind ActionKind, tick int) bool {
	if !kind.Valid() {
		return false
	}
	return !c.armed[kind] || tick >= c.retry[kind]
}

// RetryTick returns the stored retry tick and whether kind was ever armed.
func (c *CooldownTable) RetryTick(kind ActionKind) (int, bool) {
	if !kind.Valid() {
		return 0, false
	}
	return c.retry[kind], c.armed[kind]
}

// Remaining returns how many ticks are left before kind is eligible (0 if eligible).
func (c *CooldownTable) Remaining(kind ActionKind, tick int) int {
	if !kind.Valid() || c.IsEligible(kind, tick) {
		return 0
	}
	return c.retry[kind] - tick
}
