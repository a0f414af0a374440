package rules

import "fmt"

// CompileScript turns a script into prioritized rules. Priorities descend in
// list order so the first step of a phase is tried first; the conditions are
// compiled to expr bytecode later by NewEngine. s is not modified.
func CompileScript(s Script) ([]*Rule, error) {
	v, err := s.validated()
	if err != nil {
		return nil, err
	}
	return v.rules(), nil
}

// validated returns a clamped and checked copy of s.
func (s Script) validated() (Script, error) {
	c := s.Clone()
	if err := c.Validate(); err != nil {
		return Script{}, fmt.Errorf("invalid script: %w", err)
	}
	return c, nil
}

func (s Script) rules() []*Rule {
	var rules []*Rule
	add := func(phase Phase, steps []Step) {
		for i, st := range steps {
			kind, _ := ParseActionKind(st.Kind) // checked by Validate
			cond := st.Guard
			if cond == "" {
				cond = "true"
			}
			rules = append(rules, &Rule{
				Name:         st.Name,
				Priority:     1000 - 10*i,
				Phase:        phase,
				MinSupply:    st.Supply,
				Kind:         kind,
				ConditionSrc: cond,
			})
		}
	}
	add(PhaseScripted, s.Scripted)
	add(PhaseSteady, s.Steady)
	return rules
}
