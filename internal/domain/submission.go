package domain

// Triple is the per-song judgment count driving the life deduction.
type Triple struct {
	Great int `json:"great"`
	Good  int `json:"good"`
	Miss  int `json:"miss"`
}

// Rule is the per-category weight set converting a judgment triple
// into a life deduction.
type Rule struct {
	Great int `json:"great"`
	Good  int `json:"good"`
	Miss  int `json:"miss"`
}

// DefaultRule is the standard course rule.
func DefaultRule() Rule {
	return Rule{Great: 2, Good: 3, Miss: 5}
}

// Deduction returns the life cost of one song under this rule.
func (r Rule) Deduction(t Triple) int {
	return t.Great*r.Great + t.Good*r.Good + t.Miss*r.Miss
}

// Submission is one course attempt ready for simulation. The rule is
// always concrete here; resolving an optional custom rule against the
// default is the caller's job.
type Submission struct {
	Life    int
	Heal    int
	Rule    Rule
	Results []Triple
}
