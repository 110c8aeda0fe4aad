package domain

// Simulate runs the survival pass over a submission and returns the
// remaining life and outcome.
//
// Heal is applied after every song, including the last, and one heal
// is subtracted after the loop; the net effect is that the final song
// grants no heal. A deduction exceeding the remaining life fails the
// run immediately with life 0, and any later results are ignored.
// Remaining life is clamped so healing can never push it above the
// starting life.
//
// Note the consequence for an empty result list: the final heal
// subtraction still applies, so the run passes with life - heal. This
// matches the long-standing scoring behavior and is pinned by tests;
// do not "fix" it here without changing the rules announcement.
func Simulate(s Submission) (int, Status) {
	life := s.Life
	for _, t := range s.Results {
		deduction := s.Rule.Deduction(t)
		if life < deduction {
			return 0, Failed
		}
		life -= deduction
		life += s.Heal
	}
	life -= s.Heal
	if life > s.Life {
		life = s.Life
	}
	if life < 0 {
		// Only reachable with an empty result list and heal larger
		// than the life pool; life stays a non-negative quantity.
		life = 0
	}
	return life, Passed
}
