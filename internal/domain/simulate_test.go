package domain

import "testing"

func TestSimulateFullRun(t *testing.T) {
	// 500 life, 30 heal: deductions 34, 32, 6, 0 leave 518 after the
	// final heal subtraction, clamped back to the starting life.
	sub := Submission{
		Life: 500,
		Heal: 30,
		Rule: DefaultRule(),
		Results: []Triple{
			{Great: 10, Good: 3, Miss: 1},
			{Great: 13, Good: 2, Miss: 0},
			{Great: 3, Good: 0, Miss: 0},
			{Great: 0, Good: 0, Miss: 0},
		},
	}

	life, status := Simulate(sub)
	if status != Passed {
		t.Errorf("Expected Passed, got %v", status)
	}
	if life != 500 {
		t.Errorf("Expected life 500, got %d", life)
	}
}

func TestSimulateEmptyResults(t *testing.T) {
	// The final heal subtraction applies even when no song was played,
	// so an empty run ends heal points below the starting life. This
	// is long-standing behavior; keep it pinned.
	life, status := Simulate(Submission{Life: 900, Heal: 20, Rule: DefaultRule()})
	if status != Passed {
		t.Errorf("Expected Passed, got %v", status)
	}
	if life != 880 {
		t.Errorf("Expected life 880, got %d", life)
	}
}

func TestSimulateEmptyResultsHealExceedsLife(t *testing.T) {
	life, status := Simulate(Submission{Life: 10, Heal: 30, Rule: DefaultRule()})
	if status != Passed {
		t.Errorf("Expected Passed, got %v", status)
	}
	if life != 0 {
		t.Errorf("Expected life clamped to 0, got %d", life)
	}
}

func TestSimulateFailureShortCircuits(t *testing.T) {
	// The second song's deduction (20 misses = 100) exceeds the
	// remaining life; the perfect third song must be ignored.
	sub := Submission{
		Life: 50,
		Heal: 10,
		Rule: DefaultRule(),
		Results: []Triple{
			{Great: 5, Good: 0, Miss: 0},
			{Great: 0, Good: 0, Miss: 20},
			{Great: 0, Good: 0, Miss: 0},
		},
	}

	life, status := Simulate(sub)
	if status != Failed {
		t.Errorf("Expected Failed, got %v", status)
	}
	if life != 0 {
		t.Errorf("Expected life 0 on failure, got %d", life)
	}
}

func TestSimulateExactDeductionSurvives(t *testing.T) {
	// A deduction equal to the remaining life is survivable; only a
	// strictly larger one fails the run.
	sub := Submission{
		Life:    10,
		Heal:    0,
		Rule:    DefaultRule(),
		Results: []Triple{{Great: 5, Good: 0, Miss: 0}},
	}

	life, status := Simulate(sub)
	if status != Passed {
		t.Errorf("Expected Passed, got %v", status)
	}
	if life != 0 {
		t.Errorf("Expected life 0, got %d", life)
	}
}

func TestSimulateNeverExceedsStartingLife(t *testing.T) {
	sub := Submission{
		Life: 100,
		Heal: 50,
		Rule: DefaultRule(),
		Results: []Triple{
			{Great: 1, Good: 0, Miss: 0},
			{Great: 1, Good: 0, Miss: 0},
			{Great: 1, Good: 0, Miss: 0},
		},
	}

	life, status := Simulate(sub)
	if status != Passed {
		t.Errorf("Expected Passed, got %v", status)
	}
	if life != 100 {
		t.Errorf("Expected life clamped to 100, got %d", life)
	}
}

func TestSimulateCustomRule(t *testing.T) {
	sub := Submission{
		Life:    100,
		Heal:    0,
		Rule:    Rule{Great: 1, Good: 2, Miss: 10},
		Results: []Triple{{Great: 10, Good: 5, Miss: 1}},
	}

	life, status := Simulate(sub)
	if status != Passed {
		t.Errorf("Expected Passed, got %v", status)
	}
	if life != 70 {
		t.Errorf("Expected life 70, got %d", life)
	}
}

func TestSimulateIsPure(t *testing.T) {
	sub := Submission{
		Life: 500,
		Heal: 30,
		Rule: DefaultRule(),
		Results: []Triple{
			{Great: 10, Good: 3, Miss: 1},
			{Great: 13, Good: 2, Miss: 0},
		},
	}

	life1, status1 := Simulate(sub)
	life2, status2 := Simulate(sub)
	if life1 != life2 || status1 != status2 {
		t.Errorf("Simulate is not deterministic: (%d,%v) vs (%d,%v)", life1, status1, life2, status2)
	}
}

func TestRuleDeduction(t *testing.T) {
	tests := []struct {
		name   string
		rule   Rule
		triple Triple
		want   int
	}{
		{"default rule", DefaultRule(), Triple{Great: 10, Good: 3, Miss: 1}, 34},
		{"all zero", DefaultRule(), Triple{}, 0},
		{"miss heavy", Rule{Great: 1, Good: 1, Miss: 100}, Triple{Miss: 2}, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Deduction(tt.triple); got != tt.want {
				t.Errorf("Expected deduction %d, got %d", tt.want, got)
			}
		})
	}
}
