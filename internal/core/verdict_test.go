package core

import "testing"

func activeGoal(targetCents, budgetCents int64) *Goal {
	return &Goal{
		ID:          "g1",
		UserID:      "u1",
		Title:       "Buy a laptop",
		Target:      Money{Cents: targetCents},
		MonthBudget: &Money{Cents: budgetCents},
		Status:      GoalActive,
	}
}

func TestEvaluateStatusTiers(t *testing.T) {
	cases := []struct {
		name       string
		spentCents int64
		want       Tier
		remaining  int64
	}{
		{"comfortably under budget", 200000, TierGreen, 300000},
		{"within budget but below comfort zone", 480000, TierOrange, 20000},
		{"over budget", 600000, TierRed, -100000},
		{"nothing spent", 0, TierGreen, 500000},
	}

	// budget=5000, target=10000, threshold=0.5
	goal := activeGoal(1000000, 500000)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := EvaluateStatus(goal, Money{Cents: tc.spentCents}, DefaultComfortZone)
			if v.Tier != tc.want {
				t.Fatalf("tier = %s, want %s", v.Tier, tc.want)
			}
			if v.Remaining.Cents != tc.remaining {
				t.Fatalf("remaining = %d, want %d", v.Remaining.Cents, tc.remaining)
			}
			if v.Label != tc.want.Label() {
				t.Fatalf("label = %q, want %q", v.Label, tc.want.Label())
			}
		})
	}
}

func TestEvaluateStatusBoundaries(t *testing.T) {
	goal := activeGoal(1000000, 500000)

	// remaining == target*threshold resolves to GREEN, not ORANGE
	v := EvaluateStatus(goal, Money{Cents: 0}, DefaultComfortZone)
	if v.Remaining.Cents != 500000 || v.Tier != TierGreen {
		t.Fatalf("remaining at comfort boundary: tier = %s, remaining = %d", v.Tier, v.Remaining.Cents)
	}

	// remaining == 0 resolves to ORANGE, not RED
	v = EvaluateStatus(goal, Money{Cents: 500000}, DefaultComfortZone)
	if v.Remaining.Cents != 0 || v.Tier != TierOrange {
		t.Fatalf("remaining at zero boundary: tier = %s, remaining = %d", v.Tier, v.Remaining.Cents)
	}

	// one cent either side of the comfort boundary
	v = EvaluateStatus(goal, Money{Cents: 1}, DefaultComfortZone)
	if v.Tier != TierOrange {
		t.Fatalf("one cent below comfort zone: tier = %s, want ORANGE", v.Tier)
	}
	v = EvaluateStatus(goal, Money{Cents: 500001}, DefaultComfortZone)
	if v.Tier != TierRed {
		t.Fatalf("one cent over budget: tier = %s, want RED", v.Tier)
	}
}

func TestEvaluateStatusNoGoal(t *testing.T) {
	cases := []struct {
		name string
		goal *Goal
	}{
		{"nil goal", nil},
		{"no monthly budget configured", &Goal{
			UserID: "u1", Title: "trip", Target: Money{Cents: 100000}, Status: GoalActive,
		}},
		{"goal not active", func() *Goal {
			g := activeGoal(100000, 50000)
			g.Status = GoalAbandoned
			return g
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := EvaluateStatus(tc.goal, Money{Cents: 123400}, DefaultComfortZone)
			if v.Tier != TierNoGoal {
				t.Fatalf("tier = %s, want NO_GOAL", v.Tier)
			}
			if v.Budget.Cents != 0 || v.Remaining.Cents != 0 || v.Target.Cents != 0 {
				t.Fatalf("NO_GOAL verdict should carry no budget arithmetic: %+v", v)
			}
		})
	}
}

func TestEvaluateStatusZeroValues(t *testing.T) {
	// Zero budget and zero target are in-domain: no panic, no error path.
	goal := activeGoal(0, 0)
	v := EvaluateStatus(goal, Money{}, DefaultComfortZone)
	if v.Tier != TierGreen {
		// remaining 0 >= 0*threshold
		t.Fatalf("tier = %s, want GREEN for all-zero input", v.Tier)
	}
	v = EvaluateStatus(goal, Money{Cents: 1}, DefaultComfortZone)
	if v.Tier != TierRed {
		t.Fatalf("tier = %s, want RED when any spend exceeds a zero budget", v.Tier)
	}
}

func TestEvaluatePurchaseProspective(t *testing.T) {
	// before=4000, candidate=900, budget=5000, target=10000 -> remaining after 100 -> ORANGE
	goal := activeGoal(1000000, 500000)
	v := EvaluatePurchase(goal, Money{Cents: 400000}, Money{Cents: 90000}, DefaultComfortZone)
	if v.Tier != TierOrange {
		t.Fatalf("tier = %s, want ORANGE", v.Tier)
	}
	if v.Remaining.Cents != 10000 {
		t.Fatalf("remaining = %d, want 10000", v.Remaining.Cents)
	}

	// The prospective verdict must match evaluating retrospectively after
	// the same transaction has been committed.
	committed := EvaluateStatus(goal, Money{Cents: 490000}, DefaultComfortZone)
	if committed != v {
		t.Fatalf("prospective %+v != retrospective %+v", v, committed)
	}
}

func TestEvaluateStatusIdempotent(t *testing.T) {
	goal := activeGoal(1000000, 500000)
	spend := Money{Cents: 312345}
	first := EvaluateStatus(goal, spend, DefaultComfortZone)
	second := EvaluateStatus(goal, spend, DefaultComfortZone)
	if first != second {
		t.Fatalf("repeated evaluation differs: %+v vs %+v", first, second)
	}
}

func TestTierLabels(t *testing.T) {
	cases := map[Tier]string{
		TierGreen:  "on track",
		TierOrange: "borderline",
		TierRed:    "over budget",
		TierNoGoal: "no goal set",
		Tier("??"): "no goal set",
	}
	for tier, want := range cases {
		if got := tier.Label(); got != want {
			t.Fatalf("%s label = %q, want %q", tier, got, want)
		}
	}
}
