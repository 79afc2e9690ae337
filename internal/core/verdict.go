package core

const (
	TierGreen  Tier = "GREEN"
	TierOrange Tier = "ORANGE"
	TierRed    Tier = "RED"
	TierNoGoal Tier = "NO_GOAL"
)

// DefaultComfortZone is the fraction of the savings target that marks the
// GREEN/ORANGE boundary when no threshold is configured.
const DefaultComfortZone = 0.5

type (
	// Tier is the three-level budget verdict, plus the NO_GOAL sentinel
	// for users without an active goal or configured monthly budget.
	Tier string

	// VerdictResult is computed fresh on every evaluation and never
	// persisted; spending can change between calls.
	VerdictResult struct {
		Tier       Tier
		Label      string
		TotalSpent Money
		Budget     Money
		Remaining  Money
		Target     Money
		GoalTitle  string
	}
)

// Label returns the short machine-readable label for a tier.
func (t Tier) Label() string {
	switch t {
	case TierGreen:
		return "on track"
	case TierOrange:
		return "borderline"
	case TierRed:
		return "over budget"
	default:
		return "no goal set"
	}
}

// EvaluateBudget applies the threshold policy to an already-aggregated
// monthly total. remaining = budget - totalSpent; GREEN at or above
// target*threshold remaining, ORANGE down to zero inclusive, RED below.
// Boundary values resolve to the better tier.
func EvaluateBudget(totalSpent, budget, target Money, goalTitle string, threshold float64) VerdictResult {
	remaining := Money{Cents: budget.Cents - totalSpent.Cents}

	var tier Tier
	switch {
	case float64(remaining.Cents) >= float64(target.Cents)*threshold:
		tier = TierGreen
	case remaining.Cents >= 0:
		tier = TierOrange
	default:
		tier = TierRed
	}

	return VerdictResult{
		Tier:       tier,
		Label:      tier.Label(),
		TotalSpent: totalSpent,
		Budget:     budget,
		Remaining:  remaining,
		Target:     target,
		GoalTitle:  goalTitle,
	}
}

// EvaluateStatus is the retrospective form: it judges the present state
// from the persisted monthly non-essential total. Without an active goal
// or a configured budget it returns the NO_GOAL sentinel before touching
// any budget arithmetic.
func EvaluateStatus(goal *Goal, monthSpend Money, threshold float64) VerdictResult {
	if goal == nil || goal.Status != GoalActive || goal.MonthBudget == nil {
		return VerdictResult{
			Tier:       TierNoGoal,
			Label:      TierNoGoal.Label(),
			TotalSpent: monthSpend,
		}
	}
	return EvaluateBudget(monthSpend, *goal.MonthBudget, goal.Target, goal.Title, threshold)
}

// EvaluatePurchase is the prospective form: it judges what happens after
// adding a candidate amount to the monthly total before it, without
// committing the transaction. The tier logic is shared with
// EvaluateStatus; only the input differs.
func EvaluatePurchase(goal *Goal, monthSpendBefore, candidate Money, threshold float64) VerdictResult {
	after := Money{Cents: monthSpendBefore.Cents + candidate.Cents}
	return EvaluateStatus(goal, after, threshold)
}
