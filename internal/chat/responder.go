package chat

import (
	"context"
	"fmt"
	"strings"

	"guardian/internal/core"
)

type (
	// Facts is the observed financial context handed to a responder.
	Facts struct {
		Goal   *core.Goal
		Status core.VerdictResult
	}

	// Request is one chat exchange to answer.
	Request struct {
		UserID  string
		Message string
		Intent  Intent
		History []Turn
		Facts   Facts
	}

	// Responder produces a reply for a chat request. Implementations may
	// fail; the engine substitutes the rule-based responder per call.
	Responder interface {
		Reply(ctx context.Context, req Request) (string, error)
	}
)

// RuleResponder is the deterministic fallback: templated replies per
// intent from the observed facts. It never fails and is always available.
type RuleResponder struct{}

func (RuleResponder) Reply(_ context.Context, req Request) (string, error) {
	switch req.Intent {
	case IntentSetGoal:
		return "I'd love to help you set a goal! What are you saving for? \U0001F3AF", nil

	case IntentCheckStatus, IntentAnalyzeSpending:
		status := req.Facts.Status
		if status.Tier == core.TierNoGoal {
			return "You haven't set a goal yet. Want to create one? \U0001F3AF", nil
		}
		return fmt.Sprintf(
			"You've spent ₹%s out of ₹%s this month. You have ₹%s left! \U0001F4B0 Right now you're %s.",
			status.TotalSpent, status.Budget, status.Remaining, status.Label), nil

	default:
		return "I'm here to help you with your financial goals! You can ask me about your spending, set goals, or check your progress. \U0001F60A", nil
	}
}

// FormatFacts renders the observed context as a text block for prompts.
func FormatFacts(f Facts) string {
	var parts []string

	if f.Goal != nil {
		parts = append(parts, fmt.Sprintf("Active goal: %s, ₹%s of ₹%s (%.0f%%)",
			f.Goal.Title, f.Goal.Current, f.Goal.Target, f.Goal.ProgressPercentage()))
	} else {
		parts = append(parts, "No active goals set.")
	}

	if f.Status.Tier != core.TierNoGoal && f.Status.Tier != "" {
		parts = append(parts, fmt.Sprintf("Budget status: %s (%s)\nSpent: ₹%s / ₹%s\nRemaining: ₹%s",
			f.Status.Tier, f.Status.Label, f.Status.TotalSpent, f.Status.Budget, f.Status.Remaining))
	}

	return strings.Join(parts, "\n\n")
}
