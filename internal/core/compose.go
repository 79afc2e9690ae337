package core

import "fmt"

type (
	// Notification is the rendered form of a verdict: a short label, the
	// human-facing message text, and a structured payload for
	// programmatic consumers. Rendering is pure; delivery belongs to the
	// caller.
	Notification struct {
		Label   string
		Text    string
		Payload NotificationPayload
	}

	NotificationPayload struct {
		Tier             Tier    `json:"tier"`
		Label            string  `json:"label"`
		GoalTitle        string  `json:"goal_title,omitempty"`
		TotalSpent       string  `json:"total_spent"`
		Budget           string  `json:"budget"`
		Remaining        string  `json:"remaining"`
		RemainingDisplay string  `json:"remaining_display"`
		SavingGoalTarget string  `json:"saving_goal_target"`
		TransactionID    string  `json:"transaction_id,omitempty"`
		Amount           string  `json:"amount,omitempty"`
		Merchant         string  `json:"merchant,omitempty"`
		Category         string  `json:"category,omitempty"`
		Threshold        float64 `json:"-"`
	}
)

// tierSymbols maps each tier to its presentation symbol. The empty key is
// the fallback for unknown tiers.
var tierSymbols = map[Tier]string{
	TierGreen:  "\U0001F7E2", // green circle
	TierOrange: "\U0001F7E0", // orange circle
	TierRed:    "\U0001F534", // red circle
	"":         "⚪",     // white circle fallback
}

// Symbol returns the presentation symbol for a tier.
func (t Tier) Symbol() string {
	if s, ok := tierSymbols[t]; ok {
		return s
	}
	return tierSymbols[""]
}

// ComposeNotification renders a verdict into a notification. tx is the
// triggering transaction when evaluating a purchase, nil for a plain
// status check. The displayed remaining budget is clamped at zero; the
// clamp is presentation-only and never feeds back into the arithmetic.
func ComposeNotification(v VerdictResult, tx *Transaction) Notification {
	display := v.Remaining
	if display.Cents < 0 {
		display = Money{}
	}

	payload := NotificationPayload{
		Tier:             v.Tier,
		Label:            v.Label,
		GoalTitle:        v.GoalTitle,
		TotalSpent:       v.TotalSpent.String(),
		Budget:           v.Budget.String(),
		Remaining:        v.Remaining.String(),
		RemainingDisplay: display.String(),
		SavingGoalTarget: v.Target.String(),
	}
	if tx != nil {
		payload.TransactionID = tx.ID
		payload.Amount = tx.Amount.String()
		payload.Merchant = tx.Merchant
		payload.Category = string(tx.Category)
	}

	return Notification{
		Label:   v.Label,
		Text:    notificationText(v, tx, display),
		Payload: payload,
	}
}

func notificationText(v VerdictResult, tx *Transaction, display Money) string {
	if v.Tier == TierNoGoal {
		return "You haven't set a savings goal yet. Tell me what you're saving for and I'll keep an eye on your spending."
	}

	if tx == nil {
		return fmt.Sprintf(
			"%s This month you've spent ₹%s of your ₹%s non-essential budget.\n"+
				"Your %q savings target is ₹%s and you're %s.\n"+
				"Budget left this month: ₹%s.",
			v.Tier.Symbol(), v.TotalSpent, v.Budget,
			v.GoalTitle, v.Target, v.Label,
			display,
		)
	}

	return fmt.Sprintf(
		"%s You just spent ₹%s on %s.\n"+
			"This month you want to save ₹%s.\n"+
			"Based on your current spending, this purchase is %s.\n\n"+
			"Approx. non-essential budget left this month after this: ₹%s.\n"+
			"If you want, we can adjust something else to keep you on track. \U0001F4B8",
		v.Tier.Symbol(), tx.Amount, tx.Merchant,
		v.Target, v.Label,
		display,
	)
}
