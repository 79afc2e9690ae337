package chat

import "strings"

const (
	IntentSetGoal         Intent = "set_goal"
	IntentCheckStatus     Intent = "check_status"
	IntentAnalyzeSpending Intent = "analyze_spending"
	IntentGeneralChat     Intent = "general_chat"
)

// Intent is the closed set of things a user can ask the assistant for.
type Intent string

var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentSetGoal, []string{"goal", "save", "want to buy", "planning"}},
	{IntentCheckStatus, []string{"status", "how am i", "progress", "doing"}},
	{IntentAnalyzeSpending, []string{"spent", "spending", "budget", "transactions"}},
}

// ClassifyIntent maps free text onto an intent by keyword matching.
// Earlier entries win when a message matches several groups; anything
// unmatched is general chat.
func ClassifyIntent(text string) Intent {
	lower := strings.ToLower(text)
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.intent
			}
		}
	}
	return IntentGeneralChat
}
