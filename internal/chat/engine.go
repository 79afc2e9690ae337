package chat

import (
	"context"
	"errors"
	"log/slog"

	"guardian/internal/core"
	"guardian/internal/storage"
)

type (
	// FactsProvider supplies the financial facts a reply is grounded on.
	FactsProvider interface {
		ActiveGoal(ctx context.Context, userID string) (*core.Goal, error)
		CheckStatus(ctx context.Context, userID string) (core.VerdictResult, error)
	}

	// Reply is the engine's answer to one user message.
	Reply struct {
		Text   string
		Intent Intent
	}

	// Engine processes chat messages: it observes the user's financial
	// facts, asks the configured responder for a reply, and records the
	// exchange in the session store. The rule-based responder always
	// backs the primary one; an upstream failure is substituted per
	// call, never surfaced to the user.
	Engine struct {
		facts     FactsProvider
		store     *SessionStore
		responder Responder
		fallback  RuleResponder
	}
)

// NewEngine builds a chat engine. responder may be nil, in which case
// only the rule-based responder is used.
func NewEngine(facts FactsProvider, store *SessionStore, responder Responder) *Engine {
	return &Engine{
		facts:     facts,
		store:     store,
		responder: responder,
	}
}

// ProcessMessage answers one user message.
func (e *Engine) ProcessMessage(ctx context.Context, userID, message string) (Reply, error) {
	req := Request{
		UserID:  userID,
		Message: message,
		Intent:  ClassifyIntent(message),
		History: e.store.History(userID),
		Facts:   e.observe(ctx, userID),
	}

	text := e.answer(ctx, req)

	e.store.Append(userID, RoleUser, message)
	e.store.Append(userID, RoleAssistant, text)

	return Reply{Text: text, Intent: req.Intent}, nil
}

// observe gathers goal and budget facts. A user the ledger has never
// seen simply has no facts yet; that is not an error here.
func (e *Engine) observe(ctx context.Context, userID string) Facts {
	facts := Facts{Status: core.VerdictResult{Tier: core.TierNoGoal, Label: core.TierNoGoal.Label()}}

	goal, err := e.facts.ActiveGoal(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load goal for chat", "user_id", userID, "error", err)
	} else {
		facts.Goal = goal
	}

	status, err := e.facts.CheckStatus(ctx, userID)
	switch {
	case err == nil:
		facts.Status = status
	case errors.Is(err, storage.ErrUserNotFound):
		// first contact: keep NO_GOAL facts
	default:
		slog.WarnContext(ctx, "Failed to load status for chat", "user_id", userID, "error", err)
	}

	return facts
}

func (e *Engine) answer(ctx context.Context, req Request) string {
	if e.responder != nil {
		text, err := e.responder.Reply(ctx, req)
		if err == nil {
			return text
		}
		slog.WarnContext(ctx, "Responder failed, using rule-based fallback",
			"user_id", req.UserID,
			"intent", req.Intent,
			"error", err)
	}

	text, _ := e.fallback.Reply(ctx, req)
	return text
}
