package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"guardian/internal/core"
	"guardian/internal/storage"
)

type fakeFacts struct {
	goal    *core.Goal
	status  core.VerdictResult
	goalErr error
	statErr error
}

func (f *fakeFacts) ActiveGoal(_ context.Context, _ string) (*core.Goal, error) {
	return f.goal, f.goalErr
}

func (f *fakeFacts) CheckStatus(_ context.Context, _ string) (core.VerdictResult, error) {
	return f.status, f.statErr
}

type fakeResponder struct {
	reply string
	err   error
	last  Request
}

func (f *fakeResponder) Reply(_ context.Context, req Request) (string, error) {
	f.last = req
	return f.reply, f.err
}

func newTestEngine(facts FactsProvider, responder Responder) *Engine {
	return NewEngine(facts, NewSessionStore(16, time.Minute, 10), responder)
}

func TestProcessMessageUsesResponder(t *testing.T) {
	responder := &fakeResponder{reply: "sure thing"}
	facts := &fakeFacts{status: core.VerdictResult{
		Tier:  core.TierGreen,
		Label: core.TierGreen.Label(),
	}}
	engine := newTestEngine(facts, responder)

	reply, err := engine.ProcessMessage(context.Background(), "u1", "how am I doing?")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if reply.Text != "sure thing" {
		t.Fatalf("reply = %q, want responder output", reply.Text)
	}
	if reply.Intent != IntentCheckStatus {
		t.Fatalf("intent = %s, want %s", reply.Intent, IntentCheckStatus)
	}
	if responder.last.Facts.Status.Tier != core.TierGreen {
		t.Fatalf("responder did not receive observed facts: %+v", responder.last.Facts)
	}
}

func TestProcessMessageFallsBackOnResponderError(t *testing.T) {
	responder := &fakeResponder{err: fmt.Errorf("upstream timeout")}
	engine := newTestEngine(&fakeFacts{statErr: storage.ErrUserNotFound}, responder)

	reply, err := engine.ProcessMessage(context.Background(), "u1", "hello")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if reply.Text == "" {
		t.Fatal("fallback reply should not be empty")
	}
	if !strings.Contains(reply.Text, "financial goals") {
		t.Fatalf("reply = %q, want rule-based general chat text", reply.Text)
	}
}

func TestProcessMessageWithoutResponder(t *testing.T) {
	engine := newTestEngine(&fakeFacts{statErr: storage.ErrUserNotFound}, nil)

	reply, err := engine.ProcessMessage(context.Background(), "u1", "I want to set a goal")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if reply.Intent != IntentSetGoal {
		t.Fatalf("intent = %s, want %s", reply.Intent, IntentSetGoal)
	}
	if !strings.Contains(reply.Text, "set a goal") {
		t.Fatalf("reply = %q, want rule-based goal prompt", reply.Text)
	}
}

func TestProcessMessageRecordsHistory(t *testing.T) {
	responder := &fakeResponder{reply: "noted"}
	engine := newTestEngine(&fakeFacts{statErr: storage.ErrUserNotFound}, responder)

	if _, err := engine.ProcessMessage(context.Background(), "u1", "first"); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if _, err := engine.ProcessMessage(context.Background(), "u1", "second"); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}

	// second call should have seen the first exchange as history
	if len(responder.last.History) != 2 {
		t.Fatalf("history = %d turns, want 2", len(responder.last.History))
	}
	if responder.last.History[0].Content != "first" || responder.last.History[1].Content != "noted" {
		t.Fatalf("unexpected history: %+v", responder.last.History)
	}
}

func TestObserveFirstContact(t *testing.T) {
	engine := newTestEngine(&fakeFacts{
		goalErr: errors.New("db down"),
		statErr: storage.ErrUserNotFound,
	}, nil)

	facts := engine.observe(context.Background(), "new-user")
	if facts.Goal != nil {
		t.Fatalf("goal = %+v, want nil", facts.Goal)
	}
	if facts.Status.Tier != core.TierNoGoal {
		t.Fatalf("tier = %s, want %s", facts.Status.Tier, core.TierNoGoal)
	}
}
