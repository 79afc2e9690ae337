package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"guardian/internal/amqp"
	"guardian/internal/core"
	"guardian/internal/storage"
)

// fakeLedger is an in-memory Ledger for service tests.
type fakeLedger struct {
	users map[string]core.User
	goals map[string]core.Goal // active goal per user
	txs   []core.Transaction

	createCalls int
	failCreate  bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		users: make(map[string]core.User),
		goals: make(map[string]core.Goal),
	}
}

func (f *fakeLedger) UpsertUser(_ context.Context, id string, now time.Time) (core.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	u := core.User{ID: id, CreatedAt: now}
	f.users[id] = u
	return u, nil
}

func (f *fakeLedger) GetUser(_ context.Context, id string) (core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return core.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeLedger) ReplaceActiveGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	f.goals[g.UserID] = g
	return g, nil
}

func (f *fakeLedger) GetActiveGoal(_ context.Context, userID string) (*core.Goal, error) {
	g, ok := f.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (f *fakeLedger) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	f.createCalls++
	if f.failCreate {
		return core.Transaction{}, fmt.Errorf("disk full")
	}
	f.txs = append(f.txs, t)
	return t, nil
}

func (f *fakeLedger) GetTransactionsSince(_ context.Context, userID string, since time.Time) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.txs {
		if t.UserID == userID && !t.Timestamp.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []*amqp.NotificationMessage
	fail      bool
}

func (f *fakePublisher) PublishNotification(_ context.Context, msg *amqp.NotificationMessage) error {
	if f.fail {
		return fmt.Errorf("broker down")
	}
	f.published = append(f.published, msg)
	return nil
}

func newTestService(ledger Ledger, pub Publisher) *GuardianService {
	s := NewGuardianService(ledger, pub, core.DefaultComfortZone)
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	seq := 0
	s.newID = func() string { seq++; return fmt.Sprintf("id-%d", seq) }
	return s
}

func setGoal(t *testing.T, s *GuardianService, userID string, targetCents, budgetCents int64) core.Goal {
	t.Helper()
	budget := core.Money{Cents: budgetCents}
	g, err := s.SetGoal(context.Background(), userID, "Buy a laptop", core.Money{Cents: targetCents}, nil, &budget)
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	return g
}

func TestSetGoalCreatesUserAndResolvesDeadline(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestService(ledger, &fakePublisher{})

	days := 30
	budget := core.Money{Cents: 500000}
	g, err := s.SetGoal(context.Background(), "42", "Buy a laptop", core.Money{Cents: 1000000}, &days, &budget)
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}

	if _, ok := ledger.users["42"]; !ok {
		t.Fatalf("user should be created on first reference")
	}
	if g.Deadline == nil {
		t.Fatalf("deadline should be resolved")
	}
	want := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	if !g.Deadline.Equal(want) {
		t.Fatalf("deadline = %v, want %v", g.Deadline, want)
	}
	if g.Status != core.GoalActive {
		t.Fatalf("status = %s, want active", g.Status)
	}
}

func TestSetGoalValidationRejectsBeforeMutation(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestService(ledger, &fakePublisher{})

	_, err := s.SetGoal(context.Background(), "42", "  ", core.Money{Cents: 100}, nil, nil)
	if !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("err = %v, want ErrEmptyTitle", err)
	}
	if len(ledger.users) != 0 {
		t.Fatalf("invalid goal must not create the user")
	}
}

func TestRecordTransactionProspectiveVerdict(t *testing.T) {
	ledger := newFakeLedger()
	pub := &fakePublisher{}
	s := newTestService(ledger, pub)

	// budget=5000, target=10000, threshold=0.5
	setGoal(t, s, "42", 1000000, 500000)

	// seed 4000 of prior non-essential spend this month
	if _, err := s.RecordTransaction(context.Background(), "42", core.Money{Cents: 400000}, "Mall", "shopping"); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	res, err := s.RecordTransaction(context.Background(), "42", core.Money{Cents: 90000}, "Gadget World", "shopping")
	if err != nil {
		t.Fatalf("record transaction: %v", err)
	}

	if res.MonthSpendBefore.Cents != 400000 {
		t.Fatalf("spend before = %d, want 400000", res.MonthSpendBefore.Cents)
	}
	if res.Verdict.Tier != core.TierOrange {
		t.Fatalf("tier = %s, want ORANGE", res.Verdict.Tier)
	}
	if res.Verdict.Remaining.Cents != 10000 {
		t.Fatalf("remaining = %d, want 10000", res.Verdict.Remaining.Cents)
	}

	// Retrospective evaluation after the commit must agree.
	status, err := s.CheckStatus(context.Background(), "42")
	if err != nil {
		t.Fatalf("check status: %v", err)
	}
	if status != res.Verdict {
		t.Fatalf("retrospective %+v != prospective %+v", status, res.Verdict)
	}

	if len(pub.published) != 2 {
		t.Fatalf("published = %d notifications, want 2", len(pub.published))
	}
	last := pub.published[len(pub.published)-1]
	if last.Tier != core.TierOrange || last.UserID != "42" || last.ChatID != 42 {
		t.Fatalf("published message = %+v", last)
	}
}

func TestRecordTransactionEssentialCategoryDoesNotMoveVerdict(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestService(ledger, &fakePublisher{})
	setGoal(t, s, "42", 1000000, 500000)

	res, err := s.RecordTransaction(context.Background(), "42", core.Money{Cents: 700000}, "Electric Co", "bills")
	if err != nil {
		t.Fatalf("record transaction: %v", err)
	}
	if res.Verdict.Tier != core.TierGreen {
		t.Fatalf("tier = %s, want GREEN: bills do not count against the non-essential budget", res.Verdict.Tier)
	}
	if res.MonthSpendBefore.Cents != 0 {
		t.Fatalf("spend before = %d, want 0", res.MonthSpendBefore.Cents)
	}
}

func TestRecordTransactionUnknownCategoryFailsSoft(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestService(ledger, &fakePublisher{})

	res, err := s.RecordTransaction(context.Background(), "42", core.Money{Cents: 1000}, "Mystery", "xyz")
	if err != nil {
		t.Fatalf("record transaction: %v", err)
	}
	if res.Transaction.Category != core.CategoryOther {
		t.Fatalf("category = %s, want other", res.Transaction.Category)
	}
}

func TestRecordTransactionValidationRejectsBeforeMutation(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestService(ledger, &fakePublisher{})

	_, err := s.RecordTransaction(context.Background(), "42", core.Money{Cents: -100}, "Shop", "food")
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if ledger.createCalls != 0 || len(ledger.users) != 0 {
		t.Fatalf("invalid transaction must not touch storage")
	}
}

func TestRecordTransactionPublishFailureIsNotFatal(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestService(ledger, &fakePublisher{fail: true})
	setGoal(t, s, "42", 1000000, 500000)

	if _, err := s.RecordTransaction(context.Background(), "42", core.Money{Cents: 1000}, "Cafe", "food"); err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if len(ledger.txs) != 1 {
		t.Fatalf("transaction should still be persisted")
	}
}

func TestCheckStatusNoGoal(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestService(ledger, &fakePublisher{})

	// user exists but has no goal
	if _, err := s.RecordTransaction(context.Background(), "42", core.Money{Cents: 1000}, "Cafe", "food"); err != nil {
		t.Fatalf("record transaction: %v", err)
	}
	v, err := s.CheckStatus(context.Background(), "42")
	if err != nil {
		t.Fatalf("check status: %v", err)
	}
	if v.Tier != core.TierNoGoal {
		t.Fatalf("tier = %s, want NO_GOAL", v.Tier)
	}
}

func TestCheckStatusUnknownUser(t *testing.T) {
	s := newTestService(newFakeLedger(), &fakePublisher{})
	_, err := s.CheckStatus(context.Background(), "nobody")
	if !errors.Is(err, storage.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestAnalyzeSpending(t *testing.T) {
	ledger := newFakeLedger()
	s := newTestService(ledger, &fakePublisher{})
	setGoal(t, s, "42", 1000000, 500000)

	seed := []struct {
		cents    int64
		category string
	}{
		{100000, "shopping"},
		{50000, "food"},
		{200000, "bills"},
	}
	for _, txn := range seed {
		if _, err := s.RecordTransaction(context.Background(), "42", core.Money{Cents: txn.cents}, "m", txn.category); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	a, err := s.AnalyzeSpending(context.Background(), "42")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.Summary.NonEssential.Cents != 150000 {
		t.Fatalf("non-essential = %d, want 150000", a.Summary.NonEssential.Cents)
	}
	if a.Summary.Count != 3 {
		t.Fatalf("count = %d, want 3", a.Summary.Count)
	}
	if a.Remaining == nil || a.Remaining.Cents != 350000 {
		t.Fatalf("remaining = %+v, want 350000", a.Remaining)
	}
}
