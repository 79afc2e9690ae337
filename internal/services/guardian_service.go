package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"guardian/internal/amqp"
	"guardian/internal/core"
	"guardian/internal/notify"
)

// Ledger is the read/write contract the service needs from persistence.
// The surrounding system guarantees read-after-write consistency: a
// transaction is durably recorded before totals are recomputed.
type Ledger interface {
	UpsertUser(ctx context.Context, id string, now time.Time) (core.User, error)
	GetUser(ctx context.Context, id string) (core.User, error)
	ReplaceActiveGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	GetActiveGoal(ctx context.Context, userID string) (*core.Goal, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransactionsSince(ctx context.Context, userID string, since time.Time) ([]core.Transaction, error)
}

// Publisher hands rendered notifications to the delivery pipeline.
type Publisher interface {
	PublishNotification(ctx context.Context, msg *amqp.NotificationMessage) error
}

type (
	// RecordResult is everything a transport needs after recording a
	// spend: the canonical transaction, the prospective verdict, the
	// rendered notification, and the monthly total before this purchase.
	RecordResult struct {
		Transaction      core.Transaction
		Verdict          core.VerdictResult
		Notification     core.Notification
		MonthSpendBefore core.Money
	}

	// SpendingAnalysis is the monthly breakdown for a user. Remaining is
	// nil when no budget is configured.
	SpendingAnalysis struct {
		Summary   core.MonthSummary
		Budget    *core.Money
		Remaining *core.Money
	}
)

// GuardianService orchestrates mutations, evaluation, and notification
// publishing. The evaluation itself is pure; this layer only fetches
// facts, calls into core, and hands off delivery.
type GuardianService struct {
	ledger    Ledger
	publisher Publisher
	threshold float64

	// injected for deterministic tests
	now   func() time.Time
	newID func() string
}

func NewGuardianService(ledger Ledger, publisher Publisher, threshold float64) *GuardianService {
	if threshold <= 0 {
		threshold = core.DefaultComfortZone
	}
	return &GuardianService{
		ledger:    ledger,
		publisher: publisher,
		threshold: threshold,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetGoal creates or replaces the user's active goal and returns the
// canonical record. A deadline offset in days is resolved to an absolute
// timestamp at call time. The user record is created on first reference.
func (s *GuardianService) SetGoal(ctx context.Context, userID, title string, target core.Money, deadlineDays *int, monthBudget *core.Money) (core.Goal, error) {
	now := s.now().UTC()

	goal := core.Goal{
		ID:          s.newID(),
		UserID:      strings.TrimSpace(userID),
		Title:       strings.TrimSpace(title),
		Target:      target,
		MonthBudget: monthBudget,
		Status:      core.GoalActive,
		CreatedAt:   now,
	}
	if deadlineDays != nil {
		deadline := now.AddDate(0, 0, *deadlineDays)
		goal.Deadline = &deadline
	}

	// Reject before any state mutation.
	if err := goal.Validate(); err != nil {
		return core.Goal{}, err
	}

	if _, err := s.ledger.UpsertUser(ctx, goal.UserID, now); err != nil {
		return core.Goal{}, fmt.Errorf("upsert user: %w", err)
	}
	saved, err := s.ledger.ReplaceActiveGoal(ctx, goal)
	if err != nil {
		return core.Goal{}, fmt.Errorf("replace active goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal set",
		"user_id", saved.UserID,
		"goal_id", saved.ID,
		"goal_title", saved.Title,
		"target_cents", saved.Target.Cents)

	return saved, nil
}

// RecordTransaction appends an immutable transaction, evaluates the
// purchase prospectively against the monthly budget, and queues the
// rendered nudge for delivery. Publish failures never fail the request.
func (s *GuardianService) RecordTransaction(ctx context.Context, userID string, amount core.Money, merchant, category string) (RecordResult, error) {
	now := s.now().UTC()

	tx := core.Transaction{
		ID:        s.newID(),
		UserID:    strings.TrimSpace(userID),
		Amount:    amount,
		Merchant:  strings.TrimSpace(merchant),
		Category:  core.ParseCategory(category),
		Timestamp: now,
	}

	// Reject before any state mutation.
	if err := tx.Validate(); err != nil {
		return RecordResult{}, err
	}

	if _, err := s.ledger.UpsertUser(ctx, tx.UserID, now); err != nil {
		return RecordResult{}, fmt.Errorf("upsert user: %w", err)
	}
	saved, err := s.ledger.CreateTransaction(ctx, tx)
	if err != nil {
		return RecordResult{}, fmt.Errorf("create transaction: %w", err)
	}

	summary, goal, err := s.monthFacts(ctx, tx.UserID, now)
	if err != nil {
		return RecordResult{}, err
	}

	// The aggregate includes the transaction just recorded; the spend
	// before this purchase is tracked explicitly.
	spendBefore := core.Money{Cents: summary.NonEssential.Cents}
	if saved.Category.NonEssential() {
		spendBefore.Cents -= saved.Amount.Cents
	}

	verdict := core.EvaluatePurchase(goal, spendBefore, candidateAmount(saved), s.threshold)
	notification := core.ComposeNotification(verdict, &saved)

	s.publish(ctx, saved.UserID, verdict.Tier, notification.Text)

	slog.InfoContext(ctx, "Transaction evaluated",
		"user_id", saved.UserID,
		"transaction_id", saved.ID,
		"merchant", saved.Merchant,
		"amount_cents", saved.Amount.Cents,
		"tier", verdict.Tier)

	return RecordResult{
		Transaction:      saved,
		Verdict:          verdict,
		Notification:     notification,
		MonthSpendBefore: spendBefore,
	}, nil
}

// candidateAmount is the transaction's contribution to the non-essential
// total: essential categories never move the verdict.
func candidateAmount(t core.Transaction) core.Money {
	if t.Category.NonEssential() {
		return t.Amount
	}
	return core.Money{}
}

// CheckStatus evaluates the present state from the persisted monthly
// total. Unlike the mutators it does not create the user on demand: an
// unknown user surfaces storage.ErrUserNotFound.
func (s *GuardianService) CheckStatus(ctx context.Context, userID string) (core.VerdictResult, error) {
	if _, err := s.ledger.GetUser(ctx, userID); err != nil {
		return core.VerdictResult{}, err
	}

	summary, goal, err := s.monthFacts(ctx, userID, s.now().UTC())
	if err != nil {
		return core.VerdictResult{}, err
	}
	return core.EvaluateStatus(goal, summary.NonEssential, s.threshold), nil
}

// AnalyzeSpending returns the per-category breakdown for the current
// month plus the remaining budget when one is configured.
func (s *GuardianService) AnalyzeSpending(ctx context.Context, userID string) (SpendingAnalysis, error) {
	if _, err := s.ledger.GetUser(ctx, userID); err != nil {
		return SpendingAnalysis{}, err
	}

	summary, goal, err := s.monthFacts(ctx, userID, s.now().UTC())
	if err != nil {
		return SpendingAnalysis{}, err
	}

	analysis := SpendingAnalysis{Summary: summary}
	if goal != nil && goal.MonthBudget != nil {
		analysis.Budget = goal.MonthBudget
		analysis.Remaining = &core.Money{Cents: goal.MonthBudget.Cents - summary.NonEssential.Cents}
	}
	return analysis, nil
}

// ActiveGoal exposes the user's active goal to collaborators such as the
// conversational layer. Returns nil when none exists.
func (s *GuardianService) ActiveGoal(ctx context.Context, userID string) (*core.Goal, error) {
	return s.ledger.GetActiveGoal(ctx, userID)
}

func (s *GuardianService) monthFacts(ctx context.Context, userID string, now time.Time) (core.MonthSummary, *core.Goal, error) {
	monthStart, _ := core.MonthWindow(now)
	txs, err := s.ledger.GetTransactionsSince(ctx, userID, monthStart)
	if err != nil {
		return core.MonthSummary{}, nil, fmt.Errorf("load transactions: %w", err)
	}
	goal, err := s.ledger.GetActiveGoal(ctx, userID)
	if err != nil {
		return core.MonthSummary{}, nil, fmt.Errorf("load active goal: %w", err)
	}
	return core.AggregateMonth(txs, now), goal, nil
}

func (s *GuardianService) publish(ctx context.Context, userID string, tier core.Tier, text string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping notification", "user_id", userID)
		return
	}
	msg := amqp.NewNotificationMessage(userID, notify.ChatIDForUser(userID), tier, text)
	if err := s.publisher.PublishNotification(ctx, msg); err != nil {
		// Notification delivery is fire and forget.
		slog.ErrorContext(ctx, "Failed to publish notification",
			"user_id", userID,
			"tier", tier,
			"error", err)
	}
}
