package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"guardian/internal/core"
	"guardian/internal/log"
	"guardian/internal/sheets"
)

type (
	// UserLister enumerates the users to include in a report run.
	UserLister interface {
		ListUserIDs(ctx context.Context) ([]string, error)
	}

	// StatusChecker evaluates a user's current budget standing.
	StatusChecker interface {
		CheckStatus(ctx context.Context, userID string) (core.VerdictResult, error)
	}
)

// ReportWorker periodically exports every user's monthly budget standing
// to an external sheet. Per-user failures are logged and skipped so one
// bad record never blocks the rest of the run.
type ReportWorker struct {
	users    UserLister
	status   StatusChecker
	writer   sheets.ReportWriter
	interval time.Duration

	now func() time.Time
}

func NewReportWorker(users UserLister, status StatusChecker, writer sheets.ReportWriter, interval time.Duration) *ReportWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ReportWorker{
		users:    users,
		status:   status,
		writer:   writer,
		interval: interval,
		now:      time.Now,
	}
}

// RunPeriodic exports on every tick until ctx is done.
func (w *ReportWorker) RunPeriodic(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Report export failed", "error", err)
			}
		}
	}
}

// ExportOnce builds and appends one report row per known user.
func (w *ReportWorker) ExportOnce(ctx context.Context) error {
	userIDs, err := w.users.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	now := w.now().UTC()
	rows := make([]sheets.ReportRow, 0, len(userIDs))
	for _, userID := range userIDs {
		verdict, err := w.status.CheckStatus(ctx, userID)
		if err != nil {
			slog.WarnContext(ctx, "Skipping user in report", "user_id", userID, "error", err)
			continue
		}
		rows = append(rows, sheets.ReportRow{
			UserID:     userID,
			Year:       now.Year(),
			Month:      int(now.Month()),
			Tier:       verdict.Tier,
			GoalTitle:  verdict.GoalTitle,
			TotalSpent: verdict.TotalSpent,
			Budget:     verdict.Budget,
			Remaining:  verdict.Remaining,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := w.writer.AppendReport(ctx, rows); err != nil {
		return fmt.Errorf("append report: %w", err)
	}

	slog.InfoContext(ctx, "Report exported",
		"users", len(userIDs),
		"rows", len(rows),
		log.FieldYear, now.Year(),
		log.FieldMonth, int(now.Month()))
	return nil
}
