package sheets

import (
	"context"

	"guardian/internal/core"
)

// ReportRow is one user's monthly budget summary for export.
type ReportRow struct {
	UserID     string
	Year       int
	Month      int
	Tier       core.Tier
	GoalTitle  string
	TotalSpent core.Money
	Budget     core.Money
	Remaining  core.Money
}

// Ports for outbound adapters.
type (
	// ReportWriter appends monthly report rows to an external sheet.
	ReportWriter interface {
		AppendReport(ctx context.Context, rows []ReportRow) error
	}
)
