package memory

import (
	"context"
	"sync"

	ports "guardian/internal/sheets"
)

// Store is an in-memory report sink for tests and sheets-less deployments.
type Store struct {
	mu   sync.Mutex
	rows []ports.ReportRow
}

var _ ports.ReportWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendReport stores the rows.
func (s *Store) AppendReport(_ context.Context, rows []ports.ReportRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
	return nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []ports.ReportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.ReportRow, len(s.rows))
	copy(out, s.rows)
	return out
}
