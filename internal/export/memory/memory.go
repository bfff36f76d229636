package memory

import (
	"context"
	"fmt"
	"sync"

	"flazz/internal/export"
)

// Store keeps exported reports and appended rows in memory.
type Store struct {
	mu      sync.Mutex
	reports []export.Report
	dests   []string
	rows    []export.Row
}

var (
	_ export.Exporter    = (*Store)(nil)
	_ export.RowAppender = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// Export stores the report and returns a synthetic reference.
func (s *Store) Export(_ context.Context, dest string, r export.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Transactions = append(r.Transactions[:0:0], r.Transactions...)
	s.reports = append(s.reports, r)
	s.dests = append(s.dests, dest)
	return fmt.Sprintf("mem:%d", len(s.reports)), nil
}

// AppendRow stores a single row.
func (s *Store) AppendRow(_ context.Context, row export.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:row:%d", len(s.rows)), nil
}

// Reports returns the exported reports in order.
func (s *Store) Reports() []export.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]export.Report(nil), s.reports...)
}

// Destinations returns the dest argument of every export.
func (s *Store) Destinations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.dests...)
}

// Rows returns the appended rows in order.
func (s *Store) Rows() []export.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]export.Row(nil), s.rows...)
}
