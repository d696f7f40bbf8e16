package providers

import (
	"context"
	"strings"
	"sync"
)

// scriptedProvider returns errs in order, then page for every later call.
type scriptedProvider struct {
	mu      sync.Mutex
	errs    []error
	page    Page
	calls   int
	queries []Query
}

func (s *scriptedProvider) FetchPlayers(_ context.Context, q Query) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.queries = append(s.queries, q)
	if s.calls <= len(s.errs) {
		return Page{}, s.errs[s.calls-1]
	}
	return s.page, nil
}

func (s *scriptedProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
