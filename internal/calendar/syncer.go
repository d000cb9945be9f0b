package calendar

import (
	"context"
	"sync"
)

// SyncResult holds the reports of one combined pass
type SyncResult struct {
	Tasks    SyncReport
	Sessions SyncReport
}

// Syncer runs the task pass then the session pass. Either reconciler may be nil.
// Concurrent Run calls are serialized.
type Syncer struct {
	mu       sync.Mutex
	Tasks    *TaskReconciler
	Sessions *SessionReconciler
}

// Run performs one pass of each configured reconciler. ctx is checked between passes.
func (s *Syncer) Run(ctx context.Context) (SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SyncResult
	if s.Tasks != nil {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rep, err := s.Tasks.Sync()
		res.Tasks = rep
		if err != nil {
			return res, err
		}
	}
	if s.Sessions != nil {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rep, err := s.Sessions.Sync()
		res.Sessions = rep
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
