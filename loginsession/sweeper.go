package loginsession

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-hub/internal/obs"
	"github.com/rs/zerolog/log"
)

// Sweeper deletes expired sessions at most once per interval. lastSwept limits
// this process to one attempt per interval and the claim in the store limits
// all instances sharing it.
type Sweeper struct {
	repo     Repo
	interval time.Duration
	maxAge   time.Duration
	nowFunc  func() time.Time

	mu        sync.Mutex
	lastSwept time.Time
}

func NewSweeper(repo Repo, interval, maxAge time.Duration, now func() time.Time) *Sweeper {
	return &Sweeper{repo: repo, interval: interval, maxAge: maxAge, nowFunc: now}
}

// MaybeSweep never fails the caller; errors are logged.
func (s *Sweeper) MaybeSweep(ctx context.Context) {
	now := s.nowFunc()

	s.mu.Lock()
	if !s.lastSwept.IsZero() && now.Sub(s.lastSwept) < s.interval {
		s.mu.Unlock()
		return
	}
	s.lastSwept = now
	s.mu.Unlock()

	claimed, err := s.repo.ClaimSweep(ctx, now, s.interval)
	if err != nil {
		obs.LoginSessionSweeps.WithLabelValues("error").Inc()
		log.Err(err).Msg("login session sweep: claim failed")
		return
	}
	if !claimed {
		obs.LoginSessionSweeps.WithLabelValues("skipped").Inc()
		return
	}

	deleted, err := s.repo.DeleteCreatedBefore(ctx, now.Add(-s.maxAge))
	if err != nil {
		obs.LoginSessionSweeps.WithLabelValues("error").Inc()
		log.Err(err).Msg("login session sweep: delete failed")
		return
	}
	obs.LoginSessionSweeps.WithLabelValues("swept").Inc()
	log.Debug().Int64("deleted", deleted).Msg("swept expired login sessions")
}

// LastSwept is the time of the last sweep this process attempted.
func (s *Sweeper) LastSwept() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSwept
}
