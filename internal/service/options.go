package service

import (
	"math/rand"
	"sync"
	"time"
)

type Option func(*InsightsService)

// WithAlertPublisher enables alert dispatch for records that need attention.
func WithAlertPublisher(p AlertPublisher) Option {
	return func(s *InsightsService) {
		s.alerts = p
	}
}

func WithObserver(o Observer) Option {
	return func(s *InsightsService) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *InsightsService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRandSource seeds topic selection. Tests use it for reproducible output.
func WithRandSource(src rand.Source) Option {
	return func(s *InsightsService) {
		s.rng = &lockedRand{r: rand.New(src)}
	}
}

func WithBaselineWindowDays(days int) Option {
	return func(s *InsightsService) {
		if days > 0 {
			s.baselineWindowDays = days
		}
	}
}

func WithAnomalyLookbackDays(days int) Option {
	return func(s *InsightsService) {
		if days > 0 {
			s.anomalyLookbackDays = days
		}
	}
}

// lockedRand guards a *rand.Rand, which is not safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}
