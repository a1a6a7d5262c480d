package usecase

import (
	"sync"
	"time"

	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	slacksvc "github.com/oa-lab/zaiseki/pkg/service/slack"
)

// UseCases orchestrates interaction flows on top of the repository and the
// Slack service
type UseCases struct {
	repo        interfaces.Repository
	slackSvc    slacksvc.Service
	statusTable *model.StatusTable
	now         func() time.Time

	// rosterLookupLimit bounds the concurrent user-info fallback calls
	// when the directory cache misses (Slack rate limits apply)
	rosterLookupLimit int

	// rosterPosts tracks the posted roster summary per thread so a repeat
	// request updates it in place instead of stacking duplicates.
	// Per-process state: after a restart the next request posts fresh.
	rosterMu    sync.Mutex
	rosterPosts map[string]string
}

type Option func(*UseCases)

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithRosterLookupLimit overrides the fan-out bound for roster member
// lookups
func WithRosterLookupLimit(limit int) Option {
	return func(uc *UseCases) {
		if limit > 0 {
			uc.rosterLookupLimit = limit
		}
	}
}

// New creates the use case aggregator
func New(repo interfaces.Repository, slackSvc slacksvc.Service, statusTable *model.StatusTable, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:              repo,
		slackSvc:          slackSvc,
		statusTable:       statusTable,
		now:               time.Now,
		rosterLookupLimit: 5,
		rosterPosts:       make(map[string]string),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
