package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"github.com/oa-lab/zaiseki/pkg/service/slack"
	"github.com/oa-lab/zaiseki/pkg/utils/logging"
)

// DefaultRefreshInterval is how often the user directory cache is rebuilt
const DefaultRefreshInterval = 6 * time.Hour

// DirectoryRefreshWorker keeps the workspace user directory cached in the
// repository so the roster and reply flows resolve display names without
// per-member API calls.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For horizontal scaling, add distributed locking or leader election
type DirectoryRefreshWorker struct {
	repo     interfaces.Repository
	slackSvc slack.Service
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewDirectoryRefreshWorker creates a directory refresh worker
func NewDirectoryRefreshWorker(repo interfaces.Repository, slackSvc slack.Service, interval time.Duration) *DirectoryRefreshWorker {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	return &DirectoryRefreshWorker{
		repo:     repo,
		slackSvc: slackSvc,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop. The initial sync also runs in
// the background so server startup never blocks on the Slack API.
func (w *DirectoryRefreshWorker) Start(ctx context.Context) error {
	logging.Default().Info("directory refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *DirectoryRefreshWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("directory refresh worker stopped")
}

func (w *DirectoryRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.Refresh(ctx); err != nil {
		logging.Default().Error("initial directory refresh failed, will retry next interval",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				logging.Default().Error("directory refresh failed, will retry next interval",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("directory refresh worker context cancelled")
			return
		}
	}
}

// Refresh performs one refresh cycle with a replace strategy
// (DeleteAll then SaveMany). On API failure the previous cache is kept.
func (w *DirectoryRefreshWorker) Refresh(ctx context.Context) error {
	startTime := time.Now()

	existing, err := w.repo.SlackUser().GetMetadata(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to get directory metadata")
	}

	attempt := &model.SlackUserMetadata{
		LastRefreshSuccess: existing.LastRefreshSuccess,
		LastRefreshAttempt: startTime,
		UserCount:          existing.UserCount,
	}
	if err := w.repo.SlackUser().SaveMetadata(ctx, attempt); err != nil {
		return goerr.Wrap(err, "failed to record refresh attempt")
	}

	slackUsers, err := w.slackSvc.ListUsers(ctx)
	if err != nil {
		// Keep the stale cache; a stale directory beats an empty one
		return goerr.Wrap(err, "failed to list workspace users")
	}

	users := make([]*model.SlackUser, len(slackUsers))
	for i, su := range slackUsers {
		users[i] = &model.SlackUser{
			ID:        types.UserID(su.ID),
			Name:      su.Name,
			RealName:  su.RealName,
			IsBot:     su.IsBot,
			Deleted:   su.Deleted,
			UpdatedAt: startTime,
		}
	}

	// Replace strategy prevents orphaned entries for deactivated accounts
	if err := w.repo.SlackUser().DeleteAll(ctx); err != nil {
		return goerr.Wrap(err, "failed to clear directory cache")
	}
	if err := w.repo.SlackUser().SaveMany(ctx, users); err != nil {
		return goerr.Wrap(err, "failed to save directory entries", goerr.V("count", len(users)))
	}

	success := &model.SlackUserMetadata{
		LastRefreshSuccess: startTime,
		LastRefreshAttempt: startTime,
		UserCount:          len(users),
	}
	if err := w.repo.SlackUser().SaveMetadata(ctx, success); err != nil {
		return goerr.Wrap(err, "failed to record refresh success")
	}

	logging.Default().Info("directory refresh completed",
		"count", len(users),
		"duration", time.Since(startTime).String())

	return nil
}
