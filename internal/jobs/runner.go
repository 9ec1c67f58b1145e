package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/shubh-37/content-intelligence/internal/engagement"
)

// Target is the per-user work a scheduled job drives
type Target interface {
	ImportMetrics(ctx context.Context) (engagement.ImportResult, error)
	RefreshVoice(ctx context.Context) error
}

// TargetFunc resolves the target for a user
type TargetFunc func(ctx context.Context, userID string) (Target, error)

// UserFunc lists the users a run covers
type UserFunc func(ctx context.Context) ([]string, error)

// Runner drives metrics imports and voice refreshes on cron schedules.
// Each run walks users one at a time.
type Runner struct {
	targets TargetFunc
	users   UserFunc
	timeout time.Duration

	mu     sync.Mutex
	cron   *rcron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func NewRunner(targets TargetFunc, users UserFunc) *Runner {
	return &Runner{
		targets: targets,
		users:   users,
		timeout: 30 * time.Minute,
		cron:    rcron.New(rcron.WithChain(rcron.SkipIfStillRunning(rcron.DefaultLogger))),
		ctx:     context.Background(),
	}
}

// Register adds the import and voice jobs. An empty schedule leaves that job out.
func (r *Runner) Register(importSpec, voiceSpec string) error {
	if importSpec != "" {
		if _, err := r.cron.AddFunc(importSpec, func() { r.RunImport(r.runContext()) }); err != nil {
			return fmt.Errorf("invalid import schedule %q: %w", importSpec, err)
		}
		log.Printf("[jobs] metrics import scheduled (%s)", importSpec)
	}

	if voiceSpec != "" {
		if _, err := r.cron.AddFunc(voiceSpec, func() { r.RunVoiceRefresh(r.runContext()) }); err != nil {
			return fmt.Errorf("invalid voice schedule %q: %w", voiceSpec, err)
		}
		log.Printf("[jobs] voice refresh scheduled (%s)", voiceSpec)
	}

	return nil
}

// Start begins firing jobs until ctx is done or Stop is called
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.cron.Start()
	log.Printf("[jobs] started with %d jobs", len(r.cron.Entries()))
}

// Stop waits for running jobs, giving up after five seconds
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		log.Printf("[jobs] stop timeout waiting for running jobs")
	}
	log.Printf("[jobs] stopped")
}

// RunImport imports stale metrics for every user and returns the combined tally
func (r *Runner) RunImport(ctx context.Context) engagement.ImportResult {
	var total engagement.ImportResult
	r.forEachUser(ctx, "import", func(ctx context.Context, userID string, t Target) error {
		result, err := t.ImportMetrics(ctx)
		total.Attempted += result.Attempted
		total.Imported += result.Imported
		total.Failed += result.Failed
		total.Skipped += result.Skipped
		if err != nil {
			return err
		}
		log.Printf("[jobs] import for %s: %d imported, %d failed, %d skipped", userID, result.Imported, result.Failed, result.Skipped)
		return nil
	})
	return total
}

// RunVoiceRefresh refreshes every user's voice profile and returns how many succeeded
func (r *Runner) RunVoiceRefresh(ctx context.Context) int {
	refreshed := 0
	r.forEachUser(ctx, "voice refresh", func(ctx context.Context, userID string, t Target) error {
		if err := t.RefreshVoice(ctx); err != nil {
			return err
		}
		refreshed++
		return nil
	})
	return refreshed
}

func (r *Runner) forEachUser(ctx context.Context, job string, fn func(context.Context, string, Target) error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	users, err := r.users(ctx)
	if err != nil {
		log.Printf("[jobs] %s: failed to list users: %v", job, err)
		return
	}

	for _, userID := range users {
		if ctx.Err() != nil {
			log.Printf("[jobs] %s interrupted: %v", job, ctx.Err())
			return
		}

		target, err := r.targets(ctx, userID)
		if err != nil {
			log.Printf("[jobs] %s for %s: %v", job, userID, err)
			continue
		}

		if err := fn(ctx, userID, target); err != nil {
			log.Printf("[jobs] %s for %s failed: %v", job, userID, err)
		}
	}
}

func (r *Runner) runContext() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx
}

// StaticUsers always runs for the given users
func StaticUsers(ids ...string) UserFunc {
	return func(context.Context) ([]string, error) {
		return ids, nil
	}
}
