package yutori

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
)

// Attempt budgets sized for each task class. Research tasks routinely run
// several minutes; browsing tasks against a single page finish much sooner.
const (
	defaultPollInterval     = 2 * time.Second
	defaultResearchAttempts = 150
	defaultBrowsingAttempts = 30
)

// ErrPollTimeout marks a task that exhausted its attempt budget without
// reaching a terminal status. Check with eris.Is.
var ErrPollTimeout = eris.New("yutori: poll attempt budget exhausted")

// ErrTaskFailed marks a task the API reported as failed.
var ErrTaskFailed = eris.New("yutori: task failed")

// PollOption configures polling behavior.
type PollOption func(*pollConfig)

type pollConfig struct {
	interval time.Duration
	attempts int
}

// WithPollInterval overrides the fixed interval between status checks.
func WithPollInterval(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.interval = d
	}
}

// WithPollAttempts overrides the attempt budget.
func WithPollAttempts(n int) PollOption {
	return func(c *pollConfig) {
		c.attempts = n
	}
}

// PollResearch polls GetResearchTask at a fixed interval until the task
// succeeds, fails, the attempt budget runs out, or the context expires.
func PollResearch(ctx context.Context, client Client, id string, opts ...PollOption) (*TaskStatus, error) {
	cfg := pollConfig{interval: defaultPollInterval, attempts: defaultResearchAttempts}
	for _, opt := range opts {
		opt(&cfg)
	}
	return poll(ctx, cfg, id, client.GetResearchTask)
}

// PollBrowsing polls GetBrowsingTask at a fixed interval until the task
// succeeds, fails, the attempt budget runs out, or the context expires.
func PollBrowsing(ctx context.Context, client Client, id string, opts ...PollOption) (*TaskStatus, error) {
	cfg := pollConfig{interval: defaultPollInterval, attempts: defaultBrowsingAttempts}
	for _, opt := range opts {
		opt(&cfg)
	}
	return poll(ctx, cfg, id, client.GetBrowsingTask)
}

func poll(ctx context.Context, cfg pollConfig, id string, fetch func(context.Context, string) (*TaskStatus, error)) (*TaskStatus, error) {
	var lastErr error
	for attempt := 0; attempt < cfg.attempts; attempt++ {
		status, err := fetch(ctx, id)
		if err != nil {
			// Transient fetch errors consume an attempt but keep polling.
			lastErr = err
		} else {
			switch status.Status {
			case "succeeded":
				return status, nil
			case "failed":
				return nil, eris.Wrap(ErrTaskFailed, fmt.Sprintf("task %s: %s", id, status.FailureReason()))
			}
			lastErr = nil
		}

		select {
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), fmt.Sprintf("yutori: poll task %s", id))
		case <-time.After(cfg.interval):
		}
	}

	if lastErr != nil {
		return nil, eris.Wrap(lastErr, fmt.Sprintf("yutori: poll task %s gave up after repeated errors", id))
	}
	return nil, eris.Wrap(ErrPollTimeout, fmt.Sprintf("task %s after %d attempts", id, cfg.attempts))
}
