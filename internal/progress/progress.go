// Package progress publishes and streams pipeline progress events. Each
// session keeps only its latest event: publishers overwrite the single
// progress key, and consumers poll it, forwarding changes to the client.
package progress

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/model"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultCleanupDelay = 60 * time.Second
)

// Spawner runs a function in the background. The server wires a
// goroutine-backed spawner; tests substitute a synchronous one.
type Spawner interface {
	Go(fn func())
}

// Reporter publishes progress events for analysis sessions.
type Reporter struct {
	cache *cache.Cache
}

func NewReporter(c *cache.Cache) *Reporter {
	return &Reporter{cache: c}
}

// Publish overwrites the session's progress event. Publishing is best
// effort: a cache failure is logged and never interrupts the pipeline.
func (r *Reporter) Publish(ctx context.Context, sessionID, stage string, fraction float64, message string) {
	event := model.ProgressEvent{
		Type:      typeFor(stage),
		SessionID: sessionID,
		Stage:     stage,
		Progress:  fraction,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := r.cache.Set(ctx, cache.ProgressKey(sessionID), event, r.cache.ProgressTTL()); err != nil {
		zap.L().Warn("progress publish failed",
			zap.String("session_id", sessionID),
			zap.String("stage", stage),
			zap.Error(err))
	}
}

func typeFor(stage string) string {
	switch stage {
	case model.StageCompleted:
		return "completed"
	case model.StageError:
		return "error"
	default:
		return "progress"
	}
}

// Consumer streams a session's progress events to a single subscriber.
type Consumer struct {
	cache        *cache.Cache
	spawn        Spawner
	pollInterval time.Duration
	cleanupDelay time.Duration
}

// ConsumerOption customizes a Consumer.
type ConsumerOption func(*Consumer)

// WithPollInterval overrides how often the progress key is polled.
func WithPollInterval(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		c.pollInterval = d
	}
}

// WithCleanupDelay overrides how long a terminal event lingers before its
// key is deleted. Lingering lets late subscribers still see the outcome.
func WithCleanupDelay(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		c.cleanupDelay = d
	}
}

func NewConsumer(c *cache.Cache, spawn Spawner, opts ...ConsumerOption) *Consumer {
	consumer := &Consumer{
		cache:        c,
		spawn:        spawn,
		pollInterval: defaultPollInterval,
		cleanupDelay: defaultCleanupDelay,
	}
	for _, opt := range opts {
		opt(consumer)
	}
	return consumer
}

// Stream polls the session's progress key and calls emit for every new
// event until a terminal event is delivered or ctx ends. After emitting a
// terminal event it schedules deletion of the key and returns nil. An emit
// error (client gone) ends the stream.
func (c *Consumer) Stream(ctx context.Context, sessionID string, emit func(model.ProgressEvent) error) error {
	key := cache.ProgressKey(sessionID)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var last model.ProgressEvent
	for {
		var event model.ProgressEvent
		found, err := c.cache.Get(ctx, key, &event)
		if err != nil {
			return err
		}
		if found && event != last {
			last = event
			if err := emit(event); err != nil {
				return err
			}
			if event.Terminal() {
				c.scheduleCleanup(sessionID)
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// scheduleCleanup deletes the progress key after the linger window. The
// key carries a TTL regardless, so a dropped cleanup is harmless.
func (c *Consumer) scheduleCleanup(sessionID string) {
	c.spawn.Go(func() {
		time.Sleep(c.cleanupDelay)
		if err := c.cache.Delete(context.Background(), cache.ProgressKey(sessionID)); err != nil {
			zap.L().Debug("progress cleanup failed",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	})
}
