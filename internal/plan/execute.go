package plan

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/addons/k8sclient"
	"github.com/imamik/blueprints/internal/util/async"
	"github.com/imamik/blueprints/internal/util/retry"
)

// DefaultFieldManager identifies blueprints as the server-side apply actor.
const DefaultFieldManager = "blueprints"

type executeConfig struct {
	fieldManager string
	force        bool
	parallelism  int
	retryOpts    []retry.Option
}

// ExecuteOption configures Execute.
type ExecuteOption func(*executeConfig)

// WithFieldManager sets the server-side apply field manager.
func WithFieldManager(name string) ExecuteOption {
	return func(c *executeConfig) {
		if name != "" {
			c.fieldManager = name
		}
	}
}

// WithForce takes ownership of conflicting fields during server-side apply.
func WithForce(force bool) ExecuteOption {
	return func(c *executeConfig) {
		c.force = force
	}
}

// WithParallelism bounds concurrent applies within a level. Zero means unbounded.
func WithParallelism(n int) ExecuteOption {
	return func(c *executeConfig) {
		c.parallelism = n
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) ExecuteOption {
	return func(c *executeConfig) {
		c.retryOpts = append(c.retryOpts, retry.WithMaxRetries(n))
	}
}

// WithInitialDelay sets the first backoff delay.
func WithInitialDelay(d time.Duration) ExecuteOption {
	return func(c *executeConfig) {
		c.retryOpts = append(c.retryOpts, retry.WithInitialDelay(d))
	}
}

// WithMaxDelay caps the backoff delay.
func WithMaxDelay(d time.Duration) ExecuteOption {
	return func(c *executeConfig) {
		c.retryOpts = append(c.retryOpts, retry.WithMaxDelay(d))
	}
}

// Execute applies every resource in dependency order.
//
// Resources whose dependencies are all applied run concurrently. The first
// level with a failure stops execution; resources applied before it stay
// applied. A plan can be executed only once.
func (p *Plan) Execute(ctx context.Context, applier Applier, opts ...ExecuteOption) error {
	cfg := &executeConfig{fieldManager: DefaultFieldManager}
	for _, opt := range opts {
		opt(cfg)
	}

	p.mu.Lock()
	if p.executed {
		p.mu.Unlock()
		return ErrAlreadyExecuted
	}
	sorted, ok := p.sortLocked()
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("plan dependencies are not solvable")
	}
	levels := p.levelsLocked(sorted)
	p.executed = true
	p.mu.Unlock()

	logger := log.FromContext(ctx)
	logger.Info("executing plan", "resources", len(sorted), "levels", len(levels))

	for i, level := range levels {
		tasks := make([]async.Task, 0, len(level))
		for _, n := range level {
			tasks = append(tasks, async.Task{
				Name: n.handle.id,
				Func: func(ctx context.Context) error {
					return applyNode(ctx, applier, n, cfg)
				},
			})
		}

		if err := async.RunParallel(ctx, tasks, cfg.parallelism); err != nil {
			return fmt.Errorf("plan execution stopped at level %d: %w", i, err)
		}
	}

	logger.Info("plan executed", "resources", len(sorted))
	return nil
}

func applyNode(ctx context.Context, applier Applier, n *node, cfg *executeConfig) error {
	logger := log.FromContext(ctx).WithValues("resource", n.handle.id)
	kind := n.handle.kind
	start := time.Now()

	manifests, err := n.resource.Render(ctx)
	if err != nil {
		recordApply(kind, resultRenderError, time.Since(start).Seconds())
		return fmt.Errorf("failed to render: %w", err)
	}

	applyOpts := k8sclient.ApplyOptions{
		FieldManager: cfg.fieldManager,
		Namespace:    n.handle.namespace,
		Force:        cfg.force,
	}

	retryOpts := append([]retry.Option{
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			applyRetries.WithLabelValues(kind).Inc()
			logger.Info("apply failed, retrying", "attempt", attempt, "delay", delay.String(), "error", err.Error())
		}),
	}, cfg.retryOpts...)

	err = retry.WithExponentialBackoff(ctx, func() error {
		err := applier.ApplyManifests(ctx, manifests, applyOpts)
		if err != nil && !IsTransient(err) {
			return retry.Fatal(err)
		}
		return err
	}, retryOpts...)
	if err != nil {
		recordApply(kind, resultError, time.Since(start).Seconds())
		return err
	}

	recordApply(kind, resultSuccess, time.Since(start).Seconds())
	logger.V(1).Info("resource applied", "duration", time.Since(start).String())
	return nil
}
