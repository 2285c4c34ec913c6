// Package generation drives one-shot test case generation against a loaded
// product module and tracks the per-session lifecycle around it.
package generation

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/product"
	"github.com/kingrea/casegen/internal/result"
	"go.uber.org/zap"
)

// Orchestrator invokes a module's entry point under normalized specs.
type Orchestrator struct {
	log *zap.Logger
	// timeout bounds a single generation; zero means no bound.
	timeout time.Duration

	mu sync.Mutex
	// abandoned is closed once a call that outlived its deadline returns.
	abandoned chan struct{}
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithTimeout bounds each generation call. Zero or negative disables the
// bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewOrchestrator returns an orchestrator with no timeout.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Busy reports whether a call that timed out is still running inside its
// module. Modules cannot be interrupted, so no new call starts until it
// returns.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.abandoned == nil {
		return false
	}
	select {
	case <-o.abandoned:
		o.abandoned = nil
		return false
	default:
		return true
	}
}

// Generate calls mod exactly once with base and rider. Precondition failures
// are reported before the module is touched.
func (o *Orchestrator) Generate(ctx context.Context, mod product.Module, base, rider *epic.Spec) (*result.Set, error) {
	if mod == nil {
		return nil, &product.ContractViolation{Reason: "no module loaded"}
	}
	if base.Empty() && rider.Empty() {
		return nil, ErrConfigurationEmpty
	}
	if o.Busy() {
		return nil, ErrBusy
	}
	id := mod.Info().ID
	req := product.NewRequest(base, rider)
	log := o.log.With(zap.String("module", id))
	log.Info("generation started",
		zap.Strings("base_epics", req.BaseKeys),
		zap.Strings("rider_epics", req.RiderKeys),
	)
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	start := time.Now()
	set, err := o.invoke(ctx, mod, req)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("generation failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, err
	}
	log.Info("generation finished", zap.Int("rows", set.Len()), zap.Duration("elapsed", elapsed))
	return set, nil
}

type outcome struct {
	set *result.Set
	err error
}

// invoke runs the entry point, converting errors and panics into a
// GenerationFailure. Without a deadline the call runs on the caller's
// goroutine. A call that outlives its deadline keeps the orchestrator busy
// until it returns.
func (o *Orchestrator) invoke(ctx context.Context, mod product.Module, req product.Request) (*result.Set, error) {
	id := mod.Info().ID
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return call(ctx, id, mod, req)
	}
	done := make(chan outcome, 1)
	returned := make(chan struct{})
	go func() {
		defer close(returned)
		set, err := call(ctx, id, mod, req)
		done <- outcome{set: set, err: err}
	}()
	select {
	case out := <-done:
		return out.set, out.err
	case <-ctx.Done():
		o.mu.Lock()
		o.abandoned = returned
		o.mu.Unlock()
		o.log.Warn("generation abandoned after deadline; module still running", zap.String("module", id))
		return nil, &GenerationFailure{ModuleID: id, Err: fmt.Errorf("generation did not finish: %w", ctx.Err())}
	}
}

func call(ctx context.Context, id string, mod product.Module, req product.Request) (set *result.Set, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			set = nil
			err = &GenerationFailure{ModuleID: id, Err: fmt.Errorf("panic: %v", rec), Stack: debug.Stack()}
		}
	}()
	set, err = mod.Generate(ctx, req)
	if err != nil {
		var violation *product.ContractViolation
		if errors.As(err, &violation) {
			return nil, err
		}
		return nil, &GenerationFailure{ModuleID: id, Err: err}
	}
	if set == nil {
		return nil, &product.ContractViolation{ID: id, Reason: "generation returned no result set"}
	}
	return set, nil
}
