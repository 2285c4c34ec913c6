package generation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/product"
	"github.com/kingrea/casegen/internal/result"
	"go.uber.org/zap"
)

// State enumerates the coarse session phases.
type State string

const (
	StateIdle        State = "idle"
	StateConfiguring State = "configuring"
	StateProcessing  State = "processing"
	StateReviewing   State = "reviewing"
	StateFailed      State = "failed"
)

// CanGenerate reports whether a generation may start from s.
func (s State) CanGenerate() bool {
	switch s {
	case StateIdle, StateConfiguring, StateReviewing, StateFailed:
		return true
	default:
		return false
	}
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	State    State
	ModuleID string
	// RunID identifies the most recent generation attempt.
	RunID string
	// Err is the error that moved the session to Failed.
	Err error
}

// Session owns one operator's selection, configuration and results. Sessions
// share nothing; the mutex only makes state checks and transitions atomic.
type Session struct {
	mu       sync.Mutex
	registry *product.Registry
	orch     *Orchestrator
	log      *zap.Logger

	state    State
	moduleID string
	plan     epic.Plan
	result   *result.Set
	runID    string
	err      error
}

// NewSession returns an idle session backed by registry.
func NewSession(registry *product.Registry, orch *Orchestrator, log *zap.Logger) *Session {
	if orch == nil {
		orch = NewOrchestrator(WithLogger(log))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{registry: registry, orch: orch, log: log, state: StateIdle}
}

// SelectProduct loads id and makes it the session's product. Any prior
// configuration is discarded; stored results are kept. A failed load leaves
// the session idle with no product selected.
func (s *Session) SelectProduct(id string) (product.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return nil, ErrBusy
	}
	mod, err := s.registry.Load(id)
	if err != nil {
		s.moduleID = ""
		s.plan = epic.Plan{}
		s.state = StateIdle
		s.log.Warn("product selection failed", zap.String("module", id), zap.Error(err))
		return nil, err
	}
	s.moduleID = id
	s.plan = epic.Plan{}
	s.state = StateConfiguring
	s.log.Info("product selected", zap.String("module", id))
	return mod, nil
}

// Configure reloads the selected product and normalizes both selections
// against its current epic maps.
func (s *Session) Configure(base, rider epic.Input) (epic.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return epic.Plan{}, ErrBusy
	}
	if s.moduleID == "" {
		return epic.Plan{}, ErrNoProduct
	}
	mod, err := s.registry.Load(s.moduleID)
	if err != nil {
		return epic.Plan{}, err
	}
	plan, err := epic.NormalizePlan(mod.EpicMap(), mod.RiderEpicMap(), base, rider)
	if err != nil {
		return epic.Plan{}, err
	}
	s.plan = plan
	s.state = StateConfiguring
	s.log.Debug("configuration updated",
		zap.String("module", s.moduleID),
		zap.Int("base_epics", plan.Base.Len()),
		zap.Int("rider_epics", plan.Rider.Len()),
	)
	return plan, nil
}

// Generate runs the configured plan against a freshly loaded module. On
// failure the previously stored result set is left in place.
func (s *Session) Generate(ctx context.Context) (*result.Set, error) {
	s.mu.Lock()
	if !s.state.CanGenerate() {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.moduleID == "" {
		s.mu.Unlock()
		return nil, ErrNoProduct
	}
	if s.plan.Empty() {
		s.mu.Unlock()
		return nil, ErrConfigurationEmpty
	}
	if s.orch.Busy() {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	id, plan := s.moduleID, s.plan
	s.runID = uuid.NewString()
	s.state = StateProcessing
	s.mu.Unlock()

	var (
		set *result.Set
		err error
	)
	defer func() {
		s.finish(set, err)
	}()

	mod, err := s.registry.Load(id)
	if err != nil {
		return nil, err
	}
	set, err = s.orch.Generate(ctx, mod, plan.Base, plan.Rider)
	if err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Session) finish(set *result.Set, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.log.Warn("generation run failed", zap.String("run", s.runID), zap.Error(err))
		return
	}
	s.result = set
	s.err = nil
	s.state = StateReviewing
}

// Clear drops the stored result set and returns to configuring, or to idle
// when no product is selected.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return ErrBusy
	}
	s.result = nil
	s.err = nil
	if s.moduleID == "" {
		s.state = StateIdle
	} else {
		s.state = StateConfiguring
	}
	return nil
}

// State reports the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot copies the session's externally visible fields.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, ModuleID: s.moduleID, RunID: s.runID, Err: s.err}
}

// Plan returns the normalized configuration in effect.
func (s *Session) Plan() epic.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

// Result returns the result set under review, or nil outside Reviewing.
func (s *Session) Result() *result.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewing {
		return nil
	}
	return s.result
}

// LastResult returns the most recent successful result set, even after a
// later failure.
func (s *Session) LastResult() *result.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// IsCallerError reports whether err was rejected before any generation
// started.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrBusy) || errors.Is(err, ErrNoProduct) || errors.Is(err, ErrConfigurationEmpty)
}
