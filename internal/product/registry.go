package product

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Factory constructs a fresh module instance. It is called on every listing
// and every load; nothing is cached between calls.
type Factory func() (Module, error)

// Registry maintains known module factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	log       *zap.Logger
}

// RegistryOption customizes a registry.
type RegistryOption func(*Registry)

// WithLogger routes discovery and load diagnostics to log.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{factories: map[string]Factory{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs a module factory. Returns an error if the ID already exists.
func (r *Registry) Register(id string, factory Factory) error {
	if id == "" {
		return fmt.Errorf("product: id is required")
	}
	if factory == nil {
		return fmt.Errorf("product: factory is required for %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("product: %s already registered", id)
	}
	r.factories[id] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(id string, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic(err)
	}
}

// IDs returns a sorted list of registered module identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Load constructs a fresh instance of module id and checks its shape.
func (r *Registry) Load(id string) (Module, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &LoadError{ID: id, Err: fmt.Errorf("unknown module")}
	}
	mod, err := construct(factory)
	if err != nil {
		r.log.Warn("module load failed", zap.String("module", id), zap.Error(err))
		var violation *ContractViolation
		if errors.As(err, &violation) {
			return nil, violation
		}
		return nil, &LoadError{ID: id, Err: err}
	}
	if err := CheckContract(id, mod); err != nil {
		r.log.Warn("module contract violation", zap.String("module", id), zap.Error(err))
		return nil, err
	}
	r.log.Debug("module loaded", zap.String("module", id))
	return mod, nil
}

// Entry is one listed module.
type Entry struct {
	ID          string
	DisplayName string
	// Degraded is set when the module failed to describe itself.
	Degraded bool
}

// Catalog is the result of listing the registry.
type Catalog struct {
	Entries  []Entry
	Problems []*DiscoveryError
}

// ByDisplayName maps display names to module identifiers.
func (c Catalog) ByDisplayName() map[string]string {
	out := make(map[string]string, len(c.Entries))
	for _, e := range c.Entries {
		out[e.DisplayName] = e.ID
	}
	return out
}

// DisplayNames returns the listed names in catalog order.
func (c Catalog) DisplayNames() []string {
	out := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.DisplayName
	}
	return out
}

// Lookup returns the ID listed under name.
func (c Catalog) Lookup(name string) (string, bool) {
	for _, e := range c.Entries {
		if e.DisplayName == name {
			return e.ID, true
		}
	}
	return "", false
}

// List introspects every registered module. A module that fails to describe
// itself is still listed under a name derived from its ID, so one broken
// module never hides the others.
func (r *Registry) List() Catalog {
	var cat Catalog
	taken := map[string]bool{}
	for _, id := range r.IDs() {
		r.mu.RLock()
		factory := r.factories[id]
		r.mu.RUnlock()
		entry := Entry{ID: id}
		mod, err := construct(factory)
		if err == nil && mod == nil {
			err = fmt.Errorf("factory returned nil module")
		}
		if err != nil {
			problem := &DiscoveryError{ID: id, Err: err}
			cat.Problems = append(cat.Problems, problem)
			r.log.Warn("module failed to describe itself", zap.String("module", id), zap.Error(err))
			entry.Degraded = true
			entry.DisplayName = DisplayNameFromID(id)
		} else {
			info := mod.Info()
			if info.ID == "" {
				info.ID = id
			}
			entry.DisplayName = info.DisplayName()
		}
		if taken[entry.DisplayName] {
			entry.DisplayName = fmt.Sprintf("%s (%s)", entry.DisplayName, id)
		}
		taken[entry.DisplayName] = true
		cat.Entries = append(cat.Entries, entry)
	}
	sort.SliceStable(cat.Entries, func(i, j int) bool {
		return cat.Entries[i].DisplayName < cat.Entries[j].DisplayName
	})
	return cat
}

// construct runs factory, converting a panic into an error.
func construct(factory Factory) (mod Module, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mod = nil
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return factory()
}
