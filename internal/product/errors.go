package product

import "fmt"

// DiscoveryError records a module that failed to describe itself while the
// catalog was built. The module is still listed under a derived name.
type DiscoveryError struct {
	ID  string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("product: describe %s: %v", e.ID, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// LoadError reports a module that could not be constructed.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("product: load %s: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ContractViolation reports a module that loaded but does not expose the
// required epic maps or generation entry point.
type ContractViolation struct {
	ID     string
	Reason string
}

func (e *ContractViolation) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("product: contract violation: %s", e.Reason)
	}
	return fmt.Sprintf("product: %s violates contract: %s", e.ID, e.Reason)
}
