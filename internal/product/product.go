// Package product defines the contract a product ("logic") module satisfies
// and the registry that discovers and loads modules.
package product

import (
	"context"
	"fmt"

	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/result"
)

// Info describes a module's identity. Name is the self-declared display name
// and may be empty.
type Info struct {
	ID          string
	Name        string
	Description string
	Version     string
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("product: id is required")
	}
	return nil
}

// DisplayName returns Name, or a title derived from the ID.
func (i Info) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return DisplayNameFromID(i.ID)
}

// Request is the one-shot generation input. The key lists repeat the specs'
// own keys; modules may ignore them.
type Request struct {
	Base      *epic.Spec
	BaseKeys  []string
	Rider     *epic.Spec
	RiderKeys []string
}

// NewRequest fills the key lists from the specs.
func NewRequest(base, rider *epic.Spec) Request {
	return Request{
		Base:      base,
		BaseKeys:  base.Keys(),
		Rider:     rider,
		RiderKeys: rider.Keys(),
	}
}

// Module is implemented by every product module.
type Module interface {
	Info() Info
	// EpicMap lists the base-plan epics in display order.
	EpicMap() epic.Map
	// RiderEpicMap lists the rider epics, or nil when the product has none.
	RiderEpicMap() epic.Map
	// Generate synthesizes the case rows for req. Returning an error is the
	// documented failure path.
	Generate(ctx context.Context, req Request) (*result.Set, error)
}

// CheckContract validates the shape of a loaded module.
func CheckContract(id string, m Module) error {
	if m == nil {
		return &ContractViolation{ID: id, Reason: "module is nil"}
	}
	if err := m.Info().Validate(); err != nil {
		return &ContractViolation{ID: id, Reason: err.Error()}
	}
	base := m.EpicMap()
	if base == nil {
		return &ContractViolation{ID: id, Reason: "EpicMap is missing"}
	}
	if err := base.Validate(); err != nil {
		return &ContractViolation{ID: id, Reason: err.Error()}
	}
	if err := m.RiderEpicMap().Validate(); err != nil {
		return &ContractViolation{ID: id, Reason: "rider " + err.Error()}
	}
	return nil
}
