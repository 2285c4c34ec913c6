package generation

import (
	"errors"
	"fmt"

	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/product"
)

var (
	// ErrConfigurationEmpty rejects a request with no contributing epic in
	// either family. It is a caller error, not a generation failure.
	ErrConfigurationEmpty = errors.New("generation: no epics selected in base or rider configuration")
	// ErrNoProduct rejects configuration or generation before a product is
	// selected.
	ErrNoProduct = errors.New("generation: no product selected")
	// ErrBusy rejects a request while another generation is in flight.
	ErrBusy = errors.New("generation: a generation is already in progress")
)

// GenerationFailure wraps an error or panic raised by a module's entry point.
type GenerationFailure struct {
	ModuleID string
	Err      error
	// Stack is set when the entry point panicked.
	Stack []byte
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation: %s failed: %v", e.ModuleID, e.Err)
}

func (e *GenerationFailure) Unwrap() error { return e.Err }

// Detail returns the full diagnostic text, including the panic stack.
func (e *GenerationFailure) Detail() string {
	if len(e.Stack) == 0 {
		return e.Error()
	}
	return e.Error() + "\n" + string(e.Stack)
}

// StatusMessage maps an error to the short operator-facing message for its
// kind. Full detail stays available on the error itself.
func StatusMessage(err error) string {
	var (
		discovery *product.DiscoveryError
		load      *product.LoadError
		violation *product.ContractViolation
		failure   *GenerationFailure
		invalid   *epic.ValidationError
	)
	switch {
	case err == nil:
		return "Ready."
	case errors.Is(err, ErrConfigurationEmpty):
		return "Please select at least one epic to generate."
	case errors.Is(err, ErrNoProduct):
		return "Please select a product."
	case errors.Is(err, ErrBusy):
		return "Generation is already running. Please wait."
	case errors.As(err, &violation):
		return "The product module is incomplete and cannot generate test cases."
	case errors.As(err, &load):
		return "The product module failed to load."
	case errors.As(err, &discovery):
		return "A product module could not describe itself."
	case errors.As(err, &failure):
		return "Test case generation failed."
	case errors.As(err, &invalid):
		return "The epic configuration is invalid."
	default:
		return "Something went wrong."
	}
}
