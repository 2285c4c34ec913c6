package products

import (
	"github.com/kingrea/casegen/internal/product"
	"github.com/kingrea/casegen/internal/products/termplan"
)

// RegisterBuiltins installs all of the compiled product modules into the
// provided registry.
func RegisterBuiltins(reg *product.Registry) {
	if reg == nil {
		return
	}
	termplan.Register(reg)
}
