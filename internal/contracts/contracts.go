// Package contracts checks that a product module honors the module contract
// end to end: its shape, its epic maps and the rows a smoke generation yields.
package contracts

import (
	"context"
	"fmt"

	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/generation"
	"github.com/kingrea/casegen/internal/product"
	"github.com/kingrea/casegen/internal/result"
)

// maxRowErrors caps per-row findings so one systematic bug does not flood
// the report.
const maxRowErrors = 5

// Report captures validation results for one module.
type Report struct {
	ModuleID string
	Name     string
	// Kinds maps each base and rider epic key to the shape it is normalized to.
	Kinds    map[string]epic.Kind
	Rows     int
	Errors   []error
	Warnings []string
}

// IsValid reports whether the validation passed.
func (r *Report) IsValid() bool {
	return r != nil && len(r.Errors) == 0
}

func (r *Report) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Errorf(format, args...))
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateModule loads id and runs a smoke generation with every epic
// selected at one positive and one negative case. A module that cannot be
// loaded is returned as an error rather than a report.
func ValidateModule(ctx context.Context, reg *product.Registry, orch *generation.Orchestrator, id string) (*Report, error) {
	mod, err := reg.Load(id)
	if err != nil {
		return nil, err
	}
	report := &Report{ModuleID: id, Name: mod.Info().DisplayName(), Kinds: map[string]epic.Kind{}}
	if mod.Info().Name == "" {
		report.warn("module declares no display name; listed as %q", report.Name)
	}

	base, rider := mod.EpicMap(), mod.RiderEpicMap()
	if len(base) == 0 {
		report.warn("EpicMap is empty")
	}
	for _, d := range append(append(epic.Map{}, base...), rider...) {
		report.Kinds[d.Key] = epic.KindOf(d.Key)
	}

	smoke := epic.Input{SelectAll: true, Global: &epic.Counts{Positive: 1, Negative: 1}}
	plan, err := epic.NormalizePlan(base, rider, smoke, smoke)
	if err != nil {
		report.fail("normalize epics: %v", err)
		return report, nil
	}
	if plan.Empty() {
		report.warn("no epics to generate for")
		return report, nil
	}
	if orch == nil {
		orch = generation.NewOrchestrator()
	}
	set, err := orch.Generate(ctx, mod, plan.Base, plan.Rider)
	if err != nil {
		report.fail("smoke generation: %v", err)
		return report, nil
	}
	report.Rows = set.Len()
	keys := append(plan.Base.Keys(), plan.Rider.Keys()...)
	report.Errors = append(report.Errors, ValidateRows(set, keys)...)
	for _, key := range keys {
		if !hasEpic(set, key) {
			report.warn("no rows generated for epic %q", key)
		}
	}
	return report, nil
}

// ValidateRows checks the conventional columns of set. Every row needs a
// Test_Type of Positive or Negative and an Epic naming one of keys.
func ValidateRows(set *result.Set, keys []string) []error {
	var errs []error
	if set.Len() == 0 {
		return []error{fmt.Errorf("result set is empty")}
	}
	for _, col := range []string{result.ColumnEpic, result.ColumnTestType} {
		if !set.HasColumn(col) {
			errs = append(errs, fmt.Errorf("column %q is missing", col))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}
	var rowErrs int
	set.Each(func(i int, row result.Row) {
		if rowErrs >= maxRowErrors {
			return
		}
		switch tt := row.Text(result.ColumnTestType); tt {
		case result.TestTypePositive, result.TestTypeNegative:
		default:
			errs = append(errs, fmt.Errorf("row %d: Test_Type %q must be Positive or Negative", i, tt))
			rowErrs++
		}
		if e := row.Text(result.ColumnEpic); !known[e] {
			errs = append(errs, fmt.Errorf("row %d: Epic %q was not selected", i, e))
			rowErrs++
		}
	})
	return errs
}

func hasEpic(set *result.Set, key string) bool {
	found := false
	set.Each(func(_ int, row result.Row) {
		if row.Text(result.ColumnEpic) == key {
			found = true
		}
	})
	return found
}
