package termplan

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/product"
	"github.com/kingrea/casegen/internal/result"
)

// ID is the registry identifier of the module.
const ID = "term_plan"

const (
	columnTUID     = "TUID"
	columnPlan     = "Plan"
	columnPPT      = "PPT"
	columnField    = "Field"
	columnValue    = "Input_Value"
	columnExpected = "Expected_Result"
	columnRule     = "Rule_Validation"
)

var columns = []string{
	columnTUID,
	columnPlan,
	result.ColumnEpic,
	result.ColumnTestType,
	columnPPT,
	columnField,
	columnValue,
	columnExpected,
	columnRule,
}

var baseEpics = epic.Map{
	{Key: epic.KeyEntryAge, Description: "Entry age limits by premium payment term"},
	{Key: epic.KeyPolicyTerm, Description: "Policy term limits by premium payment term"},
	{Key: epic.KeyPremiumPayingTerm, Description: "Premium paying term options"},
	{Key: epic.KeyMaturityAge, Description: "Maturity age limits"},
	{Key: epic.KeyPaymentFrequency, Description: "Allowed premium payment frequencies"},
	{Key: epic.KeySumAssured, Description: "Minimum and maximum sum assured"},
	{Key: "SmokerStatus", Description: "Smoker / non-smoker declaration"},
}

var riderEpics = epic.Map{
	{Key: epic.KeyEntryAge, Description: "Rider entry age limits"},
	{Key: epic.KeyMaturityAge, Description: "Rider maturity age limits"},
	{Key: epic.KeyPaymentFrequency, Description: "Rider payment frequency alignment"},
	{Key: "RiderSumAssured", Description: "Rider sum assured capped at base sum assured"},
}

// Option customizes the module.
type Option func(*Module)

// WithRand fixes the random source, for reproducible output.
func WithRand(rng *rand.Rand) Option {
	return func(m *Module) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// Module implements product.Module.
type Module struct {
	rng *rand.Rand
}

// New returns a module seeded from the clock unless WithRand is given.
func New(opts ...Option) *Module {
	seed := uint64(time.Now().UnixNano())
	m := &Module{rng: rand.New(rand.NewPCG(seed, seed>>1))}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register installs the module factory.
func Register(reg *product.Registry) {
	reg.MustRegister(ID, func() (product.Module, error) {
		return New(), nil
	})
}

func (m *Module) Info() product.Info {
	return product.Info{
		ID:          ID,
		Name:        "Level Term Plan",
		Description: "Level term assurance with accidental death rider",
		Version:     "1.0.0",
	}
}

func (m *Module) EpicMap() epic.Map      { return append(epic.Map(nil), baseEpics...) }
func (m *Module) RiderEpicMap() epic.Map { return append(epic.Map(nil), riderEpics...) }

// Generate emits the configured number of positive and negative rows per
// epic, base plan first.
func (m *Module) Generate(ctx context.Context, req product.Request) (*result.Set, error) {
	var rows []result.Row
	for _, family := range []struct {
		plan string
		spec *epic.Spec
	}{{"Base", req.Base}, {"Rider", req.Rider}} {
		for _, key := range family.spec.Keys() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			payload, _ := family.spec.Get(key)
			g := caseWriter{plan: family.plan, epic: key, rng: m.rng}
			switch p := payload.(type) {
			case *epic.PPTRanged:
				g.pptRanged(p)
			case *epic.Frequency:
				g.frequency(p)
			case *epic.TieredRange:
				g.tiered(p)
			case *epic.Generic:
				g.generic(p)
			default:
				return nil, fmt.Errorf("termplan: unsupported payload %T for %s", payload, key)
			}
			rows = append(rows, g.rows...)
		}
	}
	return result.NewSet(columns, rows), nil
}
