package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kingrea/casegen/internal/epic"
	"gopkg.in/yaml.v3"
)

// Plan is a saved run configuration: the product to generate for and the raw
// selections for both epic families. An empty module leaves the choice to the
// caller. A family written without select_all or epics, such as "base: {}",
// selects all of its epics; an omitted family selects none.
//
//	module: term_plan
//	mode: per_epic
//	global: {positive: 5, negative: 5}
//	formats: [xlsx, csv]
//	base:
//	  select_all: true
//	  epics:
//	    EntryAge:
//	      ppt:
//	        "Single Pay": {range: [18, 60]}
//	rider:
//	  epics:
//	    MaturityAge: {selected: true}
type Plan struct {
	Module  string         `yaml:"module"`
	Mode    epic.CountMode `yaml:"mode,omitempty"`
	Global  *epic.Counts   `yaml:"global,omitempty"`
	Formats []string       `yaml:"formats,omitempty"`
	Base    epic.Input     `yaml:"base"`
	Rider   epic.Input     `yaml:"rider"`
}

// familyKeys records which selection keys a plan spelled out. A family that is
// present but names neither select_all nor epics selects every epic.
type familyKeys struct {
	SelectAll *bool          `yaml:"select_all"`
	Epics     map[string]any `yaml:"epics"`
}

func (f *familyKeys) selectsAll() bool {
	return f != nil && f.SelectAll == nil && len(f.Epics) == 0
}

// LoadPlan reads and validates a run plan. Top-level mode and global counts
// apply to a family that does not set its own.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read plan %s: %w", path, err)
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("config: parse plan %s: %w", path, err)
	}
	var keys struct {
		Base  *familyKeys `yaml:"base"`
		Rider *familyKeys `yaml:"rider"`
	}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("config: parse plan %s: %w", path, err)
	}
	if keys.Base.selectsAll() {
		plan.Base.SelectAll = true
	}
	if keys.Rider.selectsAll() {
		plan.Rider.SelectAll = true
	}
	plan.normalize()
	if err := plan.validate(); err != nil {
		return nil, fmt.Errorf("config: plan %s: %w", path, err)
	}
	return &plan, nil
}

func (p *Plan) normalize() {
	p.Module = strings.TrimSpace(p.Module)
	for _, in := range []*epic.Input{&p.Base, &p.Rider} {
		if in.Mode == "" {
			in.Mode = p.Mode
		}
		if in.Global == nil && p.Global != nil {
			g := *p.Global
			in.Global = &g
		}
	}
	if len(p.Formats) == 0 {
		p.Formats = []string{"xlsx"}
	}
	for i, f := range p.Formats {
		p.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
}

func (p *Plan) validate() error {
	for _, f := range p.Formats {
		switch f {
		case "xlsx", "csv":
		default:
			return fmt.Errorf("unknown export format %q", f)
		}
	}
	return nil
}
