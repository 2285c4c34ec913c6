package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/casegen/internal/epic"
)

func writeConfig(t *testing.T, projectDir, body string) {
	t.Helper()
	stateDir := filepath.Join(projectDir, ProjectDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stateDir, "config.yaml"), []byte(strings.TrimSpace(body)), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if want := filepath.Join(c.ProjectDir, ProjectDirName, "modules"); c.ModulesDir() != want {
		t.Fatalf("expected modules dir %q, got %q", want, c.ModulesDir())
	}
	if c.GenerationTimeout() != 0 {
		t.Fatalf("expected no generation timeout, got %s", c.GenerationTimeout())
	}
	if c.SampleSize() != defaultSampleSize {
		t.Fatalf("expected sample size %d, got %d", defaultSampleSize, c.SampleSize())
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
modules_dir: products
export_dir: /tmp/casegen-exports
log_level: DEBUG
generation:
  timeout: 90s
sample_size: 25
`)
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if want := filepath.Join(c.ProjectDir, "products"); c.ModulesDir() != want {
		t.Fatalf("expected modules dir to be resolved to %q, got %q", want, c.ModulesDir())
	}
	if c.ExportDir() != "/tmp/casegen-exports" {
		t.Fatalf("expected absolute export dir to be kept, got %s", c.ExportDir())
	}
	if c.LogLevel() != "debug" {
		t.Fatalf("expected normalized log level, got %s", c.LogLevel())
	}
	if c.GenerationTimeout() != 90*time.Second {
		t.Fatalf("expected 90s timeout, got %s", c.GenerationTimeout())
	}
	if c.SampleSize() != 25 {
		t.Fatalf("expected sample size 25, got %d", c.SampleSize())
	}
}

func TestNewConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
log_level: loud
`)
	if _, err := NewConfig(projectDir); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestInitDirWritesDefaultsOnce(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("InitDir returned error: %v", err)
	}
	for _, sub := range []string{"logs", "modules", "exports"} {
		if info, err := os.Stat(filepath.Join(projectDir, ProjectDirName, sub)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s dir, got %v", sub, err)
		}
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("default config does not load: %v", err)
	}
	if c.LogLevel() != "info" {
		t.Fatalf("expected info log level, got %s", c.LogLevel())
	}

	custom := "version: 1\nsample_size: 3\n"
	if err := os.WriteFile(c.ProjectConfigPath(), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("second InitDir returned error: %v", err)
	}
	data, err := os.ReadFile(c.ProjectConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != custom {
		t.Fatalf("InitDir overwrote an existing config")
	}
}

func TestLoadPlanAppliesTopLevelCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	body := strings.TrimSpace(`
module: term_plan
mode: per_epic
global: {positive: 2, negative: 3}
formats: [XLSX, csv]
base:
  select_all: true
  epics:
    EntryAge:
      ppt:
        "Single Pay": {range: [18, 60]}
        "Regular Pay": {enabled: false}
rider:
  global: {positive: 1, negative: 1}
  epics:
    MaturityAge: {selected: true}
`)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan returned error: %v", err)
	}
	if plan.Module != "term_plan" {
		t.Fatalf("unexpected module %q", plan.Module)
	}
	if plan.Base.Mode != epic.ModePerEpic || plan.Rider.Mode != epic.ModePerEpic {
		t.Fatalf("expected mode to propagate, got %q/%q", plan.Base.Mode, plan.Rider.Mode)
	}
	if plan.Base.Global == nil || *plan.Base.Global != (epic.Counts{Positive: 2, Negative: 3}) {
		t.Fatalf("expected base to inherit global counts, got %+v", plan.Base.Global)
	}
	if *plan.Rider.Global != (epic.Counts{Positive: 1, Negative: 1}) {
		t.Fatalf("expected rider to keep its own counts, got %+v", plan.Rider.Global)
	}
	if got := strings.Join(plan.Formats, ","); got != "xlsx,csv" {
		t.Fatalf("unexpected formats %s", got)
	}
	sp := plan.Base.Epics["EntryAge"].PPT[epic.PPTSinglePay]
	if sp.Range == nil || *sp.Range != (epic.Range{Min: 18, Max: 60}) {
		t.Fatalf("expected single pay range 18-60, got %+v", sp.Range)
	}
}

func TestLoadPlanRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("module: term_plan\nformats: [pdf]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlan(path); err == nil {
		t.Fatalf("expected error for unknown export format")
	}
}

func TestLoadPlanModuleIsOptional(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("base: {select_all: true}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan returned error: %v", err)
	}
	if plan.Module != "" || !plan.Base.SelectAll {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if len(plan.Formats) != 1 || plan.Formats[0] != "xlsx" {
		t.Fatalf("expected default xlsx format, got %v", plan.Formats)
	}
}

func TestLoadPlanBareFamilySelectsAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	body := "module: term_plan\nbase: {}\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan returned error: %v", err)
	}
	if !plan.Base.SelectAll {
		t.Fatalf("expected bare base family to select all epics")
	}
	if plan.Rider.SelectAll {
		t.Fatalf("expected omitted rider family to select nothing")
	}
}

func TestLoadPlanExplicitSelectionIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	body := strings.TrimSpace(`
base:
  select_all: false
rider:
  epics:
    MaturityAge: {selected: true}
`)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan returned error: %v", err)
	}
	if plan.Base.SelectAll || plan.Rider.SelectAll {
		t.Fatalf("expected explicit selections to be kept, got base=%v rider=%v", plan.Base.SelectAll, plan.Rider.SelectAll)
	}
}
