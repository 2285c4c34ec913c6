package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/casegen/internal/config"
	"github.com/kingrea/casegen/internal/contracts"
	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/export"
	"github.com/kingrea/casegen/internal/generation"
	"github.com/kingrea/casegen/internal/logbook"
	"github.com/kingrea/casegen/internal/report"
	"github.com/kingrea/casegen/internal/result"
	"github.com/kingrea/casegen/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .casegen directory and a default config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitDir(cfg.ProjectDir); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", cfg.StateDir)
		fmt.Fprintf(cmd.OutOrStdout(), "Drop interpreted product modules into %s\n", cfg.ModulesDir())
		return nil
	},
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the available product modules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report.NewPrinter(cmd.OutOrStdout(), interactive()).Catalog(registry.List())
		return nil
	},
}

var epicsCmd = &cobra.Command{
	Use:   "epics <module>",
	Short: "Show the base and rider epics a product module exposes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveModule(args[0])
		if err != nil {
			return err
		}
		mod, err := registry.Load(id)
		if err != nil {
			return err
		}
		p := report.NewPrinter(cmd.OutOrStdout(), interactive())
		p.Epics(epic.FamilyBase, mod.EpicMap())
		p.Epics(epic.FamilyRider, mod.RiderEpicMap())
		return nil
	},
}

var (
	planPath    string
	moduleFlag  string
	formatFlags []string
	outDir      string
	noReview    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test cases from a run plan and export them",
	Long: `Loads a run plan, normalizes the base and rider selections against the
product's epic maps, invokes the module once and writes the result set.
A family written without select_all or epics (for example "base: {}")
selects every epic in it; a family left out of the plan selects none.

Example plan:

  module: term_plan
  global: {positive: 5, negative: 5}
  base:
    select_all: true
  rider:
    epics:
      MaturityAge: {selected: true}`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&planPath, "plan", "", "Run plan YAML file (required)")
	generateCmd.Flags().StringVarP(&moduleFlag, "module", "m", "", "Module id or display name, overriding the plan")
	generateCmd.Flags().StringSliceVarP(&formatFlags, "format", "f", nil, "Export formats: xlsx, csv (default from plan)")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "Export directory (default from config)")
	generateCmd.Flags().BoolVar(&noReview, "no-review", false, "Print the summary instead of opening the review screen")
	generateCmd.MarkFlagRequired("plan")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	plan, err := config.LoadPlan(planPath)
	if err != nil {
		return err
	}
	id, err := chooseModule(plan)
	if err != nil {
		return err
	}
	encoders, err := encodersFor(plan.Formats)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := generation.NewOrchestrator(
		generation.WithLogger(logger),
		generation.WithTimeout(cfg.GenerationTimeout()),
	)
	session := generation.NewSession(registry, orch, logger)
	mod, err := session.SelectProduct(id)
	if err != nil {
		return err
	}
	if _, err := session.Configure(plan.Base, plan.Rider); err != nil {
		return err
	}
	book, err := logbook.New(cfg.RunLogPath())
	if err != nil {
		return err
	}
	set, err := session.Generate(ctx)
	if err != nil && !generation.IsCallerError(err) {
		record(book, logbook.Entry{
			RunID:    session.Snapshot().RunID,
			ModuleID: id,
			Status:   logbook.StatusFailed,
			Message:  generation.StatusMessage(err),
		})
	}
	if err != nil {
		return err
	}

	dir := cfg.ExportDir()
	if outDir != "" {
		dir = outDir
	}
	paths, err := export.WriteFiles(dir, export.FilePrefix(id, time.Now()), set, encoders...)
	if err != nil {
		return err
	}
	runID := session.Snapshot().RunID
	logger.Info("results exported", zap.String("module", id), zap.Strings("paths", paths), zap.String("run", runID))
	record(book, logbook.Entry{RunID: runID, ModuleID: id, Status: logbook.StatusOK, Rows: set.Len(), Paths: paths})

	footer := "Saved " + strings.Join(paths, ", ")
	if interactive() && !noReview {
		review := tui.NewReview(mod.Info().DisplayName(), set, cfg.SampleSize(), tui.WithFooter(footer))
		if _, err := tea.NewProgram(review, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("review: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), footer)
		return nil
	}
	p := report.NewPrinter(cmd.OutOrStdout(), interactive())
	p.Summary(result.Summarize(set))
	p.Rows(result.Sample(set, cfg.SampleSize()))
	fmt.Fprintln(cmd.OutOrStdout(), footer)
	return nil
}

func record(book *logbook.Logbook, e logbook.Entry) {
	if err := book.Append(e); err != nil {
		logger.Warn("run history not written", zap.Error(err))
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate <module>",
	Short: "Check a product module against the module contract",
	Long: `Loads the module, checks its epic maps and runs a smoke generation with
every epic selected at one positive and one negative case. Rows must carry
Epic and Test_Type columns naming selected epics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveModule(args[0])
		if err != nil {
			return err
		}
		orch := generation.NewOrchestrator(
			generation.WithLogger(logger),
			generation.WithTimeout(cfg.GenerationTimeout()),
		)
		report, err := contracts.ValidateModule(cmd.Context(), registry, orch, id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range report.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if report.IsValid() {
			fmt.Fprintf(out, "OK: %s (%s), %d smoke rows\n", report.ModuleID, report.Name, report.Rows)
			return nil
		}
		fmt.Fprintf(out, "Invalid: %s (%s)\n", report.ModuleID, report.Name)
		for _, validationErr := range report.Errors {
			fmt.Fprintf(out, "- %v\n", validationErr)
		}
		return fmt.Errorf("module %s failed validation", report.ModuleID)
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent generation runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 1 {
			return fmt.Errorf("history: --limit must be at least 1, got %d", historyLimit)
		}
		book, err := logbook.New(cfg.RunLogPath())
		if err != nil {
			return err
		}
		lines, total := book.Tail(historyLimit)
		if total == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No generation runs recorded")
			return nil
		}
		for _, line := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		if total > len(lines) {
			fmt.Fprintf(cmd.OutOrStdout(), "(%d of %d runs)\n", len(lines), total)
		}
		return nil
	},
}

// chooseModule resolves the --module flag, then the plan, then an
// interactive picker.
func chooseModule(plan *config.Plan) (string, error) {
	if moduleFlag != "" {
		return resolveModule(moduleFlag)
	}
	if plan.Module != "" {
		return resolveModule(plan.Module)
	}
	if !interactive() {
		return "", generation.ErrNoProduct
	}
	picker := tui.NewPicker(registry.List())
	if _, err := tea.NewProgram(picker).Run(); err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	if picker.Choice() == "" {
		return "", generation.ErrNoProduct
	}
	return picker.Choice(), nil
}

// resolveModule accepts a module id or a catalog display name.
func resolveModule(name string) (string, error) {
	for _, id := range registry.IDs() {
		if id == name {
			return id, nil
		}
	}
	if id, ok := registry.List().Lookup(name); ok {
		return id, nil
	}
	return name, nil
}

func encodersFor(formats []string) ([]export.Encoder, error) {
	if len(formatFlags) > 0 {
		formats = formatFlags
	}
	encoders := make([]export.Encoder, 0, len(formats))
	for _, f := range formats {
		enc, err := export.ByName(strings.ToLower(strings.TrimSpace(f)))
		if err != nil {
			return nil, err
		}
		encoders = append(encoders, enc)
	}
	return encoders, nil
}

// describe turns err into the operator-facing line, with full detail under
// --debug.
func describe(err error) string {
	msg := generation.StatusMessage(err)
	if !debug {
		return fmt.Sprintf("%s (%v)", msg, err)
	}
	var failure *generation.GenerationFailure
	if errors.As(err, &failure) {
		return msg + "\n" + failure.Detail()
	}
	return msg + "\n" + err.Error()
}
