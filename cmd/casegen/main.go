// cmd/casegen/main.go
//
// Entry point for the casegen CLI.
//
// Flow:
// 1. Resolve the project directory and load .casegen/config.yaml
// 2. Open the project log and build the product registry
// 3. Run the selected subcommand

package main

import (
	"fmt"
	"os"

	"github.com/kingrea/casegen/internal/config"
	"github.com/kingrea/casegen/internal/logging"
	"github.com/kingrea/casegen/internal/product"
	"github.com/kingrea/casegen/internal/products"
	"github.com/kingrea/casegen/plugins"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	projectDir string
	debug      bool

	cfg      *config.Config
	logger   *zap.Logger
	registry *product.Registry
)

var rootCmd = &cobra.Command{
	Use:   "casegen",
	Short: "Generate positive and negative test cases for insurance products",
	Long: `casegen drives product modules that synthesize test case rows for a
product's epics (entry age, policy term, payment frequency, ...).

Compiled modules ship with the binary. Interpreted modules are plain Go files
(package main) dropped into the project's modules directory and are read fresh
on every command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewConfig(projectDir)
		if err != nil {
			return err
		}
		level := cfg.LogLevel()
		if debug {
			level = "debug"
		}
		logger, err = logging.New(cfg.ProjectDir, level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		registry = newRegistry(cfg, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newRegistry(cfg *config.Config, log *zap.Logger) *product.Registry {
	reg := product.NewRegistry(product.WithLogger(log))
	products.RegisterBuiltins(reg)
	if err := plugins.RegisterScriptModules(reg, cfg.ModulesDir()); err != nil {
		log.Warn("interpreted modules unavailable", zap.String("dir", cfg.ModulesDir()), zap.Error(err))
	}
	return reg
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".", "Project directory containing .casegen/")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level and print full error detail")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(epicsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}
