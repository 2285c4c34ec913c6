// Package logging builds the zap logger that appends to
// .casegen/logs/casegen.log so failures can be inspected after a run.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kingrea/casegen/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file inside the project's logs directory.
const FileName = "casegen.log"

// Path returns the log file location for projectDir.
func Path(projectDir string) string {
	return filepath.Join(projectDir, config.ProjectDirName, "logs", FileName)
}

// New creates (or reuses) the log file for projectDir and returns a JSON
// logger at level. The caller should Sync the logger before exiting.
func New(projectDir, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	path := Path(projectDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return logger, nil
}
