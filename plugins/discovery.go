// Package plugins discovers product modules written as plain Go files and
// runs them through the yaegi interpreter.
package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kingrea/casegen/internal/product"
)

// ScriptFile is one discovered module source.
type ScriptFile struct {
	ID   string
	Path string
}

// DiscoverScripts lists candidate module files under dir. Files starting with
// an underscore and test files are skipped. A missing dir yields no files.
func DiscoverScripts(dir string) ([]ScriptFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}
	var files []ScriptFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".go" {
			continue
		}
		if strings.HasPrefix(name, "_") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, ScriptFile{
			ID:   strings.TrimSuffix(name, ".go"),
			Path: filepath.Join(trimmed, name),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// RegisterScriptModules registers one factory per module file under dir. The
// file is interpreted again on every factory call so edits on disk are picked
// up by the next load.
func RegisterScriptModules(reg *product.Registry, dir string) error {
	if reg == nil {
		return nil
	}
	files, err := DiscoverScripts(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		file := file
		if err := reg.Register(file.ID, func() (product.Module, error) {
			mod, err := loadScriptModule(file.ID, file.Path)
			if err != nil {
				return nil, err
			}
			return mod, nil
		}); err != nil {
			return fmt.Errorf("plugin: register %s from %s: %w", file.ID, file.Path, err)
		}
	}
	return nil
}
