package plugins

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/kingrea/casegen/internal/epic"
	"github.com/kingrea/casegen/internal/product"
	"github.com/kingrea/casegen/internal/result"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Symbols an interpreted product module may declare.
const (
	symbolModuleName   = "main.ModuleName"
	symbolEpicMap      = "main.EpicMap"
	symbolEpicMapRider = "main.EpicMapRider"
	symbolGenerate     = "main.GenerateTestCases"
)

// allowedImports limits interpreted modules to pure computation.
var allowedImports = map[string]bool{
	"errors":       true,
	"fmt":          true,
	"math":         true,
	"math/rand":    true,
	"math/rand/v2": true,
	"sort":         true,
	"strconv":      true,
	"strings":      true,
	"time":         true,
}

type epicMapFunc = func() [][2]string

type generateFunc = func(map[string]any, []string, map[string]any, []string) ([]map[string]any, error)

// scriptModule is a product module interpreted from a single .go file.
type scriptModule struct {
	info     product.Info
	base     epic.Map
	rider    epic.Map
	generate generateFunc
}

func (m *scriptModule) Info() product.Info     { return m.info }
func (m *scriptModule) EpicMap() epic.Map      { return m.base }
func (m *scriptModule) RiderEpicMap() epic.Map { return m.rider }

// Generate hands the canonical nested maps to GenerateTestCases. The
// interpreted call cannot observe ctx.
func (m *scriptModule) Generate(_ context.Context, req product.Request) (*result.Set, error) {
	records, err := m.generate(req.Base.Wire(), req.BaseKeys, req.Rider.Wire(), req.RiderKeys)
	if err != nil {
		return nil, err
	}
	return result.FromRecords(records), nil
}

// loadScriptModule interprets path in a new interpreter and binds the module
// symbols. Interpretation problems are returned as plain errors; missing or
// mistyped symbols as *product.ContractViolation.
func loadScriptModule(id, path string) (*scriptModule, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("plugin: %s is empty", path)
	}
	if err := validateImports(path, code); err != nil {
		return nil, err
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("plugin: load stdlib symbols: %w", err)
	}
	if _, err := i.Eval(string(code)); err != nil {
		return nil, fmt.Errorf("plugin: interpret %s: %w", path, err)
	}
	mod := &scriptModule{info: product.Info{ID: id}}
	if v, err := i.Eval(symbolModuleName); err == nil && v.IsValid() && v.Kind() == reflect.String {
		mod.info.Name = strings.TrimSpace(v.String())
	}
	manifest, _, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	manifest.apply(&mod.info)
	baseFn, err := bindEpicMap(i, symbolEpicMap)
	if err != nil {
		return nil, &product.ContractViolation{ID: id, Reason: err.Error()}
	}
	if baseFn == nil {
		return nil, &product.ContractViolation{ID: id, Reason: "EpicMap() [][2]string is not defined"}
	}
	if mod.base, err = callEpicMap(baseFn); err != nil {
		return nil, fmt.Errorf("plugin: %s: EpicMap: %w", path, err)
	}
	riderFn, err := bindEpicMap(i, symbolEpicMapRider)
	if err != nil {
		return nil, &product.ContractViolation{ID: id, Reason: err.Error()}
	}
	if riderFn != nil {
		if mod.rider, err = callEpicMap(riderFn); err != nil {
			return nil, fmt.Errorf("plugin: %s: EpicMapRider: %w", path, err)
		}
	}
	gen, err := i.Eval(symbolGenerate)
	if err != nil || !gen.IsValid() {
		return nil, &product.ContractViolation{ID: id, Reason: "GenerateTestCases is not defined"}
	}
	fn, ok := gen.Interface().(generateFunc)
	if !ok {
		return nil, &product.ContractViolation{
			ID:     id,
			Reason: "GenerateTestCases must be func(map[string]any, []string, map[string]any, []string) ([]map[string]any, error)",
		}
	}
	mod.generate = fn
	return mod, nil
}

// bindEpicMap returns nil without error when the symbol is absent.
func bindEpicMap(i *interp.Interpreter, symbol string) (epicMapFunc, error) {
	v, err := i.Eval(symbol)
	if err != nil || !v.IsValid() {
		return nil, nil
	}
	fn, ok := v.Interface().(epicMapFunc)
	if !ok {
		return nil, fmt.Errorf("%s must be func() [][2]string", strings.TrimPrefix(symbol, "main."))
	}
	return fn, nil
}

func callEpicMap(fn epicMapFunc) (m epic.Map, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	pairs := fn()
	m = make(epic.Map, 0, len(pairs))
	for _, pair := range pairs {
		m = append(m, epic.Definition{Key: strings.TrimSpace(pair[0]), Description: pair[1]})
	}
	return m, nil
}

func validateImports(path string, code []byte) error {
	file, err := parser.ParseFile(token.NewFileSet(), path, code, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("plugin: parse %s: %w", path, err)
	}
	if file.Name.Name != "main" {
		return fmt.Errorf("plugin: %s must declare package main, got %s", path, file.Name.Name)
	}
	var forbidden []string
	for _, spec := range file.Imports {
		pkg, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return fmt.Errorf("plugin: %s: bad import %s", path, spec.Path.Value)
		}
		if !allowedImports[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return fmt.Errorf("plugin: %s imports forbidden packages: %s", path, strings.Join(forbidden, ", "))
	}
	return nil
}
