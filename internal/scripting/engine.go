package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/navigator/internal/nav"
)

var ErrNoFunction = errors.New("lua function not defined")

// Engine wraps a single gopher-lua VM holding the grouping scripts.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir, in
// file name order. A missing directory yields an empty engine.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load grouping scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function of that name exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// GroupKey calls fn(entity) and returns its key. nil or false from Lua means
// "no key". Numbers are accepted and formatted as strings.
func (e *Engine) GroupKey(fn string, ent *nav.Entity) (string, error) {
	f, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	if !ok {
		return "", fmt.Errorf("%s: %w", fn, ErrNoFunction)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, e.entityTable(ent)); err != nil {
		return "", fmt.Errorf("lua %s: %w", fn, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	switch v := result.(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LBool:
		if v {
			return "", fmt.Errorf("lua %s returned true, want string or nil", fn)
		}
		return "", nil
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		return v.String(), nil
	default:
		return "", fmt.Errorf("lua %s returned %s, want string or nil", fn, result.Type())
	}
}

func (e *Engine) entityTable(ent *nav.Entity) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("name", lua.LString(ent.Name))
	t.RawSetString("category", lua.LString(ent.Category.String()))
	t.RawSetString("target", lua.LString(ent.Target))
	t.RawSetString("x", lua.LNumber(ent.Pos.X))
	t.RawSetString("y", lua.LNumber(ent.Pos.Y))
	t.RawSetString("map_id", lua.LNumber(ent.Pos.MapID))
	return t
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
