package verification

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/Shopify/go-lua"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
)

// luaEntryPoint is the global function a predicate script must define. It is
// called as evaluate(goal_id, evidence) where evidence is a key/value table,
// and returns "pending", "achieved" or "failed".
const luaEntryPoint = "evaluate"

// luaHookInterval is how many instructions run between cancellation checks.
const luaHookInterval = 1000

// LuaPredicate evaluates evidence with a Lua script. Each evaluation runs in a
// fresh interpreter so scripts cannot carry state between goals.
type LuaPredicate struct {
	name   string
	source string
}

// NewLuaPredicate checks that source loads and defines evaluate.
func NewLuaPredicate(name, source string) (*LuaPredicate, error) {
	p := &LuaPredicate{name: name, source: source}
	state, err := p.load()
	if err != nil {
		return nil, err
	}
	state.Pop(1)
	return p, nil
}

// LoadLuaPredicates reads every *.lua file in dir and returns predicates keyed
// by the upper-cased file stem, so achieved_steps.lua registers ACHIEVED_STEPS.
func LoadLuaPredicates(dir string) (map[string]*LuaPredicate, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return nil, fmt.Errorf("list lua predicates: %w", err)
	}
	out := make(map[string]*LuaPredicate, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read lua predicate %s: %w", path, err)
		}
		tag := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		p, err := NewLuaPredicate(tag, string(data))
		if err != nil {
			return nil, err
		}
		out[tag] = p
	}
	return out, nil
}

// Evaluate implements Predicate.
func (p *LuaPredicate) Evaluate(ctx context.Context, goalID uint64, evidence []Evidence) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomePending, err
	}
	state, err := p.load()
	if err != nil {
		return OutcomePending, err
	}
	state.PushInteger(int(goalID))
	state.NewTable()
	for _, e := range evidence {
		state.PushString(e.Value)
		state.SetField(-2, e.Key)
	}
	lua.SetDebugHook(state, func(l *lua.State, _ lua.Debug) {
		if ctx.Err() != nil {
			lua.Errorf(l, "evaluation cancelled")
		}
	}, lua.MaskCount, luaHookInterval)
	if err := state.ProtectedCall(2, 1, 0); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return OutcomePending, fmt.Errorf("lua predicate %s: %w", p.name, ctxErr)
		}
		return OutcomePending, apperrors.Errorf(apperrors.CodeEvidenceInvalid, "predicate script failed: %v", err).With("Requirement", p.name)
	}
	raw, _ := state.ToString(-1)
	outcome, ok := ParseOutcome(raw)
	if !ok {
		return OutcomePending, apperrors.Errorf(apperrors.CodeEvidenceInvalid, "predicate script returned %q", raw).With("Requirement", p.name)
	}
	return outcome, nil
}

// load runs the script in a new state and leaves evaluate on the stack.
func (p *LuaPredicate) load() (*lua.State, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	if err := lua.DoString(state, p.source); err != nil {
		return nil, fmt.Errorf("load lua predicate %s: %w", p.name, err)
	}
	state.Global(luaEntryPoint)
	if !state.IsFunction(-1) {
		return nil, fmt.Errorf("lua predicate %s does not define %s", p.name, luaEntryPoint)
	}
	return state, nil
}
