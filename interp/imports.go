package interp

import (
	"io/ioutil"

	"github.com/cnf/structhash"
	"github.com/npillmayer/stakk/runtime"
	"github.com/npillmayer/stakk/stakklang"
)

// SourceText returns the contents of the file named by s, if s names a
// readable file. Otherwise s is returned unchanged.
func SourceText(s string) string {
	if content, err := ioutil.ReadFile(s); err == nil {
		return string(content)
	}
	return s
}

// importKey identifies a parsed import.
type importKey struct {
	Source string
}

// importCache holds programs parsed for imports, keyed by a digest of their
// source text. Importing the same text twice parses it once. Keys have a
// fixed length, so the cache does not keep imported source texts alive.
type importCache struct {
	programs map[string]*stakklang.Program
}

func newImportCache() *importCache {
	return &importCache{programs: make(map[string]*stakklang.Program)}
}

// lookup returns the parsed program for source, parsing it on first use.
func (ic *importCache) lookup(source string) (*stakklang.Program, error) {
	key, err := structhash.Hash(importKey{Source: source}, 1)
	if err != nil {
		return stakklang.Parse(source)
	}
	if prog, ok := ic.programs[key]; ok {
		tracer().Debugf("import cache hit for %s", key)
		return prog, nil
	}
	prog, err := stakklang.Parse(source)
	if err != nil {
		return nil, err
	}
	ic.programs[key] = prog
	return prog, nil
}

// size returns the number of cached programs.
func (ic *importCache) size() int {
	return len(ic.programs)
}

// evalImport evaluates imported source text in the caller's environment.
func (intp *Interpreter) evalImport(imp *stakklang.Import, env *runtime.Scope) (runtime.Value, error) {
	v, err := intp.evalValue(imp.Source, env)
	if err != nil {
		return nil, err
	}
	if intp.unwinding() {
		return intp.pendingValue(), nil
	}
	source := SourceText(v.String())
	prog, err := intp.imports.lookup(source)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("importing %d statements", len(prog.Stmts))
	return intp.evalProgram(prog, env)
}
