package runtime

import (
	"fmt"
	"sort"
)

// Symbol table for variables. Symbol tables are attached to scopes.
// Scopes are organized in a tree.
//

// --- Tags -------------------------------------------------------

// Tag is the symbols type to be stored into symbol tables. It may be a
// little surprising this type is not called 'Symbol', but I prefer the
// name 'Tag' because it is less confusing when dealing with grammars:
// Grammars consist of symbols (within rules), too.
// Thus, symbols are used in the scope of the grammar, tags are used during
// runtime (of the client program).
//
type Tag struct {
	name  string
	Typ   int8  // type tag of the bound value
	Value Value // bound value
}

// NewTag creates a new tag, bound to Nil.
func NewTag(nm string) *Tag {
	var tag = &Tag{
		name:  nm,
		Typ:   NullType,
		Value: Nil,
	}
	return tag
}

// Bind sets the value of a tag, together with its type. Use as
//
//    tag := NewTag("myTag").Bind(Number(7))
//
func (s *Tag) Bind(v Value) *Tag {
	if v == nil {
		v = Nil
	}
	s.Value = v
	s.Typ = v.Type()
	return s
}

// String is a debug Stringer for symbols.
func (s *Tag) String() string {
	return fmt.Sprintf("<tag '%s':%s>", s.Name(), TypeName(s.Typ))
}

// Name gets the tag's name.
func (s *Tag) Name() string {
	return s.name
}

// === Symbol Tables =========================================================

// SymbolTable is a symbol table to store tags (map-like semantics).
type SymbolTable struct {
	Table     map[string]*Tag
	createTag func(string) *Tag
}

// NewSymbolTable creates an empty symbol table.
//
func NewSymbolTable() *SymbolTable {
	var symtab = SymbolTable{
		Table:     make(map[string]*Tag),
		createTag: NewTag,
	}
	return &symtab
}

// ResolveTag checks for a tag in the symbol table.
// Returns a tag or nil.
//
func (t *SymbolTable) ResolveTag(tagname string) *Tag {
	return t.Table[tagname]
}

// ResolveOrDefineTag finds
// a tag in the table, inserts a new one if not found.
// Returns the tag and a flag, signalling wether the tag
// has already been present.
//
func (t *SymbolTable) ResolveOrDefineTag(tagname string) (*Tag, bool) {
	if len(tagname) == 0 {
		return nil, false
	}
	found := true
	tag := t.ResolveTag(tagname)
	if tag == nil { // if not already there, insert it
		tag, _ = t.DefineTag(tagname)
		found = false
	}
	return tag, found
}

// DefineTag creates a new tag to store into the symbol table.
// The tag's name may not be empty
// Overwrites existing tag with this name, if any.
// Returns the new tag and the previously stored tag (or nil).
//
func (t *SymbolTable) DefineTag(tagname string) (*Tag, *Tag) {
	if len(tagname) == 0 {
		return nil, nil
	}
	tag := t.createTag(tagname)
	old := t.InsertTag(tag)
	return tag, old
}

// InsertTag inserts a pre-created symbol.
func (t *SymbolTable) InsertTag(tag *Tag) *Tag {
	old := t.ResolveTag(tag.name)
	t.Table[tag.name] = tag
	return old
}

// Size counts the tags in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.Table)
}

// Each iterates over each tag in the table, executing a mapper function.
func (t *SymbolTable) Each(mapper func(string, *Tag)) {
	for k, v := range t.Table {
		mapper(k, v)
	}
}

// === Scopes ================================================================

// Scope is a named scope, which may contain variable bindings. Scopes link back to a
// parent scope, forming a tree. A scope keeps its parent alive, thus closures
// may outlive the evaluation of the block that declared them.
type Scope struct {
	Name   string
	Parent *Scope
	symtab *SymbolTable
}

// NewScope creates a new scope.
func NewScope(nm string, parent *Scope) *Scope {
	sc := &Scope{
		Name:   nm,
		Parent: parent,
		symtab: NewSymbolTable(),
	}
	return sc
}

// Prettyfied Stringer.
func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s>", s.Name)
}

// Tags returns the symbol table of a scope.
func (s *Scope) Tags() *SymbolTable {
	return s.symtab
}

// DefineTag defines a tag in the scope. Returns the new tag and the previously
// stored tag under this key, if any.
//
func (s *Scope) DefineTag(tagname string) (*Tag, *Tag) {
	return s.symtab.DefineTag(tagname)
}

// ResolveTag finds a tag. Returns the tag (or nil) and a scope. The scope is
// the scope (of a scope-tree-path) the tag was found in.
//
func (s *Scope) ResolveTag(tagname string) (*Tag, *Scope) {
	for sc := s; sc != nil; sc = sc.Parent {
		if tag := sc.symtab.ResolveTag(tagname); tag != nil {
			return tag, sc
		}
	}
	return nil, nil
}

// Set binds a value to a name in this scope, creating or overwriting the
// binding. Bindings of parent scopes are shadowed, not changed.
func (s *Scope) Set(name string, v Value) {
	tag, _ := s.symtab.ResolveOrDefineTag(name)
	if tag != nil {
		tag.Bind(v)
		T().P("scope", s.Name).Debugf("%s = %s", name, Repr(tag.Value))
	}
}

// Get returns the value bound to name in this scope or one of its parents.
// If name is unbound, Nil is returned.
func (s *Scope) Get(name string) Value {
	if tag, _ := s.ResolveTag(name); tag != nil {
		return tag.Value
	}
	return Nil
}

// Resolve returns the value bound to name in this scope or one of its
// parents. It is an error if no scope up to the root binds name.
func (s *Scope) Resolve(name string) (Value, error) {
	if tag, _ := s.ResolveTag(name); tag != nil {
		return tag.Value, nil
	}
	return nil, fmt.Errorf("variable '%s' does not exist", name)
}

// Names returns the names bound in this scope (not its parents), sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, s.symtab.Size())
	s.symtab.Each(func(name string, _ *Tag) {
		names = append(names, name)
	})
	sort.Strings(names)
	return names
}
