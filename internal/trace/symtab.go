package trace

import (
	"slices"

	"github.com/dolthub/swiss"
)

// Descriptor describes one traced object as registered by the runtime.
type Descriptor struct {
	Self    Address // reactor self struct, or the reactor owning a trigger
	Trigger Address // the trigger itself; only meaningful for KindTrigger
	Kind    Kind
	Name    string
}

// Address returns the address events use to refer to the object: the
// trigger pointer for triggers and the self pointer for everything else.
func (d Descriptor) Address() Address {
	if d.Kind == KindTrigger {
		return d.Trigger
	}
	return d.Self
}

type symbolKey struct {
	addr Address
	kind Kind
}

// SymbolTable is the ordered, read-only set of objects declared in a trace
// header. Entry 0 is the top-level reactor.
type SymbolTable struct {
	descs []Descriptor
	index *swiss.Map[symbolKey, int]
}

// NewSymbolTable builds a table over a copy of descs, keeping their order.
// When several descriptors share an address and kind the first one wins.
func NewSymbolTable(descs []Descriptor) *SymbolTable {
	t := &SymbolTable{
		descs: slices.Clone(descs),
		index: swiss.NewMap[symbolKey, int](uint32(len(descs))),
	}
	for i, d := range t.descs {
		key := symbolKey{d.Address(), d.Kind}
		if t.index.Has(key) {
			continue
		}
		t.index.Put(key, i)
	}
	return t
}

// Len returns the number of descriptors.
func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.descs)
}

// At returns the descriptor at position i in file order.
func (t *SymbolTable) At(i int) Descriptor {
	return t.descs[i]
}

// Descriptors returns a copy of all descriptors in file order.
func (t *SymbolTable) Descriptors() []Descriptor {
	if t == nil {
		return nil
	}
	return slices.Clone(t.descs)
}

// TopLevelName is the name of the first descriptor, or "" for an empty table.
func (t *SymbolTable) TopLevelName() string {
	if t.Len() == 0 {
		return ""
	}
	return t.descs[0].Name
}

// Lookup returns the position of the first descriptor of the given kind at
// addr. On a miss it returns (-1, false).
func (t *SymbolTable) Lookup(addr Address, kind Kind) (int, bool) {
	if t == nil || t.index == nil {
		return -1, false
	}
	i, ok := t.index.Get(symbolKey{addr, kind})
	if !ok {
		return -1, false
	}
	return i, true
}

// Name resolves addr to the name of an object of the given kind.
func (t *SymbolTable) Name(addr Address, kind Kind) (string, bool) {
	i, ok := t.Lookup(addr, kind)
	if !ok {
		return "", false
	}
	return t.descs[i].Name, true
}

// ReactorName resolves a reactor self pointer.
func (t *SymbolTable) ReactorName(addr Address) (string, bool) {
	return t.Name(addr, KindReactor)
}

// TriggerName resolves a trigger pointer.
func (t *SymbolTable) TriggerName(addr Address) (string, bool) {
	return t.Name(addr, KindTrigger)
}

// UserName resolves the pointer of a user-defined trace object.
func (t *SymbolTable) UserName(addr Address) (string, bool) {
	return t.Name(addr, KindUser)
}
