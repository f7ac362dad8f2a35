package precompiler

import "github.com/jsnc-lang/jsnc/internal/ir"

// NameSet is a stack-scoped set of base names assigning each declaration a
// monotonically increasing index, per spec §4.1/§3.3: indices are never
// reused, even after the declaration that held them goes out of scope, so
// every rendered identifier stays unique for the life of the translation
// unit. It supports O(1) membership/lookup and insertion-order-preserving
// removal of everything declared since a given Mark, for scope exit.
type NameSet struct {
	order  []ir.Name
	total  map[string]int
	active map[string][]int

	// activePos mirrors active, recording each active declaration's
	// position in order instead of its per-name index, so DeclaredSince
	// can tell a same-scope redeclaration (an error, spec §8) apart from
	// an outer declaration still on the stack while a nested scope
	// legally shadows it.
	activePos map[string][]int
}

// NewNameSet creates an empty NameSet, optionally seeded with names
// considered declared at index 0 from the start (e.g. a configured
// extern-function set).
func NewNameSet(seed ...string) *NameSet {
	ns := &NameSet{
		total:     make(map[string]int),
		active:    make(map[string][]int),
		activePos: make(map[string][]int),
	}
	for _, name := range seed {
		ns.Declare(name)
	}
	return ns
}

// Has reports whether name is currently visible (declared and not yet
// popped out of scope).
func (ns *NameSet) Has(name string) bool {
	stack := ns.active[name]
	return len(stack) > 0
}

// Lookup returns the currently-visible index for name.
func (ns *NameSet) Lookup(name string) (ir.Name, bool) {
	stack := ns.active[name]
	if len(stack) == 0 {
		return ir.Name{}, false
	}
	return ir.Name{Base: name, Index: stack[len(stack)-1]}, true
}

// Declare records a new declaration of name, returning the ir.Name it was
// assigned. The index is the count of every declaration of name ever made
// in this NameSet, so it is never reused by a later, unrelated declaration.
func (ns *NameSet) Declare(name string) ir.Name {
	idx := ns.total[name]
	ns.total[name] = idx + 1
	ns.active[name] = append(ns.active[name], idx)
	ns.activePos[name] = append(ns.activePos[name], len(ns.order))
	n := ir.Name{Base: name, Index: idx}
	ns.order = append(ns.order, n)
	return n
}

// DeclaredSince reports whether name has an active declaration made at or
// after mark, i.e. within the scope that opened at mark rather than an
// enclosing one still active further down the stack. Used to distinguish a
// same-scope redeclaration (an error) from a nested scope legally shadowing
// an outer binding.
func (ns *NameSet) DeclaredSince(name string, mark int) bool {
	stack := ns.activePos[name]
	if len(stack) == 0 {
		return false
	}
	return stack[len(stack)-1] >= mark
}

// Mark captures the current insertion depth, for a later PopTo.
func (ns *NameSet) Mark() int {
	return len(ns.order)
}

// PopTo removes every declaration made since mark, in reverse insertion
// order, and returns the removed names in that order — the order the
// precompiler emits scope-exit Deallocate statements in (spec §3.5).
func (ns *NameSet) PopTo(mark int) []ir.Name {
	removed := make([]ir.Name, 0, len(ns.order)-mark)
	for i := len(ns.order) - 1; i >= mark; i-- {
		n := ns.order[i]
		removed = append(removed, n)
		stack := ns.active[n.Base]
		ns.active[n.Base] = stack[:len(stack)-1]
		posStack := ns.activePos[n.Base]
		ns.activePos[n.Base] = posStack[:len(posStack)-1]
	}
	ns.order = ns.order[:mark]
	return removed
}
