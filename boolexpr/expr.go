// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package boolexpr

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Kind distinguishes the node variants of a BoolExpr.
type Kind int

const (
	KindOperand Kind = iota
	KindAnd
	KindOr
	KindXor
	KindMux
)

// discriminant gives And/Or/Xor/Mux a total order after all Operands,
// mirroring the structural ordering the compiler relies on for canonical
// child placement and memoization-key stability.
func (k Kind) discriminant() int { return int(k) + 1 }

// Expr is a node in the canonical Boolean circuit DAG. Leaves carry an
// Operand; gates carry two or three child *Expr pointers (Mux alone uses
// three). Expr values are immutable once built: every transformation
// (Not, the mux_* reductions, canonical ordering) returns a new node.
//
// Two Expr trees that are structurally identical after canonicalization
// compare equal under Equal and hash identically under Key, regardless of
// the order gates were constructed in — this is what lets StagedEvaluator
// deduplicate work across independent output bits.
type Expr struct {
	kind    Kind
	operand Operand // valid when kind == KindOperand
	a, b, c *Expr   // children; c only used by Mux
}

// Leaf builds an Expr wrapping a single Operand.
func Leaf(o Operand) *Expr { return &Expr{kind: KindOperand, operand: o} }

// Const builds a constant leaf.
func Const(b bool) *Expr { return Leaf(FromBool(b)) }

// IsOperand reports whether e is a leaf, returning its Operand.
func (e *Expr) IsOperand() (Operand, bool) {
	if e.kind == KindOperand {
		return e.operand, true
	}
	return 0, false
}

func (e *Expr) Kind() Kind { return e.kind }

// Children returns e's child nodes; Mux returns three, And/Or/Xor two,
// Operand none.
func (e *Expr) Children() []*Expr {
	switch e.kind {
	case KindOperand:
		return nil
	case KindMux:
		return []*Expr{e.a, e.b, e.c}
	default:
		return []*Expr{e.a, e.b}
	}
}

// Not returns the logical negation of e, pushing the negation down to the
// leaves (De Morgan) rather than wrapping e in a Not node — the algebra
// never has a dedicated negation gate.
func (e *Expr) Not() *Expr {
	switch e.kind {
	case KindOperand:
		return Leaf(e.operand.Not())
	case KindAnd:
		// not(a and b) == (not a) or (not b)
		return orderedOr(e.a.Not(), e.b.Not())
	case KindOr:
		// not(a or b) == (not a) and (not b)
		return orderedAnd(e.a.Not(), e.b.Not())
	case KindXor:
		// not(a xor b) == (not a) xor b
		return orderedXor(e.a.Not(), e.b)
	case KindMux:
		// not(mux(c,t,f)) == mux(c, not t, not f)
		return mux(e.a, e.b.Not(), e.c.Not())
	default:
		panic(fmt.Sprintf("boolexpr: invalid kind %d", e.kind))
	}
}

// order returns a, b in canonical order (by Less) so that commutative
// constructors always build the same tree regardless of caller argument
// order — the basis for structural equality doubling as memoization keys.
func order(a, b *Expr) (*Expr, *Expr) {
	if a.Less(b) {
		return a, b
	}
	return b, a
}

func orderedAnd(a, b *Expr) *Expr {
	a, b = order(a, b)
	return &Expr{kind: KindAnd, a: a, b: b}
}

func orderedOr(a, b *Expr) *Expr {
	a, b = order(a, b)
	return &Expr{kind: KindOr, a: a, b: b}
}

func orderedXor(a, b *Expr) *Expr {
	a, b = order(a, b)
	return &Expr{kind: KindXor, a: a, b: b}
}

// And builds a canonicalized conjunction, folding constants.
func And(a, b *Expr) *Expr {
	if o, ok := a.IsOperand(); ok {
		if o == False {
			return Const(false)
		}
		if o == True {
			return b
		}
	}
	if o, ok := b.IsOperand(); ok {
		if o == False {
			return Const(false)
		}
		if o == True {
			return a
		}
	}
	if a.Equal(b) {
		return a
	}
	return orderedAnd(a, b)
}

// Or builds a canonicalized disjunction, folding constants.
func Or(a, b *Expr) *Expr {
	if o, ok := a.IsOperand(); ok {
		if o == True {
			return Const(true)
		}
		if o == False {
			return b
		}
	}
	if o, ok := b.IsOperand(); ok {
		if o == True {
			return Const(true)
		}
		if o == False {
			return a
		}
	}
	if a.Equal(b) {
		return a
	}
	return orderedOr(a, b)
}

// Xor builds a canonicalized exclusive-or, folding constants.
func Xor(a, b *Expr) *Expr {
	if o, ok := a.IsOperand(); ok {
		if o == False {
			return b
		}
		if o == True {
			return b.Not()
		}
	}
	if o, ok := b.IsOperand(); ok {
		if o == False {
			return a
		}
		if o == True {
			return a.Not()
		}
	}
	if a.Equal(b) {
		return Const(false)
	}
	return orderedXor(a, b)
}

// mux is the unreduced 3-ary constructor; Mux applies the algebraic
// reduction cascade (muxLeftTrue/False/X) before falling back to this.
func mux(cond, ifTrue, ifFalse *Expr) *Expr {
	return &Expr{kind: KindMux, a: cond, b: ifTrue, c: ifFalse}
}

// Mux builds select(cond, ifTrue, ifFalse), applying the same reduction
// cascade as the compiler's mux_left_true/mux_left_false/mux_left_x rules:
// trivial conditions and matching branches collapse instead of emitting a
// gate.
func Mux(cond, ifTrue, ifFalse *Expr) *Expr {
	if o, ok := cond.IsOperand(); ok {
		if o == True {
			return ifTrue
		}
		if o == False {
			return ifFalse
		}
	}
	if ifTrue.Equal(ifFalse) {
		return ifTrue
	}
	if to, ok := ifTrue.IsOperand(); ok {
		switch to {
		case True:
			// mux(c, true, f) == c or f
			return Or(cond, ifFalse)
		case False:
			// mux(c, false, f) == (not c) and f
			return And(cond.Not(), ifFalse)
		}
	}
	if fo, ok := ifFalse.IsOperand(); ok {
		switch fo {
		case True:
			// mux(c, t, true) == (not c) or t
			return Or(cond.Not(), ifTrue)
		case False:
			// mux(c, t, false) == c and t
			return And(cond, ifTrue)
		}
	}
	if ifFalse.Equal(cond.Not()) {
		// mux(c, t, not c) == (not c) or t
		return Or(cond.Not(), ifTrue)
	}
	if ifTrue.Equal(cond.Not()) {
		// mux(c, not c, f) == (not c) and f
		return And(cond.Not(), ifFalse)
	}
	return mux(cond, ifTrue, ifFalse)
}

// Stage returns the depth of e in the DAG: 0 for a leaf, otherwise one
// more than the deepest child. StagedEvaluator groups every node sharing a
// Stage value into one evaluation round.
func (e *Expr) Stage() int {
	if e.kind == KindOperand {
		return 0
	}
	max := 0
	for _, c := range e.Children() {
		if s := c.Stage(); s > max {
			max = s
		}
	}
	return max + 1
}

// Less gives Expr a total order: Operands sort before any gate, Operands
// sort among themselves by their integer value, and gates of the same
// kind sort lexicographically by their children. This total order is what
// makes orderedAnd/Or/Xor deterministic regardless of construction order.
func (e *Expr) Less(other *Expr) bool {
	if e.kind.discriminant() != other.kind.discriminant() {
		return e.kind.discriminant() < other.kind.discriminant()
	}
	if e.kind == KindOperand {
		return e.operand < other.operand
	}
	ec, oc := e.Children(), other.Children()
	for i := range ec {
		if ec[i].Equal(oc[i]) {
			continue
		}
		return ec[i].Less(oc[i])
	}
	return false
}

// Equal reports structural equality: same kind, same operand or
// recursively-equal children in the same positions.
func (e *Expr) Equal(other *Expr) bool {
	if e == other {
		return true
	}
	if e.kind != other.kind {
		return false
	}
	if e.kind == KindOperand {
		return e.operand == other.operand
	}
	ec, oc := e.Children(), other.Children()
	for i := range ec {
		if !ec[i].Equal(oc[i]) {
			return false
		}
	}
	return true
}

// Key returns a string uniquely identifying e's structure, suitable as a
// map key for memoization across independent output-bit DAGs that share
// sub-expressions.
func (e *Expr) Key() string {
	if e.kind == KindOperand {
		return fmt.Sprintf("o%d", e.operand)
	}
	children := e.Children()
	keys := make([]string, len(children))
	for i, c := range children {
		keys[i] = c.Key()
	}
	switch e.kind {
	case KindAnd:
		return fmt.Sprintf("&(%s,%s)", keys[0], keys[1])
	case KindOr:
		return fmt.Sprintf("|(%s,%s)", keys[0], keys[1])
	case KindXor:
		return fmt.Sprintf("^(%s,%s)", keys[0], keys[1])
	case KindMux:
		return fmt.Sprintf("?(%s,%s,%s)", keys[0], keys[1], keys[2])
	default:
		panic(fmt.Sprintf("boolexpr: invalid kind %d", e.kind))
	}
}

// CollectNodes walks e's DAG and returns every distinct node (by Key),
// ordered by ascending Stage (leaves first, every node after all of its
// children), so a caller can evaluate or compile each unique
// sub-expression exactly once.
func CollectNodes(roots ...*Expr) []*Expr {
	seen := make(map[string]*Expr)
	order := make([]*Expr, 0)
	var walk func(e *Expr)
	walk = func(e *Expr) {
		k := e.Key()
		if _, ok := seen[k]; ok {
			return
		}
		for _, c := range e.Children() {
			walk(c)
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = e
		order = append(order, e)
	}
	for _, r := range roots {
		walk(r)
	}
	slices.SortStableFunc(order, func(a, b *Expr) int { return a.Stage() - b.Stage() })
	return order
}
