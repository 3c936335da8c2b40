// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package stagedeval evaluates one or more boolexpr.Expr DAGs against a
// concrete set of input ciphertexts, dispatching every gate in parallel
// within a stage and memoizing by structural key so a sub-expression
// shared by several output bits is only ever evaluated once.
package stagedeval

import (
	"context"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/pjanthony2001/tfhe-aes/boolexpr"
	"github.com/pjanthony2001/tfhe-aes/fhe"
)

// Runnable is one gate evaluation ready to run: its operand ciphertexts
// are already resolved, either from the caller's input bits or from an
// earlier stage's memo.
type Runnable struct {
	expr     *boolexpr.Expr
	operands []fhe.Ciphertext
}

// Run evaluates the gate against sk, dispatching to the matching
// ServerKey method by the node's Kind.
func (r Runnable) Run(sk fhe.ServerKey) fhe.Ciphertext {
	switch r.expr.Kind() {
	case boolexpr.KindAnd:
		return sk.And(r.operands[0], r.operands[1])
	case boolexpr.KindOr:
		return sk.Or(r.operands[0], r.operands[1])
	case boolexpr.KindXor:
		return sk.Xor(r.operands[0], r.operands[1])
	case boolexpr.KindMux:
		return sk.Mux(r.operands[0], r.operands[1], r.operands[2])
	default:
		panic("stagedeval: Runnable built from a non-gate node")
	}
}

// Evaluator runs a fixed ServerKey against whatever DAGs it is asked to
// evaluate. It keeps no memo between calls: sharing of work happens only
// among the roots passed to a single Eval call (see Eval).
type Evaluator struct {
	sk fhe.ServerKey
}

// New returns an Evaluator bound to sk.
func New(sk fhe.ServerKey) *Evaluator {
	return &Evaluator{sk: sk}
}

// Eval evaluates every root in roots against the given input-bit
// ciphertexts (indexed per boolexpr.Operand.BitIndex) and returns one
// result Ciphertext per root, in the same order. Each call gets a fresh
// memo: callers that want cross-call sharing should batch their roots
// into a single Eval call rather than calling it repeatedly.
func (e *Evaluator) Eval(ctx context.Context, inputs [8]fhe.Ciphertext, roots ...*boolexpr.Expr) ([]fhe.Ciphertext, error) {
	nodes := boolexpr.CollectNodes(roots...)
	memo := make(map[string]fhe.Ciphertext, len(nodes))

	stages := make(map[int][]*boolexpr.Expr)
	maxStage := 0
	for _, n := range nodes {
		if n.Kind() == boolexpr.KindOperand {
			continue // resolved directly from inputs, never staged
		}
		s := n.Stage()
		stages[s] = append(stages[s], n)
		if s > maxStage {
			maxStage = s
		}
	}

	resolve := func(child *boolexpr.Expr) fhe.Ciphertext {
		if o, ok := child.IsOperand(); ok {
			return resolveOperand(e.sk, o, inputs)
		}
		return memo[child.Key()]
	}

	for stage := 1; stage <= maxStage; stage++ {
		batch := stages[stage]
		if len(batch) == 0 {
			continue
		}
		slices.SortFunc(batch, func(a, b *boolexpr.Expr) int {
			switch {
			case a.Less(b):
				return -1
			case b.Less(a):
				return 1
			default:
				return 0
			}
		})
		results := make([]fhe.Ciphertext, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for i, n := range batch {
			i, n := i, n
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				children := n.Children()
				operands := make([]fhe.Ciphertext, len(children))
				for j, c := range children {
					operands[j] = resolve(c)
				}
				results[i] = Runnable{expr: n, operands: operands}.Run(e.sk)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for i, n := range batch {
			memo[n.Key()] = results[i]
		}
	}

	out := make([]fhe.Ciphertext, len(roots))
	for i, r := range roots {
		out[i] = resolve(r)
	}
	return out, nil
}

// resolveOperand maps a leaf Operand to one of the caller-supplied input
// ciphertexts, applying ServerKey.Not for a NotBit leaf. Not is linear (no
// bootstrap), so this costs nothing beyond the gates the DAG already
// schedules.
func resolveOperand(sk fhe.ServerKey, o boolexpr.Operand, inputs [8]fhe.Ciphertext) fhe.Ciphertext {
	switch o {
	case boolexpr.True, boolexpr.False:
		panic("stagedeval: True/False operands must be folded away by the compiler before evaluation")
	}
	idx, negated, ok := o.BitIndex()
	if !ok {
		panic("stagedeval: invalid operand")
	}
	if !negated {
		return inputs[idx]
	}
	return sk.Not(inputs[idx])
}
