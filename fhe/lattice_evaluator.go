// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

//go:build tfhe_lattice

package fhe

import (
	"errors"

	"github.com/luxfi/lattice/v6/core/rgsw/blindrot"
	"github.com/luxfi/lattice/v6/core/rlwe"
	"github.com/luxfi/lattice/v6/ring"
)

// ErrMissingTestPoly is returned by NewLatticeServerKey when bsk is missing
// one of the gate test (lookup-table) polynomials required to bootstrap.
var ErrMissingTestPoly = errors.New("fhe: bootstrap key is missing a gate test polynomial")

// Parameters bundles the LWE/RLWE/blind-rotation parameter set needed to
// construct a LatticeServerKey. Production callers obtain one from
// NewParameters; it is opaque otherwise.
type Parameters struct {
	paramsLWE blindrot.ParametersLWE
	paramsBR  rlwe.Parameters
}

// NewParameters wraps an already-built blind-rotation parameter pair.
// Constructing these from scratch is a lattice-library concern, not an
// AES-evaluator one; callers load them the same way the teacher's own SDK
// does (NewParametersFromLiteral and friends).
func NewParameters(lwe blindrot.ParametersLWE, br rlwe.Parameters) Parameters {
	return Parameters{paramsLWE: lwe, paramsBR: br}
}

// BootstrapKey holds the server-side bootstrapping and key-switching
// material generated from a ClientKey's secret, plus the three gate
// lookup-table polynomials each bootstrap blind-rotates against. Mirroring
// the teacher's own BootstrapKey (bsk.TestPolyAND / TestPolyOR /
// TestPolyXOR), these are key-generation artifacts computed once from the
// ring parameters and the desired gate truth tables, not reconstructed on
// every gate call.
type BootstrapKey struct {
	KSK *rlwe.EvaluationKey

	TestPolyAND *ring.Poly
	TestPolyOR  *ring.Poly
	TestPolyXOR *ring.Poly
}

// LatticeServerKey is the production ServerKey backend: every gate
// bootstraps through sample extraction and key switching exactly as
// evaluator.go's gate set does, so no secret key is ever required at
// evaluation time. This replaces the insecure decrypt-then-reencrypt
// pattern some naive FHE gate implementations fall back to.
type LatticeServerKey struct {
	params   Parameters
	eval     *blindrot.Evaluator
	bsk      *BootstrapKey
	ringQLWE *ring.Ring
	ringQBR  *ring.Ring
	ksEval   *rlwe.Evaluator
}

// NewLatticeServerKey builds the production ServerKey from params and a
// generated BootstrapKey. It returns ErrMissingTestPoly if bsk was built
// without one of the three gate lookup-table polynomials: bootstrapping
// against a missing polynomial would silently blind-rotate against an
// all-zero function instead of the intended gate, so this is refused at
// construction time rather than producing wrong ciphertexts later.
func NewLatticeServerKey(params Parameters, bsk *BootstrapKey) (*LatticeServerKey, error) {
	if bsk.TestPolyAND == nil || bsk.TestPolyOR == nil || bsk.TestPolyXOR == nil {
		return nil, ErrMissingTestPoly
	}
	var ksEval *rlwe.Evaluator
	if bsk.KSK != nil {
		ksEval = rlwe.NewEvaluator(params.paramsBR, nil)
	}
	return &LatticeServerKey{
		params: params,
		eval:   blindrot.NewEvaluator(params.paramsBR, params.paramsLWE),
		bsk:    bsk,
		ksEval: ksEval,
	}, nil
}

// sampleExtractAndKeySwitch moves a blind-rotation-domain ciphertext back
// into LWE form under the key-switching key, the shared tail of every gate
// below.
func (e *LatticeServerKey) sampleExtractAndKeySwitch(brCt *rlwe.Ciphertext) *rlwe.Ciphertext {
	extracted := e.eval.SampleExtract(brCt, 0)
	if e.ksEval == nil {
		return extracted
	}
	out := rlwe.NewCiphertext(e.params.paramsBR, 1, e.params.paramsBR.MaxLevel())
	e.ksEval.ApplyEvaluationKey(extracted, e.bsk.KSK, out)
	return out
}

func (e *LatticeServerKey) bootstrap(ct *rlwe.Ciphertext, testPoly *ring.Poly) *rlwe.Ciphertext {
	rotated := e.eval.BlindRotate(ct, testPoly, e.bsk.KSK)
	return e.sampleExtractAndKeySwitch(rotated)
}

func wrap(ct *rlwe.Ciphertext) Ciphertext  { return Ciphertext{payload: ct} }
func unwrap(c Ciphertext) *rlwe.Ciphertext { return c.payload.(*rlwe.Ciphertext) }

func (e *LatticeServerKey) And(a, b Ciphertext) Ciphertext {
	sum := addCiphertexts(unwrap(a), unwrap(b))
	return wrap(e.bootstrap(sum, e.bsk.TestPolyAND))
}

func (e *LatticeServerKey) Or(a, b Ciphertext) Ciphertext {
	sum := addCiphertexts(unwrap(a), unwrap(b))
	return wrap(e.bootstrap(sum, e.bsk.TestPolyOR))
}

func (e *LatticeServerKey) Xor(a, b Ciphertext) Ciphertext {
	sum := addCiphertexts(unwrap(a), unwrap(b))
	doubled := doubleCiphertext(sum)
	return wrap(e.bootstrap(doubled, e.bsk.TestPolyXOR))
}

// Not negates a ciphertext (ring negation of every coefficient) — a
// linear operation that needs no bootstrapping, unlike And/Or/Xor/Mux.
func (e *LatticeServerKey) Not(a Ciphertext) Ciphertext {
	return wrap(negateCiphertext(unwrap(a)))
}

// Trivial returns a zero-noise public encryption of bit: an RLWE
// ciphertext whose mask is all-zero and whose body directly carries the
// plaintext, valid under every secret key.
func (e *LatticeServerKey) Trivial(bit bool) Ciphertext {
	pt := rlwe.NewPlaintext(e.params.paramsBR, e.params.paramsBR.MaxLevel())
	if bit {
		pt.Value.Coeffs[0][0] = 1
	}
	ct := &rlwe.Ciphertext{}
	ct.Value = []*ring.Poly{pt.Value, e.ringQBR.NewPoly()}
	return wrap(ct)
}

func (e *LatticeServerKey) Mux(cond, ifTrue, ifFalse Ciphertext) Ciphertext {
	// mux(c,t,f) == (c and t) or ((not c) and f); each half bootstraps,
	// the combining OR bootstraps once more, matching the teacher's own
	// MUX gate composition out of AND/OR/NOT primitives rather than a
	// dedicated three-input bootstrap.
	t := e.And(cond, ifTrue)
	f := e.And(e.Not(cond), ifFalse)
	return e.Or(t, f)
}

func addCiphertexts(a, b *rlwe.Ciphertext) *rlwe.Ciphertext {
	out := a.CopyNew()
	out.Add(out, b)
	return out
}

func doubleCiphertext(a *rlwe.Ciphertext) *rlwe.Ciphertext {
	out := a.CopyNew()
	out.Add(out, a)
	return out
}

func negateCiphertext(c *rlwe.Ciphertext) *rlwe.Ciphertext {
	out := c.CopyNew()
	out.Neg(out)
	return out
}

