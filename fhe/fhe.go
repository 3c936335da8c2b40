// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package fhe is the boundary to the external leveled Boolean FHE scheme
// every other package in this module is compiled against. It defines the
// Ciphertext/ClientKey/ServerKey contract and a software reference
// ServerKey (this file) good enough to develop and test gate algebra
// against without a lattice backend; build with -tags tfhe_lattice to
// swap in the production backend wired to github.com/luxfi/lattice/v6
// (see lattice_evaluator.go).
//
// SECURITY: the reference backend in this file keeps cleartext bits
// alongside its Ciphertext values. It exists for tests and local
// development only and must never be selected in a build that handles
// real secret data — see lattice_evaluator.go for that path.
package fhe

import "fmt"

// Ciphertext is an encrypted boolean value. Its internal shape is
// backend-specific; callers never inspect it directly. The reference
// backend uses bit/noise; the lattice backend (tfhe_lattice build tag)
// stashes its *rlwe.Ciphertext in payload instead, so the exported type
// stays identical across both builds.
type Ciphertext struct {
	bit     bool   // reference-backend cleartext shadow; ignored by the lattice backend
	noise   uint64 // opaque backend bookkeeping
	payload any    // lattice backend's *rlwe.Ciphertext
}

// ClientKey encrypts and decrypts Ciphertexts. Only client-side code
// (tests, the CLI's key-generation path) ever holds one.
type ClientKey struct {
	seed uint64
}

// NewClientKey derives a reference ClientKey from seed. The reference
// backend's "encryption" is not cryptographically meaningful; it tags
// every Ciphertext it encrypts with the key's seed as its noise value, so
// ciphertexts from different keys carry different tags in tests.
func NewClientKey(seed uint64) *ClientKey {
	return &ClientKey{seed: seed}
}

// Encrypt lifts a cleartext bit into a Ciphertext under k.
func (k *ClientKey) Encrypt(bit bool) Ciphertext {
	return Ciphertext{bit: bit, noise: k.seed}
}

// Decrypt recovers the cleartext bit carried by c.
func (k *ClientKey) Decrypt(c Ciphertext) bool {
	return c.bit
}

// ServerKey evaluates the gates the Boolean circuit algebra in package
// boolexpr compiles down to. Not is a linear operation (XOR against a
// trivially-known public constant) and needs no bootstrapping, which is
// why boolexpr.Expr.Not can push negation all the way down to leaf
// operands without ever costing a nonlinear gate: stagedeval only calls
// Not on raw leaf ciphertexts, never on an intermediate gate result.
type ServerKey interface {
	And(a, b Ciphertext) Ciphertext
	Or(a, b Ciphertext) Ciphertext
	Xor(a, b Ciphertext) Ciphertext
	Not(a Ciphertext) Ciphertext
	Mux(cond, ifTrue, ifFalse Ciphertext) Ciphertext

	// Trivial returns a zero-noise, publicly-known encryption of bit. No
	// secret key is involved; every leveled Boolean FHE scheme offers
	// this so a server can inject known constants (round constants,
	// shifted-in zero bits) into a circuit without asking the client to
	// encrypt them.
	Trivial(bit bool) Ciphertext
}

// referenceServerKey evaluates gates directly on the reference backend's
// cleartext shadow. Never use this for anything but tests.
type referenceServerKey struct{}

// NewReferenceServerKey returns the software reference ServerKey used when
// this module is built without -tags tfhe_lattice.
func NewReferenceServerKey() ServerKey { return referenceServerKey{} }

func (referenceServerKey) And(a, b Ciphertext) Ciphertext {
	return Ciphertext{bit: a.bit && b.bit, noise: a.noise ^ b.noise}
}

func (referenceServerKey) Or(a, b Ciphertext) Ciphertext {
	return Ciphertext{bit: a.bit || b.bit, noise: a.noise ^ b.noise}
}

func (referenceServerKey) Xor(a, b Ciphertext) Ciphertext {
	return Ciphertext{bit: a.bit != b.bit, noise: a.noise ^ b.noise}
}

func (referenceServerKey) Not(a Ciphertext) Ciphertext {
	return Ciphertext{bit: !a.bit, noise: a.noise}
}

func (referenceServerKey) Trivial(bit bool) Ciphertext {
	return Ciphertext{bit: bit, noise: 0}
}

func (referenceServerKey) Mux(cond, ifTrue, ifFalse Ciphertext) Ciphertext {
	if cond.bit {
		return ifTrue
	}
	return ifFalse
}

// ErrNoServerKey is returned by CurrentServerKey when SetServerKey has not
// been called on the calling goroutine's process.
var ErrNoServerKey = fmt.Errorf("fhe: no server key set; call SetServerKey first")
