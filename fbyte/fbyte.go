// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package fbyte implements FHEByte, an 8-bit encrypted word that is the
// unit every AES state/key byte is built from. Linear operations (XOR,
// AND, OR, NOT, GF(2^8) doubling) dispatch one ciphertext gate per bit in
// parallel; the nonlinear SubBytes/InvSubBytes transform runs the
// compiled S-box DAG through a stagedeval.Evaluator.
package fbyte

import (
	"context"
	"sync"

	"github.com/pjanthony2001/tfhe-aes/boolexpr"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/sbox"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

// FHEByte is an encrypted byte, stored MSB-first: Bits[0] is bit 7 of the
// cleartext value, Bits[7] is bit 0.
type FHEByte struct {
	Bits [8]fhe.Ciphertext
}

// New encrypts the 8 bits of clear under ck, MSB-first.
func New(clear byte, ck *fhe.ClientKey) FHEByte {
	var fb FHEByte
	for i := 0; i < 8; i++ {
		shift := uint(7 - i)
		fb.Bits[i] = ck.Encrypt((clear>>shift)&1 == 1)
	}
	return fb
}

// FromTrivial lifts a publicly-known byte (an AES round constant, for
// instance) into an FHEByte using sk.Trivial, with no client key
// involved.
func FromTrivial(clear byte, sk fhe.ServerKey) FHEByte {
	var fb FHEByte
	for i := 0; i < 8; i++ {
		shift := uint(7 - i)
		fb.Bits[i] = sk.Trivial((clear>>shift)&1 == 1)
	}
	return fb
}

// Decrypt recovers the cleartext byte under ck.
func (fb FHEByte) Decrypt(ck *fhe.ClientKey) byte {
	var out byte
	for i, c := range fb.Bits {
		if ck.Decrypt(c) {
			out |= 1 << uint(7-i)
		}
	}
	return out
}

// perBit runs f over every bit position of a and b in parallel and
// collects the results into a new FHEByte; the shared shape behind
// Xor/And/Or.
func perBit(a, b FHEByte, f func(x, y fhe.Ciphertext) fhe.Ciphertext) FHEByte {
	var out FHEByte
	var wg sync.WaitGroup
	wg.Add(8)
	for i := 0; i < 8; i++ {
		i := i
		go func() {
			defer wg.Done()
			out.Bits[i] = f(a.Bits[i], b.Bits[i])
		}()
	}
	wg.Wait()
	return out
}

// Xor returns the bitwise XOR of fb and other.
func (fb FHEByte) Xor(other FHEByte, sk fhe.ServerKey) FHEByte {
	return perBit(fb, other, sk.Xor)
}

// And returns the bitwise AND of fb and other.
func (fb FHEByte) And(other FHEByte, sk fhe.ServerKey) FHEByte {
	return perBit(fb, other, sk.And)
}

// Or returns the bitwise OR of fb and other.
func (fb FHEByte) Or(other FHEByte, sk fhe.ServerKey) FHEByte {
	return perBit(fb, other, sk.Or)
}

// Not returns the bitwise complement of fb.
func (fb FHEByte) Not(sk fhe.ServerKey) FHEByte {
	var out FHEByte
	var wg sync.WaitGroup
	wg.Add(8)
	for i := 0; i < 8; i++ {
		i := i
		go func() {
			defer wg.Done()
			out.Bits[i] = sk.Not(fb.Bits[i])
		}()
	}
	wg.Wait()
	return out
}

// SubByte applies the AES S-box to fb via the staged evaluator ev.
func (fb FHEByte) SubByte(ctx context.Context, ev *stagedeval.Evaluator) (FHEByte, error) {
	return fb.evalTable(ctx, ev, sbox.Forward())
}

// InvSubByte applies the inverse AES S-box to fb via ev.
func (fb FHEByte) InvSubByte(ctx context.Context, ev *stagedeval.Evaluator) (FHEByte, error) {
	return fb.evalTable(ctx, ev, sbox.Inverse())
}

func (fb FHEByte) evalTable(ctx context.Context, ev *stagedeval.Evaluator, roots [8]*boolexpr.Expr) (FHEByte, error) {
	results, err := ev.Eval(ctx, fb.Bits, roots[0], roots[1], roots[2], roots[3], roots[4], roots[5], roots[6], roots[7])
	if err != nil {
		return FHEByte{}, err
	}
	var out FHEByte
	copy(out.Bits[:], results)
	return out, nil
}

// MulXGF2 returns fb multiplied by x (the polynomial 0x02) in GF(2^8)
// under the AES reduction polynomial x^8+x^4+x^3+x+1 (0x1b): a left shift
// of the bit array, conditionally XORed with 0x1b when a 1 bit is carried
// out of the top. Since the AES reduction constant is public, only the
// carry-out bit needs to be encrypted — each output bit XORs the shifted
// value with the carry exactly where the constant's bit is 1, costing one
// XOR gate per set bit instead of a full encrypted multiply.
func (fb FHEByte) MulXGF2(sk fhe.ServerKey) FHEByte {
	const reductionPoly = 0x1b

	carry := fb.Bits[0] // old bit 7 (MSB), shifted out
	var shifted FHEByte
	for i := 0; i < 7; i++ {
		shifted.Bits[i] = fb.Bits[i+1]
	}
	shifted.Bits[7] = sk.Trivial(false)

	var out FHEByte
	var wg sync.WaitGroup
	wg.Add(8)
	for i := 0; i < 8; i++ {
		i := i
		go func() {
			defer wg.Done()
			shift := uint(7 - i)
			if (reductionPoly>>shift)&1 == 1 {
				out.Bits[i] = sk.Xor(shifted.Bits[i], carry)
			} else {
				out.Bits[i] = shifted.Bits[i]
			}
		}()
	}
	wg.Wait()
	return out
}
