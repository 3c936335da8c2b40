// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package aesstate implements the AES state matrix and round-key
// schedule over encrypted bytes. Internally both State and Key store
// their 16 bytes row-grouped: data[4*r+c] holds the byte at AES row r,
// column c — the layout a straight transpose of row-major/column-major
// input bytes settles into once SubBytes/ShiftRows/MixColumns are
// expressed as flat-array operations instead of a 2D matrix.
package aesstate

import (
	"context"

	"github.com/pjanthony2001/tfhe-aes/fbyte"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

// State is the 16-byte AES state matrix.
type State struct {
	Data [16]fbyte.FHEByte
}

// NewState builds a State from 16 cleartext bytes in standard AES input
// order (column-major: in[r+4c] is row r, column c), encrypting each byte
// under ck.
func NewState(in [16]byte, ck *fhe.ClientKey) State {
	var s State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			s.Data[4*r+c] = fbyte.New(in[r+4*c], ck)
		}
	}
	return s
}

// NewStateTrivial builds a State from 16 publicly-known bytes (a CTR-mode
// counter block, for instance) using sk.Trivial instead of a client-side
// encryption.
func NewStateTrivial(in [16]byte, sk fhe.ServerKey) State {
	var s State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			s.Data[4*r+c] = fbyte.FromTrivial(in[r+4*c], sk)
		}
	}
	return s
}

// Bytes decrypts s back into standard AES column-major byte order.
func (s State) Bytes(ck *fhe.ClientKey) [16]byte {
	var out [16]byte
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r+4*c] = s.Data[4*r+c].Decrypt(ck)
		}
	}
	return out
}

// SubBytes applies the AES S-box to every byte of s, concurrently.
func (s State) SubBytes(ctx context.Context, ev *stagedeval.Evaluator) (State, error) {
	return s.mapBytes(ctx, ev, fbyte.FHEByte.SubByte)
}

// InvSubBytes applies the inverse AES S-box to every byte of s, concurrently.
func (s State) InvSubBytes(ctx context.Context, ev *stagedeval.Evaluator) (State, error) {
	return s.mapBytes(ctx, ev, fbyte.FHEByte.InvSubByte)
}

func (s State) mapBytes(ctx context.Context, ev *stagedeval.Evaluator, f func(fbyte.FHEByte, context.Context, *stagedeval.Evaluator) (fbyte.FHEByte, error)) (State, error) {
	var out State
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		i := i
		go func() {
			b, err := f(s.Data[i], ctx, ev)
			out.Data[i] = b
			errs <- err
		}()
	}
	for i := 0; i < 16; i++ {
		if err := <-errs; err != nil {
			return State{}, err
		}
	}
	return out, nil
}

// ShiftRows cyclically rotates the three non-initial row groups of the
// internal layout left by 1, 2 and 3 positions respectively; row 0
// (Data[0:4]) is never rotated.
func (s State) ShiftRows() State {
	out := s
	rotateLeft(out.Data[4:8], 1)
	rotateLeft(out.Data[8:12], 2)
	rotateLeft(out.Data[12:16], 3)
	return out
}

// InvShiftRows undoes ShiftRows.
func (s State) InvShiftRows() State {
	out := s
	rotateLeft(out.Data[4:8], 3)
	rotateLeft(out.Data[8:12], 2)
	rotateLeft(out.Data[12:16], 1)
	return out
}

func rotateLeft(row []fbyte.FHEByte, n int) {
	n %= len(row)
	tmp := make([]fbyte.FHEByte, len(row))
	copy(tmp, row)
	for i := range row {
		row[i] = tmp[(i+n)%len(row)]
	}
}

// Xor XORs every byte of s with the matching byte of other, used by the
// chaining modes to combine a keystream/feedback block with a plaintext
// or ciphertext block.
func (s State) Xor(other State, sk fhe.ServerKey) State {
	var out State
	done := make(chan struct{}, 16)
	for i := 0; i < 16; i++ {
		i := i
		go func() {
			out.Data[i] = s.Data[i].Xor(other.Data[i], sk)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 16; i++ {
		<-done
	}
	return out
}

// AddRoundKey XORs every byte of s with the matching byte of k.
func (s State) AddRoundKey(k Key, sk fhe.ServerKey) State {
	var out State
	var errs [16]chan struct{}
	for i := range errs {
		errs[i] = make(chan struct{})
	}
	for i := 0; i < 16; i++ {
		i := i
		go func() {
			out.Data[i] = s.Data[i].Xor(k.Data[i], sk)
			close(errs[i])
		}()
	}
	for i := range errs {
		<-errs[i]
	}
	return out
}

// MixColumns applies the AES MixColumns transform column by column:
// column i is {Data[i], Data[4+i], Data[8+i], Data[12+i]} (one byte from
// each row-group, same position), matching the AES column semantics of
// the row-grouped internal layout.
func (s State) MixColumns(sk fhe.ServerKey) State {
	return s.mixColumns(sk, false)
}

// InvMixColumns applies the inverse AES MixColumns transform.
func (s State) InvMixColumns(sk fhe.ServerKey) State {
	return s.mixColumns(sk, true)
}

func (s State) mixColumns(sk fhe.ServerKey, inverse bool) State {
	var out State
	done := make(chan struct{}, 4)
	for i := 0; i < 4; i++ {
		i := i
		go func() {
			a0, a1, a2, a3 := s.Data[i], s.Data[4+i], s.Data[8+i], s.Data[12+i]
			var b0, b1, b2, b3 fbyte.FHEByte
			if inverse {
				b0, b1, b2, b3 = invMixColumn(a0, a1, a2, a3, sk)
			} else {
				b0, b1, b2, b3 = mixColumn(a0, a1, a2, a3, sk)
			}
			out.Data[i], out.Data[4+i], out.Data[8+i], out.Data[12+i] = b0, b1, b2, b3
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	return out
}

// mixColumn computes one AES MixColumns output column from input column
// (a0,a1,a2,a3): b0=2a0+3a1+a2+a3, b1=a0+2a1+3a2+a3, b2=a0+a1+2a2+3a3,
// b3=3a0+a1+a2+2a3 (addition is XOR; 3x = 2x XOR x).
func mixColumn(a0, a1, a2, a3 fbyte.FHEByte, sk fhe.ServerKey) (b0, b1, b2, b3 fbyte.FHEByte) {
	two0, two1, two2, two3 := a0.MulXGF2(sk), a1.MulXGF2(sk), a2.MulXGF2(sk), a3.MulXGF2(sk)
	three0 := two0.Xor(a0, sk)
	three1 := two1.Xor(a1, sk)
	three2 := two2.Xor(a2, sk)
	three3 := two3.Xor(a3, sk)

	b0 = two0.Xor(three1, sk).Xor(a2, sk).Xor(a3, sk)
	b1 = a0.Xor(two1, sk).Xor(three2, sk).Xor(a3, sk)
	b2 = a0.Xor(a1, sk).Xor(two2, sk).Xor(three3, sk)
	b3 = three0.Xor(a1, sk).Xor(a2, sk).Xor(two3, sk)
	return
}

// invMixColumn computes one AES InvMixColumns output column:
// b0=14a0+11a1+13a2+9a3, b1=9a0+14a1+11a2+13a3, b2=13a0+9a1+14a2+11a3,
// b3=11a0+13a1+9a2+14a3, using the standard doubling decomposition
// 9x=8x^x, 11x=8x^2x^x, 13x=8x^4x^x, 14x=8x^4x^2x.
func invMixColumn(a0, a1, a2, a3 fbyte.FHEByte, sk fhe.ServerKey) (b0, b1, b2, b3 fbyte.FHEByte) {
	m0 := [4]fbyte.FHEByte{mulConst14(a0, sk), mulConst11(a1, sk), mulConst13(a2, sk), mulConst9(a3, sk)}
	m1 := [4]fbyte.FHEByte{mulConst9(a0, sk), mulConst14(a1, sk), mulConst11(a2, sk), mulConst13(a3, sk)}
	m2 := [4]fbyte.FHEByte{mulConst13(a0, sk), mulConst9(a1, sk), mulConst14(a2, sk), mulConst11(a3, sk)}
	m3 := [4]fbyte.FHEByte{mulConst11(a0, sk), mulConst13(a1, sk), mulConst9(a2, sk), mulConst14(a3, sk)}
	b0 = m0[0].Xor(m0[1], sk).Xor(m0[2], sk).Xor(m0[3], sk)
	b1 = m1[0].Xor(m1[1], sk).Xor(m1[2], sk).Xor(m1[3], sk)
	b2 = m2[0].Xor(m2[1], sk).Xor(m2[2], sk).Xor(m2[3], sk)
	b3 = m3[0].Xor(m3[1], sk).Xor(m3[2], sk).Xor(m3[3], sk)
	return
}

func mulConst9(x fbyte.FHEByte, sk fhe.ServerKey) fbyte.FHEByte {
	x2 := x.MulXGF2(sk)
	x4 := x2.MulXGF2(sk)
	x8 := x4.MulXGF2(sk)
	return x8.Xor(x, sk)
}

func mulConst11(x fbyte.FHEByte, sk fhe.ServerKey) fbyte.FHEByte {
	x2 := x.MulXGF2(sk)
	x4 := x2.MulXGF2(sk)
	x8 := x4.MulXGF2(sk)
	return x8.Xor(x2, sk).Xor(x, sk)
}

func mulConst13(x fbyte.FHEByte, sk fhe.ServerKey) fbyte.FHEByte {
	x2 := x.MulXGF2(sk)
	x4 := x2.MulXGF2(sk)
	x8 := x4.MulXGF2(sk)
	return x8.Xor(x4, sk).Xor(x, sk)
}

func mulConst14(x fbyte.FHEByte, sk fhe.ServerKey) fbyte.FHEByte {
	x2 := x.MulXGF2(sk)
	x4 := x2.MulXGF2(sk)
	x8 := x4.MulXGF2(sk)
	return x8.Xor(x4, sk).Xor(x2, sk)
}
