// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package sbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableIsInvolutivePair(t *testing.T) {
	for x := 0; x < 256; x++ {
		require.Equal(t, byte(x), InvTable[Table[x]])
	}
}

func TestTableIsKnownFIPS197Value(t *testing.T) {
	require.Equal(t, byte(0x63), Table[0x00])
	require.Equal(t, byte(0xca), Table[0x10])
	require.Equal(t, byte(0x16), Table[0xff])
}

func TestForwardAndInverseCompileToEightRoots(t *testing.T) {
	fwd := Forward()
	inv := Inverse()
	for i := 0; i < 8; i++ {
		require.NotNil(t, fwd[i])
		require.NotNil(t, inv[i])
	}
}

func TestForwardIsCachedAcrossCalls(t *testing.T) {
	a := Forward()
	b := Forward()
	for i := range a {
		require.True(t, a[i].Equal(b[i]))
		require.Same(t, a[i], b[i], "cached roots must be the same nodes")
	}
}
