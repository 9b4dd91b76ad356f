package revocation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"aaka/pairing"
)

func TestAddSnapshotLen(t *testing.T) {
	rl := New()
	require.Equal(t, 0, rl.Len())
	require.Empty(t, rl.Snapshot())

	s, err := pairing.RandomScalar()
	require.NoError(t, err)
	tag := pairing.G2Generator().ScalarMult(s)
	rl.Add(tag)

	require.Equal(t, 1, rl.Len())
	snap := rl.Snapshot()
	require.Len(t, snap, 1)
	require.True(t, snap[0].Equal(tag))
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	rl := New()
	s, err := pairing.RandomScalar()
	require.NoError(t, err)
	rl.Add(pairing.G2Generator().ScalarMult(s))

	snap := rl.Snapshot()
	rl.Add(pairing.G2Generator().ScalarMult(pairing.ScalarFromUint64(2)))
	require.Len(t, snap, 1, "earlier snapshot must not observe later Add calls")
	require.Equal(t, 2, rl.Len())
}

func TestConcurrentAddIsSafe(t *testing.T) {
	rl := New()
	var wg sync.WaitGroup
	const n = 50
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			rl.Add(pairing.G2Generator().ScalarMult(pairing.ScalarFromUint64(uint64(i) + 1)))
		}(i)
	}
	wg.Wait()
	require.Equal(t, n, rl.Len())
}
