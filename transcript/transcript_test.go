package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aaka/pairing"
)

func TestChallengeIsDeterministic(t *testing.T) {
	g1 := pairing.G1Generator()
	g2 := pairing.G2Generator()

	c1 := Challenge(Of(g1), Of(g2), Bytes([]byte("hello")), Int(3))
	c2 := Challenge(Of(g1), Of(g2), Bytes([]byte("hello")), Int(3))
	require.True(t, c1.Equal(c2))
}

func TestChallengeRespectsOrdering(t *testing.T) {
	g1 := pairing.G1Generator()
	g2 := pairing.G2Generator()

	c1 := Challenge(Of(g1), Of(g2))
	c2 := Challenge(Of(g2), Of(g1))
	require.False(t, c1.Equal(c2))
}

func TestChallengeDistinguishesElementBoundaries(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide once length-prefixed.
	c1 := Challenge(Bytes([]byte("ab")), Bytes([]byte("c")))
	c2 := Challenge(Bytes([]byte("a")), Bytes([]byte("bc")))
	require.False(t, c1.Equal(c2))
}
