package primitive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestF1Deterministic(t *testing.T) {
	k := bytes.Repeat([]byte{0xff}, 256)
	sqn := NewSequenceNumber(100).Bytes()
	r := bytes.Repeat([]byte{0x11}, 256)

	mac1 := F1(k, sqn, r)
	mac2 := F1(k, sqn, r)
	require.Equal(t, mac1, mac2)
	require.Len(t, mac1, 32)

	other := F1(k, NewSequenceNumber(101).Bytes(), r)
	require.NotEqual(t, mac1, other)
}

func TestF5Deterministic(t *testing.T) {
	k := bytes.Repeat([]byte{0xab}, 256)
	r := bytes.Repeat([]byte{0xcd}, 256)

	ak1 := F5(k, r)
	ak2 := F5(k, r)
	require.Equal(t, ak1, ak2)
	require.Len(t, ak1, 32)
}

func TestXORTruncatesToShorter(t *testing.T) {
	a := []byte{0xff, 0xff, 0xff}
	b := []byte{0x0f, 0x0f}
	require.Equal(t, []byte{0xf0, 0xf0}, XOR(a, b))
}

func TestXORWidePreservesWidth(t *testing.T) {
	wide := make([]byte, SQNWidth)
	wide[0] = 0xff
	narrow := make([]byte, 32)
	narrow[0] = 0x0f

	out, err := XORWide(wide, narrow)
	require.NoError(t, err)
	require.Len(t, out, SQNWidth)
	require.Equal(t, byte(0xf0), out[0])
	require.Equal(t, wide[1:], out[1:])

	_, err = XORWide(narrow, wide)
	require.Error(t, err)
}

func TestSequenceNumberRoundTrip(t *testing.T) {
	sqn := NewSequenceNumber(100)
	b := sqn.Bytes()
	require.Len(t, b, SQNWidth)

	decoded, err := SequenceNumberFromBytes(b)
	require.NoError(t, err)
	require.Equal(t, 0, sqn.Cmp(decoded))

	next := sqn.Next()
	require.Equal(t, 1, next.Cmp(sqn))
	u, ok := next.Uint64()
	require.True(t, ok)
	require.Equal(t, uint64(101), u)
}

func TestKDFIsDeterministic(t *testing.T) {
	k := bytes.Repeat([]byte{0x01}, 256)
	r := bytes.Repeat([]byte{0x02}, 256)

	out1 := Challenge(k, r, "sname_100")
	out2 := Challenge(k, r, "sname_100")
	require.Equal(t, out1, out2)
	require.Len(t, out1, 32)

	out3 := Challenge(k, r, "sname_101")
	require.NotEqual(t, out1, out3)
}

func TestKeySeedFoldsSQN(t *testing.T) {
	k := bytes.Repeat([]byte{0x01}, 256)
	r := bytes.Repeat([]byte{0x02}, 256)
	sqn100 := NewSequenceNumber(100).Bytes()
	sqn101 := NewSequenceNumber(101).Bytes()

	seed100 := KeySeed(k, r, sqn100, []byte("sname_100"))
	seed101 := KeySeed(k, r, sqn101, []byte("sname_100"))
	require.NotEqual(t, seed100, seed101)
}

func TestSHA256Pair(t *testing.T) {
	r := bytes.Repeat([]byte{0x03}, 256)
	res := bytes.Repeat([]byte{0x04}, 32)
	h1 := SHA256Pair(r, res)
	h2 := SHA256Pair(r, res)
	require.Equal(t, h1, h2)
	require.Len(t, h1, 32)
}
