package cmd

import (
	"bytes"
	"encoding/hex"

	"aaka/primitive"
)

// sharedKey resolves --shared-key to the long-term secret K by hex-decoding
// it (its length is not checked), defaulting to a fixed 256-byte demo vector
// (0xff repeated) when the flag is unset,
// so `aka ue`/`aka hn` work out of the box without requiring an out-of-band
// key exchange for the demo.
func sharedKey() ([]byte, error) {
	if flagSharedKey == "" {
		return bytes.Repeat([]byte{0xff}, primitive.SQNWidth), nil
	}
	return hex.DecodeString(flagSharedKey)
}
