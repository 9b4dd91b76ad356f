package aka

import "errors"

// Mac_Failure and Sync_Failure are in-protocol signals carried as Frame
// values, not returned as errors; the error kinds below terminate the
// session they occur in.
var (
	// ErrIdentityReject is returned by the home network when SUCI
	// decryption fails or the decrypted identity has no subscriber record.
	ErrIdentityReject = errors.New("aka: suci decryption failed or subscriber unknown")

	// ErrResMismatch is returned when a RES* does not match the cached
	// XRES* (or, at the serving network, when SHA-256(R || RES*) != HXRES*).
	ErrResMismatch = errors.New("aka: response does not match expected response")

	// ErrResyncReject is returned when the home network cannot verify a
	// resynchronization MAC (MACS) against a claimed AUTS.
	ErrResyncReject = errors.New("aka: resynchronization mac verification failed")

	// ErrProtocolViolation is returned on an out-of-order or unrecognized
	// frame at any role boundary.
	ErrProtocolViolation = errors.New("aka: unexpected message or malformed frame")

	// ErrTransportClosed is returned by cmd/aka/transport when the peer
	// disconnects mid-session; the role methods in this package never see a
	// transport and do not return it themselves.
	ErrTransportClosed = errors.New("aka: peer disconnected")
)
