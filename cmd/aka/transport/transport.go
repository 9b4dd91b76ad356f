// Package transport supplies the wire binding for the AKA link: a
// length-prefixed, encoding/gob-framed duplex stream over TCP loopback.
// The aka package only consumes and produces Frame values and never sees a
// connection; this package declares the Transport interface the CLI drivers
// use and TCPConn, its one implementation.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"net"

	"aaka/aka"
)

func init() {
	gob.Register(&aka.SUCIFrame{})
	gob.Register(&aka.SUCIRequestFrame{})
	gob.Register(&aka.ChallengeFrame{})
	gob.Register(&aka.ChallengePairFrame{})
	gob.Register(&aka.ResponseFrame{})
	gob.Register(&aka.MacFailureFrame{})
	gob.Register(&aka.SyncFailureFrame{})
	gob.Register(&aka.ResponseRequestFrame{})
	gob.Register(&aka.SyncFailureRequestFrame{})
	gob.Register(&aka.SUPIFrame{})
}

// Transport is a duplex message stream: Send/Recv exchange discrete Frame
// values, with frame boundaries preserved regardless of the underlying byte
// stream.
type Transport interface {
	Send(ctx context.Context, f aka.Frame) error
	Recv(ctx context.Context) (aka.Frame, error)
	Close() error
}

// maxFrameSize bounds a single length-prefixed frame; the AKA wire payloads
// top out at a handful of 256-byte fields, so this is generous headroom,
// not a protocol limit.
const maxFrameSize = 1 << 20

// TCPConn is a Transport over a single net.Conn, gob-encoding each Frame
// behind a 4-byte big-endian length prefix.
type TCPConn struct {
	conn net.Conn
	r    *bufio.Reader
}

// NewTCPConn wraps an already-established connection.
func NewTCPConn(conn net.Conn) *TCPConn {
	return &TCPConn{conn: conn, r: bufio.NewReader(conn)}
}

// Dial connects to addr and returns a ready Transport.
func Dial(ctx context.Context, addr string) (*TCPConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewTCPConn(conn), nil
}

// Listen accepts a single inbound connection on addr and returns it wrapped
// as a Transport, one session per port; a deployment that wants concurrent
// sessions loops calling Listen or forks to a persistent net.Listener.
func Listen(ctx context.Context, addr string) (*TCPConn, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	return NewTCPConn(conn), nil
}

// Send gob-encodes f and writes it as one length-prefixed frame.
func (t *TCPConn) Send(ctx context.Context, f aka.Frame) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(dl)
	}
	buf, err := encodeFrame(f)
	if err != nil {
		return err
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(buf)))
	if _, err := t.conn.Write(lenPrefix[:]); err != nil {
		return translateCloseErr(err)
	}
	if _, err := t.conn.Write(buf); err != nil {
		return translateCloseErr(err)
	}
	return nil
}

// Recv reads one length-prefixed frame and gob-decodes it back into a Frame.
func (t *TCPConn) Recv(ctx context.Context) (aka.Frame, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(dl)
	}
	var lenPrefix [4]byte
	if _, err := io.ReadFull(t.r, lenPrefix[:]); err != nil {
		return nil, translateCloseErr(err)
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("transport: frame of %d bytes exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(t.r, buf); err != nil {
		return nil, translateCloseErr(err)
	}
	return decodeFrame(buf)
}

// Close closes the underlying connection.
func (t *TCPConn) Close() error { return t.conn.Close() }

func translateCloseErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return aka.ErrTransportClosed
	}
	return err
}

// envelope carries a Frame through gob, which cannot encode an interface
// value directly without a registered concrete type wrapper.
type envelope struct {
	F aka.Frame
}

func encodeFrame(f aka.Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(envelope{F: f}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFrame(buf []byte) (aka.Frame, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&env); err != nil {
		return nil, err
	}
	return env.F, nil
}
