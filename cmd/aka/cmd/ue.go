package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pion/logging"
	"github.com/spf13/cobra"

	"aaka/aka"
	"aaka/cmd/aka/transport"
	"aaka/primitive"
	"aaka/suci"
)

var ueCmd = &cobra.Command{
	Use:   "ue",
	Short: "Run the subscriber (UE) role",
	Long: `ue dials --peer (a running "aka sn" process), conceals its SUPI
under the home network's public key read from --key, and runs one AKA
session to completion.`,
	RunE: runUE,
}

func runUE(c *cobra.Command, args []string) error {
	if flagPeer == "" || flagKey == "" {
		return fmt.Errorf("ue requires --peer and --key (home network public key file)")
	}
	pkBytes, err := os.ReadFile(flagKey)
	if err != nil {
		return fmt.Errorf("reading home network public key: %w", err)
	}
	enc, err := suci.NewEncryptor(pkBytes)
	if err != nil {
		return fmt.Errorf("loading home network public key: %w", err)
	}
	k, err := sharedKey()
	if err != nil {
		return fmt.Errorf("decoding --shared-key: %w", err)
	}

	loggerFactory := logging.NewDefaultLoggerFactory()
	log := loggerFactory.NewLogger("ue")

	ue := aka.NewSubscriber(flagSUPI, k, primitive.NewSequenceNumber(flagSQN), flagSName, enc, log)
	trace := newSessionTrace("ue")
	defer trace.render()

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	conn, err := transport.Dial(ctx, flagPeer)
	if err != nil {
		return fmt.Errorf("dialing serving network: %w", err)
	}
	defer conn.Close()

	suciFrame, err := ue.ConcealIdentity()
	if err != nil {
		return err
	}
	trace.record("conceal_identity", "sent SUCI")
	if err := conn.Send(ctx, suciFrame); err != nil {
		return err
	}

	pair, err := recvAs[*aka.ChallengePairFrame](ctx, conn)
	if err != nil {
		return fmt.Errorf("awaiting challenge: %w", err)
	}
	trace.record("recv_challenge", "received (R, AUTN)")

	resp, err := ue.HandleChallenge(pair)
	if err != nil {
		return err
	}
	switch resp.(type) {
	case *aka.ResponseFrame:
		trace.record("respond", "sent RES*")
	case *aka.SyncFailureFrame:
		trace.record("sync_failure", "sent AUTS")
	case *aka.MacFailureFrame:
		trace.record("mac_failure", "sent Mac_Failure")
	}
	return conn.Send(ctx, resp)
}

// recvAs receives one frame and asserts its concrete type, collapsing the
// common "wrong frame at this point in the protocol" case into
// ErrProtocolViolation.
func recvAs[T aka.Frame](ctx context.Context, conn *transport.TCPConn) (T, error) {
	var zero T
	f, err := conn.Recv(ctx)
	if err != nil {
		return zero, err
	}
	v, ok := f.(T)
	if !ok {
		return zero, aka.ErrProtocolViolation
	}
	return v, nil
}
