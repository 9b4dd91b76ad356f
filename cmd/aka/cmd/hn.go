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

var hnCmd = &cobra.Command{
	Use:   "hn",
	Short: "Run the home network (HN) role",
	Long: `hn listens on --port for a serving network connection, decrypts
the forwarded SUCI against the secret key read from --key, and runs one AKA
session as the home network. The subscriber seeded by --supi/--shared-key/
--sqn is the only entry in this process's in-memory directory.`,
	RunE: runHN,
}

func runHN(c *cobra.Command, args []string) error {
	if flagPort == "" || flagKey == "" {
		return fmt.Errorf("hn requires --port and --key (home network secret key file)")
	}
	skBytes, err := os.ReadFile(flagKey)
	if err != nil {
		return fmt.Errorf("reading home network secret key: %w", err)
	}
	hnKey, err := suci.LoadHomeNetworkKey(skBytes)
	if err != nil {
		return fmt.Errorf("loading home network secret key: %w", err)
	}
	dec := suci.NewDecryptor(hnKey)

	k, err := sharedKey()
	if err != nil {
		return fmt.Errorf("decoding --shared-key: %w", err)
	}

	dir := aka.NewMapDirectory()
	dir.Add(&aka.SubscriberRecord{SUPI: flagSUPI, K: k, SQN: primitive.NewSequenceNumber(flagSQN)})

	loggerFactory := logging.NewDefaultLoggerFactory()
	log := loggerFactory.NewLogger("hn")

	hn := aka.NewHomeNetwork(dir, dec, log)
	trace := newSessionTrace("hn")
	defer trace.render()

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	conn, err := transport.Listen(ctx, flagPort)
	if err != nil {
		return fmt.Errorf("listening for serving network: %w", err)
	}
	defer conn.Close()

	req, err := recvAs[*aka.SUCIRequestFrame](ctx, conn)
	if err != nil {
		return fmt.Errorf("awaiting suci request: %w", err)
	}
	trace.record("recv_suci_request", fmt.Sprintf("serving network %q requests a challenge", req.SName))

	challenge, err := hn.IssueChallenge(req)
	if err != nil {
		trace.record("identity_reject", err.Error())
		return err
	}
	if err := conn.Send(ctx, challenge); err != nil {
		return err
	}
	trace.record("issue_challenge", "sent (R, AUTN, HXRES*, K_SEAF)")

	f, err := conn.Recv(ctx)
	if err != nil {
		return fmt.Errorf("awaiting response or sync failure: %w", err)
	}

	switch v := f.(type) {
	case *aka.ResponseRequestFrame:
		supiFrame, err := hn.DecideResponse(v)
		if err != nil {
			trace.record("res_mismatch", err.Error())
			return err
		}
		trace.record("release_supi", fmt.Sprintf("released %q to serving network", supiFrame.SUPI))
		return conn.Send(ctx, supiFrame)
	case *aka.SyncFailureRequestFrame:
		if err := hn.DecideSyncFailure(v); err != nil {
			trace.record("resync_reject", err.Error())
			return err
		}
		trace.record("resync", "sqn_hn resynchronized")
		return nil
	default:
		return aka.ErrProtocolViolation
	}
}
