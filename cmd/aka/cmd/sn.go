package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/logging"
	"github.com/spf13/cobra"

	"aaka/aka"
	"aaka/cmd/aka/transport"
)

var snCmd = &cobra.Command{
	Use:   "sn",
	Short: "Run the serving network (SN) relay role",
	Long: `sn listens on --port for a subscriber connection and dials --peer
(a running "aka hn" process) to relay one AKA session end to end. It never
sees the subscriber's SUPI in the clear unless the home network releases it
at the end of a successful run.`,
	RunE: runSN,
}

func runSN(c *cobra.Command, args []string) error {
	if flagPort == "" || flagPeer == "" {
		return fmt.Errorf("sn requires --port (to listen on) and --peer (home network address)")
	}

	loggerFactory := logging.NewDefaultLoggerFactory()
	log := loggerFactory.NewLogger("sn")

	sn := aka.NewServingNetwork(flagSName, log)
	trace := newSessionTrace("sn")
	defer trace.render()

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	ueConn, err := transport.Listen(ctx, flagPort)
	if err != nil {
		return fmt.Errorf("listening for subscriber: %w", err)
	}
	defer ueConn.Close()

	hnConn, err := transport.Dial(ctx, flagPeer)
	if err != nil {
		return fmt.Errorf("dialing home network: %w", err)
	}
	defer hnConn.Close()

	suciFrame, err := recvAs[*aka.SUCIFrame](ctx, ueConn)
	if err != nil {
		return fmt.Errorf("awaiting suci: %w", err)
	}
	trace.record("recv_suci", "received SUCI from subscriber")

	req, err := sn.RequestChallenge(suciFrame)
	if err != nil {
		return err
	}
	if err := hnConn.Send(ctx, req); err != nil {
		return err
	}
	trace.record("forward_suci", "forwarded (SUCI, sname) to home network")

	challenge, err := recvAs[*aka.ChallengeFrame](ctx, hnConn)
	if err != nil {
		return fmt.Errorf("awaiting challenge: %w", err)
	}

	pair, err := sn.RelayChallenge(challenge)
	if err != nil {
		return err
	}
	if err := ueConn.Send(ctx, pair); err != nil {
		return err
	}
	trace.record("relay_challenge", "forwarded (R, AUTN) to subscriber")

	ueResp, err := ueConn.Recv(ctx)
	if err != nil {
		return fmt.Errorf("awaiting subscriber response: %w", err)
	}

	fwd, err := sn.HandleUEResponse(ueResp)
	if err != nil {
		trace.record("reject", err.Error())
		return err
	}
	if fwd == nil {
		trace.record("mac_failure", "session ended, nothing forwarded")
		return nil
	}
	if err := hnConn.Send(ctx, fwd); err != nil {
		return err
	}

	switch fwd.(type) {
	case *aka.ResponseRequestFrame:
		trace.record("forward_response", "forwarded RES* to home network")
		supiFrame, err := recvAs[*aka.SUPIFrame](ctx, hnConn)
		if err != nil {
			return fmt.Errorf("awaiting supi release: %w", err)
		}
		trace.record("supi_released", fmt.Sprintf("home network released %q", supiFrame.SUPI))
	case *aka.SyncFailureRequestFrame:
		trace.record("forward_sync_failure", "forwarded AUTS to home network")
	}
	return nil
}
