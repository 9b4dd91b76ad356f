// Package cmd implements the aka CLI's subcommands, following the
// 1ph-sim_reader convention of a cobra root command with one file per
// subcommand under cmd/.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags shared across roles.
	flagPort  string
	flagPeer  string
	flagKey   string
	flagSUPI  string
	flagSQN   uint64
	flagSName string

	// flagSharedKey is the hex-encoded long-term secret K shared between
	// the subscriber and home network roles; --key is reserved for the
	// home network's asymmetric key files, so K gets its own flag.
	flagSharedKey string
)

var rootCmd = &cobra.Command{
	Use:   "aka",
	Short: "5G-style AKA authentication demo over TCP loopback",
	Long: `aka runs the subscriber, serving-network, and home-network roles of
the challenge-response AKA exchange as independent processes talking over
TCP loopback.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "local TCP address to listen on, e.g. :8080")
	rootCmd.PersistentFlags().StringVar(&flagPeer, "peer", "", "remote TCP address to dial, e.g. 127.0.0.1:1070")
	rootCmd.PersistentFlags().StringVar(&flagKey, "key", "", "path to a key file (role-dependent: home network key pair or public key)")
	rootCmd.PersistentFlags().StringVar(&flagSUPI, "supi", "supi", "subscriber permanent identifier")
	rootCmd.PersistentFlags().Uint64Var(&flagSQN, "sqn", 0, "starting sequence number for this role")
	rootCmd.PersistentFlags().StringVar(&flagSName, "sname", "sname_100", "serving network name bound into RES*/XRES*")
	rootCmd.PersistentFlags().StringVar(&flagSharedKey, "shared-key", "", "hex-encoded long-term secret K shared between subscriber and home network")

	rootCmd.AddCommand(keygenCmd, ueCmd, snCmd, hnCmd)
}

// Execute runs the aka command tree.
func Execute() error {
	return rootCmd.Execute()
}
