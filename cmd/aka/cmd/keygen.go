package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aaka/suci"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a home network key pair",
	Long: `keygen draws a fresh home network static key pair and writes the
secret key to --key and the public key to --key.pub. The public key file is
what a subscriber process reads to conceal its SUPI; the secret key file is
read by the home network role.`,
	RunE: func(c *cobra.Command, args []string) error {
		if flagKey == "" {
			return fmt.Errorf("--key is required")
		}
		key, err := suci.GenerateHomeNetworkKey()
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagKey, key.SecretKeyBytes(), 0600); err != nil {
			return err
		}
		if err := os.WriteFile(flagKey+".pub", key.PublicKeyBytes(), 0644); err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "wrote %s and %s.pub\n", flagKey, flagKey)
		return nil
	},
}
