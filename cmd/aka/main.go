// Command aka drives the three AKA roles (subscriber, serving network, home
// network) as independently runnable processes over TCP loopback. It is a
// thin driver over package aka; all protocol logic lives there.
package main

import (
	"os"

	"aaka/cmd/aka/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
