// Command dice is the DICe process launcher.
//
// Build metadata is injected at link time:
//
//	go build -ldflags "-X github.com/dicengine/dice/pkg/buildinfo.Revision=$(git rev-parse --short HEAD) \
//	  -X github.com/dicengine/dice/pkg/buildinfo.Version=v3.0.0" ./cmd/dice
//
// Build with -tags dice_dist for the coordinated distributed runtime, and
// dice_double, dice_int_storage or dice_float_storage to select precision.
package main

import (
	"os"

	"github.com/dicengine/dice/cmd/dice/commands"

	// Import prometheus metrics to register init() functions
	_ "github.com/dicengine/dice/pkg/metrics/prometheus"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintErr("Error: %v", err)
		os.Exit(1)
	}
}
