package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/robocore/internal/cliconfig"
	"github.com/bft-labs/robocore/internal/samples"
	"github.com/bft-labs/robocore/pkg/log"
	"github.com/bft-labs/robocore/pkg/opmode"
)

const helpDescription = `
Run robot op modes against simulated hardware and inspect the binary
wire format used by motor and sensor registers.

Highlights:
  - Drives the full op mode lifecycle at a fixed cycle period.
  - Describes the robot in a TOML hardware file; --watch restarts the
    session when the file changes.
  - Encodes and decodes register values in either byte order.
`

var exampleUsage = strings.TrimSpace(`
  robocore list
  robocore run --opmode TankDrive --duration 10s
  robocore run --opmode EncoderDrive --hardware robot.toml --watch --repeat
  robocore conv encode int32 1234567 --order little
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newRootCmd(reg *opmode.Registry) *cobra.Command {
	root := &cobra.Command{
		Use:     "robocore",
		Short:   "Run robot op modes against simulated hardware",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
	}
	root.AddCommand(newRunCmd(reg), newListCmd(reg), newConvCmd())
	return root
}

func main() {
	reg := opmode.NewRegistry()
	if err := samples.Register(reg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(reg).Execute(); err != nil {
		logger, lerr := cliconfig.Logger(log.DefaultLevel)
		if lerr != nil {
			os.Exit(1)
		}
		logger.Error("robocore", log.Err(err))
		os.Exit(1)
	}
}
