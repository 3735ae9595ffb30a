// Command vectortrace replays a sequence of vector operations and prints the
// length, capacity and allocator usage after every step.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "vectortrace: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	app := kingpin.New("vectortrace", "Trace the growth of a vector.")
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)
	app.Terminate(nil)

	addTraceCommand(app, stdout, stderr)
	addEnvCommand(app, stdout)

	_, err := app.Parse(args)
	return err
}
