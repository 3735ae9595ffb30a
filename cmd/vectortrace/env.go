package main

import (
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"github.com/pavanmanishd/vector"
)

func addEnvCommand(app *kingpin.Application, stdout io.Writer) {
	app.Command("env", "Print the allocator configuration read from VECTOR_* variables.").
		Action(func(_ *kingpin.ParseContext) error {
			cfg, err := vector.ConfigFromEnv()
			if err != nil {
				return err
			}
			limit := "unlimited"
			if cfg.MaxBytes > 0 {
				limit = cfg.MaxBytes.HumanReadable()
			}
			fmt.Fprintf(stdout, "max_bytes=%s log_level=%s\n", limit, cfg.LogLevel)
			return nil
		})
}
