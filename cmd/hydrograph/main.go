package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zarladar/interactive-hydrograph/internal/app"
	"github.com/zarladar/interactive-hydrograph/internal/cli"
)

// main is the entrypoint for the hydrograph command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args and performs one request. Series output goes to outW
// and logs to logW.
func run(outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	return app.Run(outW, logW, cfg)
}
