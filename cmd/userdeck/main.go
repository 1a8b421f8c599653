package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/userdeck/userdeck/internal/logging"
)

func main() {
	if code := runMain(Execute, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

func runMain(execute func() error, stderr io.Writer) int {
	err := execute()
	if err == nil {
		return 0
	}
	return exitCodeForError(err, stderr)
}

func exitCodeForError(err error, stderr io.Writer) int {
	var ee *exitError
	switch {
	case errors.As(err, &ee):
		if !ee.silent {
			cause := err
			if ee.err != nil {
				cause = ee.err
			}
			emitCommandError(cause, "command failed", ee.code, stderr)
		}
		return ee.code
	case errors.Is(err, context.Canceled):
		emitCommandError(err, "command canceled", 130, stderr)
		return 130
	default:
		emitCommandError(err, "command failed", 1, stderr)
		return 1
	}
}

// emitCommandError prints err plainly for utility commands and as a
// structured record for long-running ones.
func emitCommandError(err error, message string, exitCode int, stderr io.Writer) {
	ctx := currentCommandExecutionContext()
	if !ctx.UsesStructuredLog {
		if exitCode == 130 {
			fmt.Fprintln(stderr, "canceled")
			return
		}
		fmt.Fprintln(stderr, err)
		return
	}
	fatalLogger(ctx, stderr).Error(message, "exit_code", exitCode, "error", err)
}

func fatalLogger(ctx commandExecutionContext, stderr io.Writer) *slog.Logger {
	cfg, err := logging.LoadConfigFromEnv()
	if err != nil {
		cfg = logging.DefaultConfig()
	}
	return logging.NewLogger(cfg, stderr, ctx.CommandPath)
}
