package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lgrep/internal/debug"
	lgerrors "github.com/standardbeagle/lgrep/internal/errors"
	"github.com/standardbeagle/lgrep/internal/version"
)

// Exit statuses follow grep
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitTrouble = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit status
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Help and version output never reach the action
	code := exitMatch
	app := newApp(stdin, stdout, stderr, &code)
	if err := app.RunContext(ctx, args); err != nil {
		fmt.Fprintf(stderr, "lgrep: %v\n", err)
		// Pattern and config errors stand on their own; anything else is a
		// command line mistake
		if !lgerrors.IsFatal(err) && !errors.Is(err, errNoPattern) {
			fmt.Fprintln(stderr, "Try 'lgrep --help' for more information.")
		}
		return exitTrouble
	}
	return code
}

func newApp(stdin io.Reader, stdout, stderr io.Writer, code *int) *cli.App {
	// -h is --no-filename and -v is --invert-match, as in grep
	cli.HelpFlag = &cli.BoolFlag{Name: "help", Usage: "show help"}
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Aliases: []string{"V"}, Usage: "print the version"}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.FullInfo())
	}

	return &cli.App{
		Name:                      "lgrep",
		Usage:                     "search files for lines matching patterns, in parallel",
		UsageText:                 "lgrep [OPTION...] PATTERNS [FILE...]\nlgrep [OPTION...] -e PATTERN ... [FILE...]",
		Version:                   version.Version,
		Reader:                    stdin,
		Writer:                    stdout,
		ErrWriter:                 stderr,
		UseShortOptionHandling:    true,
		DisableSliceFlagSeparator: true,
		HideHelpCommand:           true,
		Flags:                     searchFlags(),
		// Exit codes are returned through code, never via os.Exit
		ExitErrHandler: func(*cli.Context, error) {},
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return err
		},
		Action: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				debug.Enable(true)
			}
			debug.SetDebugOutput(stderr)

			inv, err := resolve(c, stdin, stdout)
			if err != nil {
				if errors.Is(err, errNoPattern) {
					cli.ShowAppHelp(c)
				}
				return err
			}
			*code = execute(c.Context, inv, stdout, stderr)
			return nil
		},
	}
}
