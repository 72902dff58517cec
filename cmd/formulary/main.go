// Package main is the entry point for the formulary command.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/formulary/internal/app"
	"github.com/dshills/formulary/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage signals a command line error already reported to the user.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// globalOptions are the flags accepted before the command name.
type globalOptions struct {
	configPath string
	logLevel   string
	nfc        bool
}

// command is one formulary subcommand.
type command struct {
	name    string
	usage   string
	summary string
	run     func(env *cmdEnv, args []string) (int, error)
}

var commands = []command{
	{"parse", "parse [-pretty] <formula>", "print the element tree as JSON", runParse},
	{"format", "format <formula>", "print the normalized formula", runFormat},
	{"validate", "validate [-rules list] [-json] <formula>", "validate a formula", runValidate},
	{"symbols", "symbols [-json]", "list the symbol catalog", runSymbols},
	{"watch", "watch <file>", "re-validate a formula file on every change", runWatch},
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts globalOptions
	var showVersion bool

	fs := flag.NewFlagSet("formulary", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml, .json)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.nfc, "nfc", false, "Normalize formula input to Unicode NFC")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "formulary - parse and validate math formulas\n\n")
		fmt.Fprintf(stderr, "Usage: formulary [options] <command> [arguments]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-42s %s\n", c.usage, c.summary)
		}
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  formulary format 'x^2+y_1'\n")
		fmt.Fprintf(stderr, "  formulary -c formulary.toml validate '(a+b'\n")
		fmt.Fprintf(stderr, "  formulary -c formulary.toml watch formula.txt\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "formulary %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == rest[0] {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", rest[0])
		fs.Usage()
		return 2
	}

	if opts.logLevel != "" {
		if _, ok := logging.ParseLevel(opts.logLevel); !ok {
			fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
			return 2
		}
	}

	logger := logging.New(logging.Config{Level: logging.LevelWarn, Output: stderr, Prefix: "formulary"})
	logging.Set(logger)

	appOpts := app.Options{
		ConfigPath: opts.configPath,
		LogLevel:   opts.logLevel,
		Logger:     logger,
	}
	if opts.nfc {
		appOpts.Normalize = norm.NFC.String
	}

	application, err := app.New(appOpts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	env := &cmdEnv{
		app:    application,
		stdout: stdout,
		stderr: stderr,
		color:  colorEnabled(stdout),
	}

	code, err := cmd.run(env, rest[1:])
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		if code == 0 {
			code = 1
		}
	}
	return code
}
