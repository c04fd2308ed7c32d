package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssq/config"
	"cssq/misc"
	"cssq/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		// debug run reports every stylesheet problem
		env.Cfg.Parser.Debug = true
		if env.Rpt, err = config.NewReport(cmd.String("report")); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if data, err := config.Dump(env.Cfg); err == nil {
			env.Rpt.StoreData(fmt.Sprintf("config/%s", reportConfigName(configFile)), data)
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func reportConfigName(configFile string) string {
	if len(configFile) == 0 {
		return "default.yaml"
	}
	return filepath.Base(configFile)
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if er := env.Rpt.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
	}
	return
}

// Ignore urfave/cli default error handling, subcommands return regular
// errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

const sourcesHelp = `
SOURCE:
    stylesheet location, following forms are supported:
        path to a stylesheet: "[path_to_file]file.css"
        path to a directory: "[path_to_directory]directory" - all *.css files in natural order (not recursive)
        path to an archive: "[path_to_archive]book.epub" or "archive.zip" - all *.css entries
        path to a document: "page.html", "page.xhtml", "book.fb2" or "file.xml" - embedded <style> and <stylesheet> elements
`

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "parses CSS-like stylesheets and matches their rules against documents",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "report every stylesheet problem and produce report archive"},
			&cli.StringFlag{Name: "report", Value: misc.GetAppName() + "-report.zip", Usage: "debug report archive `FILE`"},
		},
		Commands: []*cli.Command{
			{
				Name:         "dump",
				Usage:        "Parses stylesheets and prints resulting rules",
				OnUsageError: usageErrorHandler,
				Action:       runDump,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"},
						Usage: "output `MODE` (supported modes: " + strings.Join(config.OutputModeNames(), ", ") + "), overrides configuration"},
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "expand `TEXT` (text/template with sprig functions) for every rule, overrides configuration"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write result to `FILE` instead of STDOUT"},
				},
				ArgsUsage:          "SOURCE...",
				CustomHelpTemplate: cli.CommandHelpTemplate + sourcesHelp,
			},
			{
				Name:         "match",
				Usage:        "Prints document tree with matching rules and resulting declarations",
				OnUsageError: usageErrorHandler,
				Action:       runMatch,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "doc", Required: true, Usage: "document `FILE` (HTML, XHTML, FB2 or XML)"},
					&cli.BoolFlag{Name: "html", Usage: "parse document as HTML regardless of its extension"},
					&cli.StringFlag{Name: "select", Aliases: []string{"s"}, Usage: "list elements matching `SELECTOR` instead of printing the tree"},
					&cli.BoolFlag{Name: "matched-only", Usage: "omit subtrees without matching rules"},
					&cli.BoolFlag{Name: "no-embedded", Usage: "ignore stylesheets embedded in or linked from the document"},
				},
				ArgsUsage:          "[SOURCE...]",
				CustomHelpTemplate: cli.CommandHelpTemplate + sourcesHelp,
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	out, closeOut, err := createOutput(fname)
	if err != nil {
		return err
	}
	defer closeOut()

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

// createOutput opens named destination or returns STDOUT when name is empty.
func createOutput(fname string) (*os.File, func(), error) {
	if len(fname) == 0 {
		return os.Stdout, func() {}, nil
	}
	out, err := os.Create(fname)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return out, func() { out.Close() }, nil
}
