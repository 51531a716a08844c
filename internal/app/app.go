// Package app wires the CLI surface to the daemon transport: it parses the
// invocation into a typed command, encodes the request line, performs one
// request/reply exchange, and maps failures to process exit codes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reglinux/regmsg/internal/command"
	"github.com/reglinux/regmsg/internal/config"
	"github.com/reglinux/regmsg/internal/ipc"
	"github.com/reglinux/regmsg/internal/logging"
	"github.com/reglinux/regmsg/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// options holds the persistent flag values shared by every verb.
type options struct {
	screen     string
	echo       bool
	configPath string
}

// runFailure marks errors from the exchange itself, as opposed to usage
// errors reported by cobra. They exit 1 instead of 2.
type runFailure struct {
	err error
}

func (f *runFailure) Error() string { return f.err.Error() }

func (f *runFailure) Unwrap() error { return f.err }

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	var opts options
	root := r.newRootCmd(&opts)
	root.SetArgs(args)
	root.SetOut(r.Stdout)
	root.SetErr(r.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var fail *runFailure
	if errors.As(err, &fail) {
		fmt.Fprintf(r.Stderr, "error: %v\n", fail.err)
		return 1
	}

	fmt.Fprintf(r.Stderr, "error: %v\n", err)
	fmt.Fprintf(r.Stderr, "run 'regmsg --help' for usage\n")
	return 2
}

func (r Runner) newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "regmsg",
		Short: "Query and control the regmsgd display daemon",
		Long: `regmsg sends one command per invocation to the regmsgd display daemon
over its unix socket and prints the daemon's reply.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.screen, "screen", "s", "", "target screen identifier")
	root.PersistentFlags().BoolVarP(&opts.echo, "log", "l", false, "echo log lines to the terminal")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default "+config.DefaultPath+")")

	for _, spec := range command.Specs() {
		root.AddCommand(r.newVerbCmd(spec, opts))
	}

	return root
}

func (r Runner) newVerbCmd(spec command.Spec, opts *options) *cobra.Command {
	use := string(spec.Verb)
	if spec.TakesValue {
		use += " <" + spec.ValueName + ">"
	}
	use += " [args...]"

	return &cobra.Command{
		Use:   use,
		Short: spec.Summary,
		Args:  verbArgs(spec),
		RunE: func(c *cobra.Command, args []string) error {
			cmd := command.New(spec.Verb)
			trailing := args
			if spec.TakesValue {
				cmd = command.NewWithPayload(spec.Verb, args[0])
				trailing = args[1:]
			}
			return r.run(c.Context(), *opts, cmd, trailing)
		},
	}
}

// verbArgs validates positionals before the encoder sees them: payload
// presence and admissible values, plus the whitespace restriction the
// space-joined wire grammar imposes on every token.
func verbArgs(spec command.Spec) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if spec.TakesValue {
			if len(args) < 1 {
				return fmt.Errorf("%s requires a %s argument", spec.Verb, spec.ValueName)
			}
			if len(spec.ValidValues) > 0 && !slices.Contains(spec.ValidValues, args[0]) {
				return fmt.Errorf("invalid %s %q, must be one of %s",
					spec.ValueName, args[0], strings.Join(spec.ValidValues, ", "))
			}
		}
		for _, arg := range args {
			if strings.ContainsAny(arg, " \t\r\n") {
				return fmt.Errorf("argument %q contains whitespace, which the daemon grammar cannot carry", arg)
			}
		}
		return nil
	}
}

// run performs the single round trip: load config, open the log sink,
// encode the request line, dial, exchange, print the reply.
func (r Runner) run(ctx context.Context, opts options, cmd command.Command, trailing []string) error {
	loaded, err := config.Load(opts.configPath)
	if err != nil {
		return &runFailure{err}
	}

	var echo io.Writer
	if opts.echo {
		echo = r.Stderr
	}
	logRuntime, err := logging.New(loaded.Config.LogFile, echo)
	if err != nil {
		return &runFailure{fmt.Errorf("setup logging: %w", err)}
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	screen := opts.screen
	if screen == "" {
		screen = loaded.Config.Screen
	}

	line := command.Encode(cmd, command.Context{Screen: screen, Args: trailing})
	logger.Info("sending command",
		"verb", string(cmd.Verb()),
		"request", line,
		"socket", loaded.Config.Socket,
		"config", loaded.Path,
	)

	session, err := ipc.Dial(ctx, loaded.Config.Socket, loaded.Config.Timeout)
	if err != nil {
		if ipc.DaemonUnavailable(err) {
			err = fmt.Errorf("%w (is regmsgd running?)", err)
		}
		logger.Error("connect failed", "error", err.Error())
		return &runFailure{err}
	}
	defer func() { _ = session.Close() }()

	reply, err := session.Roundtrip(line)
	if err != nil {
		logger.Error("exchange failed", "error", err.Error())
		return &runFailure{err}
	}

	logger.Info("daemon replied", "bytes", len(reply))
	fmt.Fprintln(r.Stdout, reply)
	return nil
}
