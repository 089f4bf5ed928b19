package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/empproxy/empproxy/internal/config"
	"github.com/empproxy/empproxy/internal/metrics"
	"github.com/empproxy/empproxy/internal/service"
	"github.com/empproxy/empproxy/internal/upstream"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// cli holds per-invocation state shared by subcommands.
type cli struct {
	out    io.Writer
	errOut io.Writer

	flagBaseURL  string
	flagLogLevel string

	svc *service.EmployeeService
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	root := newRootCmd(&cli{out: out, errOut: errOut})
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(errOut, "Error:", err)
	return exitCode(err)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "employeectl",
		Short: "employeectl queries and edits the upstream employee directory",
		Long: `employeectl talks to the upstream employee directory directly.
Configuration comes from the same UPSTREAM_* environment variables as the
proxy; --base-url overrides UPSTREAM_BASE_URL.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().StringVar(&c.flagBaseURL, "base-url", "", "upstream employee collection URL (default: $UPSTREAM_BASE_URL)")
	root.PersistentFlags().StringVar(&c.flagLogLevel, "log-level", "warn", "log level for stderr diagnostics (debug, info, warn, error)")

	root.AddCommand(
		c.listCmd(),
		c.searchCmd(),
		c.getCmd(),
		c.highestSalaryCmd(),
		c.topEarnersCmd(),
		c.createCmd(),
		c.deleteCmd(),
	)
	return root
}

// setup loads configuration and builds the employee service.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return &sysError{err: fmt.Errorf("load config: %w", err)}
	}
	if c.flagBaseURL != "" {
		cfg.UpstreamBaseURL = c.flagBaseURL
	}

	cfg.LogLevel = c.flagLogLevel
	logger := slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	client, err := upstream.New(cfg.UpstreamConfig(), logger, metrics.NewNoop())
	if err != nil {
		return &sysError{err: err}
	}

	c.svc, err = service.NewEmployeeService(client, logger, metrics.NewNoop())
	if err != nil {
		return &sysError{err: err}
	}
	return nil
}

// printJSON writes v as indented JSON.
func (c *cli) printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(c.out, string(output))
	return err
}

// sysError marks failures of the environment rather than of the input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

// exitCode maps an error onto the exit code contract: input problems
// (bad flags, validation, unknown ids) exit 1; upstream and setup failures exit 2.
func exitCode(err error) int {
	var sysErr *sysError
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrEmployeeNotFound):
		return exitUserError
	case errors.As(err, &sysErr),
		errors.Is(err, service.ErrDeleteFailed),
		errors.Is(err, upstream.ErrRateLimitExhausted),
		errors.Is(err, upstream.ErrUpstream),
		errors.Is(err, upstream.ErrNetwork),
		upstream.IsKind(err, upstream.KindCanceled):
		return exitSysError
	default:
		return exitUserError
	}
}

// joinArgs rebuilds a free-text argument split by the shell.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
