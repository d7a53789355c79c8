// Command zakat keeps a household zakat ledger: assets, recipients and
// payments per year, with year archiving and history.
//
// Usage:
//
//	zakat [global flags] <command> [command flags] [args]
//
// Run "zakat help" for the command list.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"zakat/internal/cli"
	"zakat/internal/config"
	"zakat/internal/core"
	"zakat/internal/log"
)

func main() {
	cli.LoadEnvFile()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code: 0 on success,
// 2 for usage and validation errors, 1 for everything else.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("zakat", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	config.RegisterFlags(global)
	global.Usage = func() { usage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if global.NArg() == 0 || global.Arg(0) == "help" {
		usage(stdout, global)
		return 0
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "zakat: unknown command %q\n", name)
		usage(stderr, global)
		return 2
	}

	cfg, err := cli.LoadAndValidateConfig(global)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger, err := cli.SetupLogger(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	exec := cmd.setup(fs)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: zakat %s %s\n\n%s\n", name, cmd.args, cmd.summary)
		fs.PrintDefaults()
	}
	if err := fs.Parse(global.Args()[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	sess, err := cli.Open(ctx, logger, cfg)
	if err != nil {
		logger.LogError(ctx, "Failed to open ledger", err, log.OpStartup, nil)
		fmt.Fprintln(stderr, "zakat:", err)
		return 1
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.LogError(ctx, "Failed to close ledger", err, log.OpShutdown, nil)
		}
	}()

	if err := exec(ctx, &env{sess: sess, args: fs.Args(), out: stdout}); err != nil {
		fmt.Fprintln(stderr, "zakat:", err)
		var usageErr usageError
		if core.IsValidation(err) || errors.As(err, &usageErr) {
			return 2
		}
		return 1
	}
	return 0
}

func usage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: zakat [global flags] <command> [command flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	global.SetOutput(w)
	global.PrintDefaults()
}
