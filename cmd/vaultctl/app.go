package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/securevault/pkg/config"
	"github.com/dmitrymomot/securevault/pkg/file"
	"github.com/dmitrymomot/securevault/pkg/logger"
	"github.com/dmitrymomot/securevault/pkg/mfa"
	"github.com/dmitrymomot/securevault/pkg/secrets"
	"github.com/dmitrymomot/securevault/pkg/vault"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	errUsage       = errors.New("invalid usage")
	errInvalidCode = errors.New("code is not valid")
)

type command struct {
	name  string
	usage string
	run   func(a *app, ctx context.Context, args []string) error
}

var commands = []command{
	{"keygen", "keygen [-length n]", (*app).keygen},
	{"encrypt", "encrypt [-o out] [-mime type] [-upload] <file>", (*app).encrypt},
	{"decrypt", "decrypt [-key k] [-iv iv] [-o out] <container> [key iv]", (*app).decrypt},
	{"totp", "totp [-at time] [secret]", (*app).totp},
	{"verify", "verify [-at time] <code> [secret]", (*app).verify},
	{"enroll", "enroll [-seal] [-qr] <account>", (*app).enroll},
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vaultctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", "", "load variables from this .env file")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	if *envFile != "" {
		if err := config.LoadEnv(*envFile); err != nil {
			fmt.Fprintln(stderr, "vaultctl:", err)
			return exitFailure
		}
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		fmt.Fprintln(stderr, "vaultctl:", err)
		return exitFailure
	}
	log, err := logger.NewFromConfig(logCfg, logger.WithOutput(stderr))
	if err != nil {
		fmt.Fprintln(stderr, "vaultctl:", err)
		return exitFailure
	}

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, log: log}

	for _, c := range commands {
		if c.name != rest[0] {
			continue
		}
		err := c.run(a, ctx, rest[1:])
		switch {
		case err == nil:
			return exitOK
		case errors.Is(err, flag.ErrHelp):
			return exitOK
		case errors.Is(err, errUsage):
			fmt.Fprintf(stderr, "usage: vaultctl %s\n", c.usage)
			return exitUsage
		case errors.Is(err, errInvalidCode):
			fmt.Fprintln(stdout, "invalid")
			return exitFailure
		default:
			log.ErrorContext(ctx, "command failed", logger.Operation(c.name), logger.Error(err))
			fmt.Fprintf(stderr, "vaultctl %s: %v\n", c.name, err)
			return exitFailure
		}
	}

	fmt.Fprintf(stderr, "vaultctl: unknown command %q\n", rest[0])
	printUsage(stderr)
	return exitUsage
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: vaultctl [-env file] <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) pipeline() (*vault.Pipeline, error) {
	var cfg vault.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return vault.NewFromConfig(cfg, vault.WithLogger(a.log))
}

func (a *app) storage(ctx context.Context) (file.Storage, error) {
	var cfg file.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return file.NewFromConfig(ctx, cfg)
}

func (a *app) mfaService(at time.Time, seal bool, qrSize int) (*mfa.Service, error) {
	var cfg mfa.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	cfg.QRSize = qrSize

	opts := []mfa.Option{mfa.WithLogger(a.log)}
	if !at.IsZero() {
		opts = append(opts, mfa.WithClock(func() time.Time { return at }))
	}
	if seal {
		var sc secrets.Config
		if err := config.Load(&sc); err != nil {
			return nil, err
		}
		sealer, err := secrets.NewFromConfig(sc)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mfa.WithSealer(sealer))
	}
	return mfa.NewFromConfig(cfg, opts...)
}
