// Command vaultctl encrypts and decrypts vault containers and manages TOTP secrets
// from the command line.
//
// Usage:
//
//	vaultctl [-env file] <command> [flags] [args]
//
// Commands:
//
//	keygen                       print a new SECRETS_APP_KEY and MFA secret
//	encrypt [-o out] [-upload] <file>
//	decrypt [-o out] <container> [key iv]
//	totp [-at time] [secret]     print the current code
//	verify <code> [secret]       check a code, exit status 1 when invalid
//	enroll [-seal] <account>     start TOTP enrollment for an account
//
// Configuration is read from the environment and an optional .env file
// (VAULT_*, MFA_*, SECRETS_*, STORAGE_*, LOG_*).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
