// Package logger builds *slog.Logger instances for the vault services and CLI.
//
// New applies functional options, picks a text or JSON handler and wraps it in
// LogHandlerDecorator, which copies request-scoped values out of context.Context
// on every record. Every logger masks the attribute keys listed in
// DefaultRedactedKeys (plus any added with WithRedactedKeys), so a stray
// slog.String("key", ...) never leaks key material into the log stream.
//
// Attribute helpers such as Filename, Algorithm, Size and FlowID keep key names
// consistent across packages.
//
// # Usage
//
//	log, err := logger.NewFromConfig(cfg.Log)
//	if err != nil {
//	    return err
//	}
//	log.Info("file encrypted",
//	    logger.Filename(res.File.Filename),
//	    logger.Algorithm(res.Algorithm),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
package logger
