// Package async provides generic helpers for running computations in goroutines
// and collecting their results.
//
// Async starts a function and returns a *Future; Await, AwaitWithTimeout and
// IsComplete observe it. WaitAll gathers several futures in order, and Map runs a
// function over a slice with a concurrency limit, canceling outstanding work on the
// first failure. Batch encryption in pkg/vault is built on Map.
//
//	results, err := async.Map(ctx, files, 4, func(ctx context.Context, in vault.Input) (*vault.EncryptionResult, error) {
//	    return pipeline.Encrypt(in.Data, in.Filename, in.MIMEType)
//	})
package async
