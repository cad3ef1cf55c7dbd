package async

import "errors"

var (
	ErrTimeout      = errors.New("async: operation timed out waiting for future completion")
	ErrInvalidLimit = errors.New("async: concurrency limit must be positive")
)
