package uploadflow_test

import (
	"io"
	"log/slog"

	"github.com/dmitrymomot/securevault/pkg/logger"
)

func newTestLogger(w io.Writer) *slog.Logger {
	return logger.New(
		logger.WithOutput(w),
		logger.WithLevel(slog.LevelDebug),
		logger.WithJSONFormatter(),
	)
}
