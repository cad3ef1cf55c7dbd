package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Operation records the vault operation under the key "op" (encrypt, decrypt, verify...).
func Operation(name string) slog.Attr {
	return slog.String("op", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Filename records the original file name under the key "filename".
// Empty names produce an empty Attr.
func Filename(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("filename", name)
}

// Algorithm records the cipher identifier under the key "algorithm".
func Algorithm(alg string) slog.Attr {
	return slog.String("algorithm", alg)
}

// Size records a byte count under the key "size".
func Size(n int) slog.Attr {
	return slog.Int("size", n)
}

// FlowID records the upload flow identifier under the key "flow_id".
// If id is nil, it returns an empty Attr.
func FlowID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("flow_id", id)
}

// Account records the MFA account label under the key "account".
func Account(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("account", name)
}
