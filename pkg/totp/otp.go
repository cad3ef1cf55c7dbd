package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"strings"
	"time"

	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

const (
	DefaultDigits    = 6      // Standard 6-digit TOTP codes
	DefaultPeriod    = 30     // 30-second time step (RFC 6238 standard)
	DefaultAlgorithm = "SHA1" // HMAC-SHA1 (RFC 6238 standard)

	minDigits = 6
	maxDigits = 8

	// skewSteps is the number of adjacent time steps accepted on each side.
	skewSteps = 1
)

var pow10 = [...]uint32{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000}

// Params are the per-secret TOTP parameters. They must be identical at
// provisioning and verification time.
type Params struct {
	Algorithm string // SHA1, SHA256 or SHA512
	Digits    int    // 6 to 8
	Period    int    // time step in seconds
}

// DefaultParams returns SHA1, 6 digits, 30 seconds.
func DefaultParams() Params {
	return Params{
		Algorithm: DefaultAlgorithm,
		Digits:    DefaultDigits,
		Period:    DefaultPeriod,
	}
}

// Validate reports a configuration error for unusable parameters.
// A zero period is rejected rather than replaced with a default.
func (p Params) Validate() error {
	if _, err := hashFunc(p.Algorithm); err != nil {
		return errors.Join(vaulterr.ErrConfiguration, err)
	}
	if p.Digits < minDigits || p.Digits > maxDigits {
		return errors.Join(vaulterr.ErrConfiguration, fmt.Errorf("%w: got %d", ErrInvalidDigits, p.Digits))
	}
	if p.Period <= 0 {
		return errors.Join(vaulterr.ErrConfiguration, fmt.Errorf("%w: got %d", ErrInvalidPeriod, p.Period))
	}
	return nil
}

// Counter returns the RFC 6238 time step containing t.
func (p Params) Counter(t time.Time) int64 {
	period := int64(p.Period)
	unix := t.Unix()
	counter := unix / period
	// Floor for instants before the epoch.
	if unix%period != 0 && unix < 0 {
		counter--
	}
	return counter
}

func hashFunc(algorithm string) (func() hash.Hash, error) {
	switch strings.ToUpper(algorithm) {
	case "SHA1":
		return sha1.New, nil
	case "SHA256":
		return sha256.New, nil
	case "SHA512":
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}

// GenerateHOTP implements the RFC 4226 HMAC-based One-Time Password algorithm
// and returns the numeric code before zero padding.
func GenerateHOTP(key []byte, counter int64, digits int, algorithm string) (int, error) {
	h, err := hashFunc(algorithm)
	if err != nil {
		return 0, errors.Join(vaulterr.ErrConfiguration, err)
	}
	if digits < minDigits || digits > maxDigits {
		return 0, errors.Join(vaulterr.ErrConfiguration, ErrInvalidDigits)
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(h, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Dynamic truncation: low nibble of the last byte selects a 4-byte window.
	offset := sum[len(sum)-1] & 0x0f
	code := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return int(code % pow10[digits]), nil
}

// GenerateCode returns the zero-padded code for the time step containing t.
func GenerateCode(secret string, params Params, t time.Time) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	key, err := DecodeSecret(secret)
	if err != nil {
		return "", err
	}
	defer keygen.Wipe(key)

	return codeAt(key, params, params.Counter(t))
}

func codeAt(key []byte, params Params, counter int64) (string, error) {
	code, err := GenerateHOTP(key, counter, params.Digits, params.Algorithm)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", params.Digits, code), nil
}

// Verify reports whether code matches the secret at the time step containing t
// or one step either side of it. Malformed codes, malformed secrets and invalid
// parameters all yield false.
func Verify(code, secret string, params Params, t time.Time) bool {
	if params.Validate() != nil {
		return false
	}

	code = strings.TrimSpace(code)
	if !isNumeric(code, params.Digits) {
		return false
	}

	key, err := DecodeSecret(secret)
	if err != nil {
		return false
	}
	defer keygen.Wipe(key)

	counter := params.Counter(t)
	match := 0
	for step := int64(-skewSteps); step <= skewSteps; step++ {
		candidate, err := codeAt(key, params, counter+step)
		if err != nil {
			return false
		}
		// No early exit: every candidate is compared.
		match |= subtle.ConstantTimeCompare([]byte(candidate), []byte(code))
	}

	return match == 1
}

// Validate checks a user entered code against a stored secret using the default
// parameters and the current time.
func Validate(code, secret string) bool {
	return Verify(code, secret, DefaultParams(), time.Now())
}

func isNumeric(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// Engine binds a parameter set and a clock.
type Engine struct {
	params Params
	now    func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine validates params and returns an Engine.
func NewEngine(params Params, opts ...EngineOption) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{params: params, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the engine parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Generate returns the code for the current time step.
func (e *Engine) Generate(secret string) (string, error) {
	return GenerateCode(secret, e.params, e.now())
}

// Verify checks code against secret at the current time.
func (e *Engine) Verify(code, secret string) bool {
	return Verify(code, secret, e.params, e.now())
}
