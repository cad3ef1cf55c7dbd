package mfa

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/logger"
	"github.com/dmitrymomot/securevault/pkg/qrcode"
	"github.com/dmitrymomot/securevault/pkg/secrets"
	"github.com/dmitrymomot/securevault/pkg/totp"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

// Enrollment is everything the caller needs to finish TOTP setup. Secret and the
// plain recovery codes are shown once; the caller persists SealedSecret (or
// Secret, if no sealer is configured) and RecoveryHashes.
type Enrollment struct {
	Account        string
	Secret         string
	SealedSecret   string
	URI            string
	QRCode         string // PNG data URI, empty when QR rendering is disabled
	Params         totp.Params
	RecoveryCodes  []string
	RecoveryHashes []string
}

// Service runs TOTP enrollment and verification for one issuer.
type Service struct {
	cfg    Config
	engine *totp.Engine
	keys   *keygen.Generator
	sealer *secrets.Sealer
	logger *slog.Logger
	clock  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for code generation and verification.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithGenerator replaces the secret generator.
func WithGenerator(g *keygen.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.keys = g
		}
	}
}

// WithSealer seals enrollment secrets under the account name.
func WithSealer(sealer *secrets.Sealer) Option {
	return func(s *Service) { s.sealer = sealer }
}

// WithLogger sets the logger. Secrets and codes are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service with DefaultConfig.
func New(opts ...Option) (*Service, error) {
	return NewFromConfig(DefaultConfig(), opts...)
}

// NewFromConfig validates cfg and creates a Service.
func NewFromConfig(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(vaulterr.ErrConfiguration, err)
	}

	s := &Service{
		cfg:    cfg,
		keys:   keygen.Default,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	engine, err := totp.NewEngine(cfg.Params(), totp.WithClock(s.clock))
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.logger = s.logger.With(logger.Component("mfa"))
	return s, nil
}

// Begin generates a secret for account and builds its provisioning URI, QR code
// and recovery codes.
func (s *Service) Begin(account string) (*Enrollment, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return nil, ErrMissingAccount
	}

	secret, err := s.keys.GenerateMFASecret(s.cfg.SecretLength)
	if err != nil {
		return nil, err
	}

	params := s.engine.Params()
	uri, err := totp.GetTOTPURI(totp.URIParams{
		Secret:      secret,
		AccountName: account,
		Issuer:      s.cfg.Issuer,
		Params:      params,
	})
	if err != nil {
		return nil, err
	}

	e := &Enrollment{
		Account: account,
		Secret:  secret,
		URI:     uri,
		Params:  params,
	}

	if s.cfg.QRSize > 0 {
		if e.QRCode, err = qrcode.ProvisioningImage(uri, s.cfg.QRSize); err != nil {
			return nil, err
		}
	}

	if s.cfg.RecoveryCodes > 0 {
		codes, err := totp.GenerateRecoveryCodes(s.cfg.RecoveryCodes)
		if err != nil {
			return nil, err
		}
		e.RecoveryCodes = codes
		e.RecoveryHashes = make([]string, len(codes))
		for i, c := range codes {
			e.RecoveryHashes[i] = totp.HashRecoveryCode(c)
		}
	}

	if s.sealer != nil {
		if e.SealedSecret, err = s.sealer.SealString(account, secret); err != nil {
			return nil, err
		}
	}

	s.logger.Info("enrollment started", logger.Account(account))
	return e, nil
}

// Confirm checks the first code the user typed after scanning the QR code.
func (s *Service) Confirm(secret, code string) error {
	if !s.engine.Verify(code, secret) {
		s.logger.Debug("enrollment code rejected")
		return ErrInvalidCode
	}
	return nil
}

// Verify is the login check: true iff code is valid for secret within ±1 time step.
func (s *Service) Verify(secret, code string) bool {
	return s.engine.Verify(code, secret)
}

// VerifySealed opens a secret sealed by Begin and verifies code against it.
func (s *Service) VerifySealed(account, sealedSecret, code string) (bool, error) {
	if s.sealer == nil {
		return false, ErrNoSealer
	}
	secret, err := s.sealer.OpenString(strings.TrimSpace(account), sealedSecret)
	if err != nil {
		return false, err
	}
	return s.engine.Verify(code, secret), nil
}

// Code returns the current code for secret. Useful for CLI tooling and tests.
func (s *Service) Code(secret string) (string, error) {
	return s.engine.Generate(secret)
}

// UseRecoveryCode returns the index of the stored hash matching code, or -1.
// Every hash is compared so timing does not reveal the position.
func UseRecoveryCode(code string, hashes []string) int {
	idx := -1
	for i, h := range hashes {
		if totp.VerifyRecoveryCode(code, h) && idx < 0 {
			idx = i
		}
	}
	return idx
}
