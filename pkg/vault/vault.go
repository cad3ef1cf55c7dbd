package vault

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"time"

	"github.com/dmitrymomot/securevault/pkg/aead"
	"github.com/dmitrymomot/securevault/pkg/async"
	"github.com/dmitrymomot/securevault/pkg/container"
	"github.com/dmitrymomot/securevault/pkg/file"
	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/logger"
	"github.com/dmitrymomot/securevault/pkg/vaulterr"
)

// EncryptedFile is the serialized container ready for upload or download.
type EncryptedFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// EncryptionResult is returned once per encrypted file. Key and IV are standard
// Base64 and are meant to be shown to the user exactly once.
type EncryptionResult struct {
	File      EncryptedFile
	Algorithm string
	Key       string
	IV        string
	Checksum  string
}

// DecryptedFile is the plaintext recovered from a container.
type DecryptedFile struct {
	Filename string
	MIMEType string
	Data     []byte
	Checksum string
}

// Input is one file for EncryptBatch.
type Input struct {
	Data     []byte
	Filename string
	MIMEType string
}

// Pipeline encrypts files into containers and opens them again.
// It holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	keys   *keygen.Generator
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAlgorithm selects the cipher by identifier, see pkg/aead.
func WithAlgorithm(algorithm string) Option {
	return func(p *Pipeline) { p.cfg.Algorithm = algorithm }
}

// WithGenerator replaces the key generator, e.g. to inject a failing entropy source in tests.
func WithGenerator(g *keygen.Generator) Option {
	return func(p *Pipeline) {
		if g != nil {
			p.keys = g
		}
	}
}

// WithLogger sets the logger. Keys and IVs are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSuffix sets the suffix appended to encrypted file names.
func WithSuffix(suffix string) Option {
	return func(p *Pipeline) { p.cfg.FileSuffix = suffix }
}

// WithMaxFileSize limits plaintext size in bytes. Zero disables the limit.
func WithMaxFileSize(n int64) Option {
	return func(p *Pipeline) { p.cfg.MaxFileSize = n }
}

// WithBatchConcurrency bounds the number of files EncryptBatch seals at once.
func WithBatchConcurrency(n int) Option {
	return func(p *Pipeline) { p.cfg.BatchConcurrency = n }
}

// New creates a pipeline with DefaultConfig adjusted by opts.
// An invalid configuration is reported as vaulterr.ErrConfiguration.
func New(opts ...Option) (*Pipeline, error) {
	return NewFromConfig(DefaultConfig(), opts...)
}

// NewFromConfig creates a pipeline from cfg adjusted by opts.
func NewFromConfig(cfg Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg:    cfg,
		keys:   keygen.Default,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.cfg.Validate(); err != nil {
		return nil, errors.Join(vaulterr.ErrConfiguration, err)
	}
	spec, err := aead.Lookup(p.cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	p.cfg.Algorithm = spec.Algorithm
	p.logger = p.logger.With(logger.Component("vault"))

	return p, nil
}

// Algorithm returns the canonical identifier of the configured cipher.
func (p *Pipeline) Algorithm() string {
	return p.cfg.Algorithm
}

// Encrypt seals data under fresh key material and returns the serialized container
// together with the key and IV needed to open it. The key is never part of the
// container. On failure no partial result is returned.
func (p *Pipeline) Encrypt(data []byte, filename, mimeType string) (*EncryptionResult, error) {
	start := time.Now()
	filename = file.SanitizeFilename(filename)
	if mimeType != "" {
		if _, _, err := mime.ParseMediaType(mimeType); err != nil || len(mimeType) > math.MaxUint16 {
			p.logger.Debug("unparsable MIME type replaced by detection", logger.Operation("encrypt"), logger.Filename(filename))
			mimeType = ""
		}
	}
	if mimeType == "" {
		mimeType = file.DetectMIMEType(data, filename)
	}

	if p.cfg.MaxFileSize > 0 && int64(len(data)) > p.cfg.MaxFileSize {
		return nil, errors.Join(vaulterr.ErrEncryptionFailure,
			fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, len(data), p.cfg.MaxFileSize))
	}

	km, err := p.keys.GenerateKeyMaterial(p.cfg.Algorithm)
	if err != nil {
		p.logger.Error("key generation failed", logger.Operation("encrypt"), logger.Error(err))
		return nil, err
	}
	defer km.Wipe()

	sum := sha256.Sum256(data)
	c := &container.Container{
		Algorithm: km.Algorithm,
		IV:        km.IV,
		Checksum:  hex.EncodeToString(sum[:]),
		Filename:  filename,
		MIMEType:  mimeType,
		Size:      uint64(len(data)),
	}

	c.Ciphertext, err = aead.Seal(km.Algorithm, km.Key, km.IV, data, c.AssociatedData())
	if err != nil {
		p.logger.Error("seal failed", logger.Operation("encrypt"), logger.Filename(filename), logger.Error(err))
		return nil, errors.Join(vaulterr.ErrEncryptionFailure, ErrSealFailed, err)
	}

	blob, err := container.Marshal(c)
	if err != nil {
		return nil, errors.Join(vaulterr.ErrEncryptionFailure, err)
	}

	res := &EncryptionResult{
		File: EncryptedFile{
			Name:     container.EncryptedName(filename, p.cfg.FileSuffix),
			MIMEType: container.MIMEType,
			Data:     blob,
		},
		Algorithm: km.Algorithm,
		Key:       base64.StdEncoding.EncodeToString(km.Key),
		IV:        base64.StdEncoding.EncodeToString(km.IV),
		Checksum:  c.Checksum,
	}

	p.logger.Info("file encrypted",
		logger.Operation("encrypt"),
		logger.Filename(filename),
		logger.Size(len(data)),
		logger.Algorithm(km.Algorithm),
		logger.Duration(time.Since(start)),
	)
	return res, nil
}

// Decrypt opens a serialized container with the Base64 key and IV issued by Encrypt
// and verifies the plaintext checksum. The cipher is taken from the container, so
// files sealed under a previously configured algorithm still open.
func (p *Pipeline) Decrypt(blob []byte, key, iv string) (*DecryptedFile, error) {
	c, err := container.Unmarshal(blob)
	if err != nil {
		return nil, err
	}

	rawKey, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, errors.Join(vaulterr.ErrDecryptionFailure, ErrInvalidKeyEncoding, err)
	}
	defer keygen.Wipe(rawKey)

	rawIV, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return nil, errors.Join(vaulterr.ErrDecryptionFailure, ErrInvalidKeyEncoding, err)
	}
	if subtle.ConstantTimeCompare(rawIV, c.IV) != 1 {
		return nil, errors.Join(vaulterr.ErrDecryptionFailure, ErrIVMismatch)
	}

	plaintext, err := aead.Open(c.Algorithm, rawKey, c.IV, c.Ciphertext, c.AssociatedData())
	if err != nil {
		p.logger.Warn("container rejected", logger.Operation("decrypt"), logger.Filename(c.Filename), logger.Error(err))
		return nil, errors.Join(vaulterr.ErrDecryptionFailure, ErrOpenFailed, err)
	}

	sum := sha256.Sum256(plaintext)
	checksum := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(checksum), []byte(c.Checksum)) != 1 {
		keygen.Wipe(plaintext)
		p.logger.Warn("checksum mismatch", logger.Operation("decrypt"), logger.Filename(c.Filename))
		return nil, errors.Join(vaulterr.ErrIntegrityMismatch, ErrChecksumMismatch)
	}

	p.logger.Info("file decrypted",
		logger.Operation("decrypt"),
		logger.Filename(c.Filename),
		logger.Size(len(plaintext)),
		logger.Algorithm(c.Algorithm),
	)
	return &DecryptedFile{
		Filename: c.Filename,
		MIMEType: c.MIMEType,
		Data:     plaintext,
		Checksum: checksum,
	}, nil
}

// EncryptBatch encrypts inputs concurrently, bounded by the configured batch
// concurrency. Results keep input order. The batch is all-or-nothing: the first
// failure cancels pending files and is returned without results.
func (p *Pipeline) EncryptBatch(ctx context.Context, inputs []Input) ([]*EncryptionResult, error) {
	return async.Map(ctx, inputs, p.cfg.BatchConcurrency, func(_ context.Context, in Input) (*EncryptionResult, error) {
		return p.Encrypt(in.Data, in.Filename, in.MIMEType)
	})
}
