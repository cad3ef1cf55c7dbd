package uploadflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/securevault/pkg/file"
	"github.com/dmitrymomot/securevault/pkg/logger"
	"github.com/dmitrymomot/securevault/pkg/statemachine"
	"github.com/dmitrymomot/securevault/pkg/vault"
)

// Uploader stores an encrypted container. Every file.Storage satisfies it.
type Uploader interface {
	Save(ctx context.Context, path string, data []byte, mimeType string) (*file.File, error)
}

// Option configures a Flow.
type Option func(*Flow)

// WithUploader sets where confirmed containers are uploaded.
func WithUploader(u Uploader) Option {
	return func(f *Flow) {
		f.uploader = u
	}
}

// WithLogger sets the logger. Keys, IVs and file contents are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithKeyPrefix sets the storage key prefix. Objects are stored under
// <prefix>/<flow id>/<container name>.
func WithKeyPrefix(prefix string) Option {
	return func(f *Flow) {
		f.prefix = prefix
	}
}

// Snapshot is a read-only view of a flow for rendering.
type Snapshot struct {
	ID       string
	State    State
	Filename string
	Size     int
	Result   *vault.EncryptionResult
	Stored   *file.File
	Err      error
}

// Flow drives a single file through select, encrypt, confirm and upload.
// The EncryptionResult lives only as long as the flow; Reset drops it.
type Flow struct {
	mu       sync.Mutex
	id       uuid.UUID
	pipeline *vault.Pipeline
	uploader Uploader
	logger   *slog.Logger
	prefix   string
	fsm      *statemachine.Machine[State, Event, struct{}]

	input  *vault.Input
	result *vault.EncryptionResult
	stored *file.File
	err    error
}

// New creates a flow in the idle state.
func New(pipeline *vault.Pipeline, opts ...Option) (*Flow, error) {
	if pipeline == nil {
		return nil, ErrNilPipeline
	}

	f := &Flow{
		id:       uuid.New(),
		pipeline: pipeline,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		prefix:   "vault",
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(logger.Component("uploadflow"), logger.FlowID(f.id.String()))

	type t = struct{}
	f.fsm = statemachine.New(StateIdle,
		statemachine.FromAny[State, Event, t]([]State{StateIdle, StateFileSelected, StateConfirmation, StateUploaded, StateFailed}, StateFileSelected, EventSelect),
		statemachine.WithTransition[State, Event, t](StateFileSelected, StateEncrypting, EventEncrypt),
		statemachine.WithTransition[State, Event, t](StateEncrypting, StateConfirmation, EventEncrypted),
		statemachine.WithTransition[State, Event, t](StateConfirmation, StateUploading, EventUpload),
		statemachine.WithTransition[State, Event, t](StateUploading, StateUploaded, EventUploaded),
		statemachine.FromAny[State, Event, t]([]State{StateEncrypting, StateUploading}, StateFailed, EventFail),
		statemachine.FromAny[State, Event, t]([]State{StateFileSelected, StateConfirmation, StateUploaded, StateFailed}, StateIdle, EventReset),
		statemachine.OnTransition[State, Event, t](func(from, to State, e Event) {
			f.logger.Debug("state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
				slog.String("event", e.String()),
			)
		}),
	)

	return f, nil
}

// ID returns the flow identifier.
func (f *Flow) ID() string { return f.id.String() }

// State returns the current state.
func (f *Flow) State() State { return f.fsm.Current() }

// Select stages a file for encryption. Selecting again replaces the previous
// file and discards any unsent result.
func (f *Flow) Select(ctx context.Context, data []byte, filename, mimeType string) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fire(ctx, EventSelect); err != nil {
		return err
	}
	f.input = &vault.Input{Data: data, Filename: filename, MIMEType: mimeType}
	f.result, f.stored, f.err = nil, nil, nil

	f.logger.InfoContext(ctx, "file selected", logger.Filename(filename), logger.Size(len(data)))
	return nil
}

// Encrypt runs the vault pipeline over the selected file and moves to the
// confirmation step. On failure the flow enters the failed state and no
// partial result is kept.
func (f *Flow) Encrypt(ctx context.Context) (*vault.EncryptionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fire(ctx, EventEncrypt); err != nil {
		return nil, err
	}

	in := f.input
	res, err := f.pipeline.Encrypt(in.Data, in.Filename, in.MIMEType)
	if err != nil {
		return nil, f.fail(ctx, errors.Join(ErrEncryptFailed, err))
	}
	if err := ctx.Err(); err != nil {
		return nil, f.fail(ctx, errors.Join(ErrEncryptFailed, err))
	}

	f.result = res
	if err := f.fire(ctx, EventEncrypted); err != nil {
		return nil, err
	}
	f.logger.InfoContext(ctx, "file encrypted",
		logger.Filename(res.File.Name),
		logger.Algorithm(res.Algorithm),
		logger.Size(len(res.File.Data)),
	)
	return res, nil
}

// Upload sends the confirmed container to the uploader.
func (f *Flow) Upload(ctx context.Context) (*file.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploader == nil {
		return nil, ErrNoUploader
	}
	if f.result == nil {
		return nil, ErrNothingToStore
	}
	if err := f.fire(ctx, EventUpload); err != nil {
		return nil, err
	}

	key := path.Join(f.prefix, f.id.String(), f.result.File.Name)
	stored, err := f.uploader.Save(ctx, key, f.result.File.Data, f.result.File.MIMEType)
	if err != nil {
		return nil, f.fail(ctx, errors.Join(ErrUploadFailed, err))
	}

	f.stored = stored
	if err := f.fire(ctx, EventUploaded); err != nil {
		return nil, err
	}
	f.logger.InfoContext(ctx, "container uploaded", logger.Filename(stored.RelativePath), logger.Size(int(stored.Size)))
	return stored, nil
}

// Reset returns to idle and drops the selected file and any result.
func (f *Flow) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fsm.Current() == StateIdle {
		return nil
	}
	if err := f.fire(ctx, EventReset); err != nil {
		return err
	}
	f.input, f.result, f.stored, f.err = nil, nil, nil, nil
	return nil
}

// Snapshot returns the current view of the flow.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := Snapshot{
		ID:     f.id.String(),
		State:  f.fsm.Current(),
		Result: f.result,
		Stored: f.stored,
		Err:    f.err,
	}
	if f.input != nil {
		s.Filename = f.input.Filename
		s.Size = len(f.input.Data)
	}
	return s
}

// fire must be called with f.mu held.
func (f *Flow) fire(ctx context.Context, e Event) error {
	if err := f.fsm.Fire(ctx, e, struct{}{}); err != nil {
		return errors.Join(ErrInvalidState, err)
	}
	return nil
}

// fail must be called with f.mu held.
func (f *Flow) fail(ctx context.Context, err error) error {
	f.err = err
	f.result = nil
	if ferr := f.fire(ctx, EventFail); ferr != nil {
		return errors.Join(err, ferr)
	}
	f.logger.ErrorContext(ctx, "upload flow failed", logger.Error(err))
	return err
}
