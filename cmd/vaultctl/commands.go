package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrymomot/securevault/pkg/container"
	"github.com/dmitrymomot/securevault/pkg/file"
	"github.com/dmitrymomot/securevault/pkg/keygen"
	"github.com/dmitrymomot/securevault/pkg/qrcode"
	"github.com/dmitrymomot/securevault/pkg/secrets"
	"github.com/dmitrymomot/securevault/pkg/uploadflow"
	"github.com/dmitrymomot/securevault/pkg/vault"
)

func (a *app) keygen(_ context.Context, args []string) error {
	fs := a.flagSet("keygen")
	length := fs.Int("length", keygen.DefaultSecretLength, "MFA secret length in Base32 characters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}

	appKey, err := secrets.GenerateKey()
	if err != nil {
		return err
	}
	defer keygen.Wipe(appKey)

	secret, err := keygen.GenerateMFASecret(*length)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "SECRETS_APP_KEY=%s\n", base64.StdEncoding.EncodeToString(appKey))
	fmt.Fprintf(a.stdout, "MFA_SECRET=%s\n", secret)
	return nil
}

func (a *app) encrypt(ctx context.Context, args []string) error {
	fs := a.flagSet("encrypt")
	out := fs.String("o", "", "output path, defaults to the input path plus the vault suffix")
	mimeType := fs.String("mime", "", "MIME type of the input, detected when empty")
	upload := fs.Bool("upload", false, "upload the container to the configured storage instead of writing it locally")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	src := fs.Arg(0)

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	pipeline, err := a.pipeline()
	if err != nil {
		return err
	}

	var (
		res      *vault.EncryptionResult
		location string
	)
	if *upload {
		storage, err := a.storage(ctx)
		if err != nil {
			return err
		}
		flow, err := uploadflow.New(pipeline, uploadflow.WithUploader(storage), uploadflow.WithLogger(a.log))
		if err != nil {
			return err
		}
		if err := flow.Select(ctx, data, filepath.Base(src), *mimeType); err != nil {
			return err
		}
		if res, err = flow.Encrypt(ctx); err != nil {
			return err
		}
		stored, err := flow.Upload(ctx)
		if err != nil {
			return err
		}
		location = storage.URL(stored.RelativePath)
	} else {
		if res, err = pipeline.Encrypt(data, filepath.Base(src), *mimeType); err != nil {
			return err
		}
		location = *out
		if location == "" {
			location = filepath.Join(filepath.Dir(src), res.File.Name)
		}
		if err := writeNew(location, res.File.Data); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.stdout, "container: %s\n", location)
	fmt.Fprintf(a.stdout, "algorithm: %s\n", res.Algorithm)
	fmt.Fprintf(a.stdout, "key:       %s\n", res.Key)
	fmt.Fprintf(a.stdout, "iv:        %s\n", res.IV)
	fmt.Fprintf(a.stdout, "checksum:  %s\n", res.Checksum)
	return nil
}

func (a *app) decrypt(_ context.Context, args []string) error {
	fs := a.flagSet("decrypt")
	key := fs.String("key", "", "Base64 key, prompted for when empty")
	iv := fs.String("iv", "", "Base64 IV, prompted for when empty")
	out := fs.String("o", "", "output path, defaults to the original file name next to the container")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch fs.NArg() {
	case 1:
	case 3:
		*key, *iv = fs.Arg(1), fs.Arg(2)
	default:
		return errUsage
	}
	src := fs.Arg(0)

	blob, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	p := newPrompter(a.stdin, a.stderr)
	if *key == "" {
		if *key, err = p.secret("Key: "); err != nil {
			return err
		}
	}
	if *iv == "" {
		if *iv, err = p.line("IV: "); err != nil {
			return err
		}
	}

	pipeline, err := a.pipeline()
	if err != nil {
		return err
	}
	dec, err := pipeline.Decrypt(blob, *key, *iv)
	if err != nil {
		return err
	}

	dst := *out
	if dst == "" {
		name := filepath.Base(file.SanitizeFilename(dec.Filename))
		if name == "." || name == string(filepath.Separator) {
			name = container.OriginalName(filepath.Base(src), "")
		}
		dst = filepath.Join(filepath.Dir(src), name)
	}
	if err := writeNew(dst, dec.Data); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "file:     %s\n", dst)
	fmt.Fprintf(a.stdout, "type:     %s\n", dec.MIMEType)
	fmt.Fprintf(a.stdout, "checksum: %s\n", dec.Checksum)
	return nil
}

func (a *app) totp(_ context.Context, args []string) error {
	fs := a.flagSet("totp")
	at := fs.String("at", "", "RFC 3339 time to generate the code for, defaults to now")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return errUsage
	}

	t, err := parseTime(*at)
	if err != nil {
		return err
	}
	secret, err := a.secretArg(fs.Arg(0))
	if err != nil {
		return err
	}

	svc, err := a.mfaService(t, false, 0)
	if err != nil {
		return err
	}
	code, err := svc.Code(secret)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, code)
	return nil
}

func (a *app) verify(_ context.Context, args []string) error {
	fs := a.flagSet("verify")
	at := fs.String("at", "", "RFC 3339 time to verify at, defaults to now")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errUsage
	}

	t, err := parseTime(*at)
	if err != nil {
		return err
	}
	secret, err := a.secretArg(fs.Arg(1))
	if err != nil {
		return err
	}

	svc, err := a.mfaService(t, false, 0)
	if err != nil {
		return err
	}
	if !svc.Verify(secret, fs.Arg(0)) {
		return errInvalidCode
	}
	fmt.Fprintln(a.stdout, "valid")
	return nil
}

func (a *app) enroll(_ context.Context, args []string) error {
	fs := a.flagSet("enroll")
	seal := fs.Bool("seal", false, "seal the secret with SECRETS_APP_KEY")
	showQR := fs.Bool("qr", true, "print the provisioning QR code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	svc, err := a.mfaService(time.Time{}, *seal, 0)
	if err != nil {
		return err
	}
	e, err := svc.Begin(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "account: %s\n", e.Account)
	fmt.Fprintf(a.stdout, "secret:  %s\n", e.Secret)
	if e.SealedSecret != "" {
		fmt.Fprintf(a.stdout, "sealed:  %s\n", e.SealedSecret)
	}
	fmt.Fprintf(a.stdout, "uri:     %s\n", e.URI)

	if *showQR {
		qr, err := qrcode.Terminal(e.URI)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout)
		fmt.Fprint(a.stdout, qr)
	}

	if len(e.RecoveryCodes) > 0 {
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, "recovery codes:")
		for i, c := range e.RecoveryCodes {
			fmt.Fprintf(a.stdout, "  %s  %s\n", c, e.RecoveryHashes[i])
		}
	}
	return nil
}

func (a *app) secretArg(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	return newPrompter(a.stdin, a.stderr).secret("Secret: ")
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: -at must be RFC 3339: %v", errUsage, err)
	}
	return t, nil
}

// writeNew refuses to overwrite existing files.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists", path)
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
