// Package file stores and retrieves encrypted container blobs on local disk or in
// Amazon S3 (and S3-compatible services), and provides the filename and MIME helpers
// used by the encryption pipeline.
//
// Both backends implement Storage. They only ever see ciphertext: the pipeline in
// pkg/vault serializes a container before handing it over, and the decryption key is
// never part of what is stored.
//
// # Architecture
//
//   - file.go  – Storage interface, File metadata, SanitizeFilename, DetectMIMEType, Hash.
//   - local.go – LocalStorage confined to a base directory; writes are atomic
//     (temporary file + rename) so a reader never sees a partial container.
//   - s3.go    – S3Storage on aws-sdk-go-v2 with smithy error classification.
//   - config.go – STORAGE_* configuration and NewFromConfig, which picks the driver.
//
// # Usage
//
//	store, err := file.NewLocalStorage("./vault", "/files/")
//	if err != nil {
//	    return err
//	}
//	meta, err := store.Save(ctx, "2024/report.pdf.svault", res.File.Data, res.File.MIMEType)
//	blob, err := store.Open(ctx, meta.RelativePath)
//
// # Error Handling
//
// Errors wrap package sentinels such as ErrFileNotFound, ErrInvalidPath or
// ErrAccessDenied and can be matched with errors.Is.
package file
