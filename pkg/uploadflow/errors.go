package uploadflow

import "errors"

var (
	ErrNilPipeline    = errors.New("uploadflow: pipeline is required")
	ErrNoUploader     = errors.New("uploadflow: no uploader configured")
	ErrEmptyFile      = errors.New("uploadflow: selected file is empty")
	ErrInvalidState   = errors.New("uploadflow: operation not allowed in current state")
	ErrEncryptFailed  = errors.New("uploadflow: encryption failed")
	ErrUploadFailed   = errors.New("uploadflow: upload failed")
	ErrNothingToStore = errors.New("uploadflow: no encrypted container to upload")
)
