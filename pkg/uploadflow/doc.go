// Package uploadflow models the encrypt-then-upload screen as an explicit state object.
//
// A Flow moves through idle, file_selected, encrypting, encrypted_confirmation,
// uploading and uploaded. Any failure while encrypting or uploading moves it to
// failed and drops the partial result. Reset returns to idle from any resting
// state, and a new Select is accepted from idle, confirmation or a terminal state.
//
// The flow owns the EncryptionResult only until Reset or the next Select. The
// caller shows the key and IV to the user and decides when to upload.
//
//	flow, _ := uploadflow.New(pipeline, uploadflow.WithUploader(storage))
//	_ = flow.Select(ctx, data, "report.pdf", "")
//	res, err := flow.Encrypt(ctx)
//	// display res.Key and res.IV, wait for confirmation
//	stored, err := flow.Upload(ctx)
//
// Containers are stored under <prefix>/<flow id>/<name>.svault. Any file.Storage
// can serve as the Uploader.
package uploadflow
