package uploadflow

// State is a step of the upload screen.
type State string

const (
	StateIdle         State = "idle"
	StateFileSelected State = "file_selected"
	StateEncrypting   State = "encrypting"
	StateConfirmation State = "encrypted_confirmation"
	StateUploading    State = "uploading"
	StateUploaded     State = "uploaded"
	StateFailed       State = "failed"
)

func (s State) String() string { return string(s) }

// Event moves a flow between states.
type Event string

const (
	EventSelect    Event = "select"
	EventEncrypt   Event = "encrypt"
	EventEncrypted Event = "encrypted"
	EventUpload    Event = "upload"
	EventUploaded  Event = "uploaded"
	EventFail      Event = "fail"
	EventReset     Event = "reset"
)

func (e Event) String() string { return string(e) }

// Terminal reports whether no further work happens without a reset.
func (s State) Terminal() bool {
	return s == StateUploaded || s == StateFailed
}
