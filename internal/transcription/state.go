package transcription

//go:generate stringer -type=State

// State is one step of the result retrieval sequence
type State int

const (
	FetchingStatus State = iota
	FetchingManifest
	FetchingContent
	Done
)
