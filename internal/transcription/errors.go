package transcription

import (
	"errors"
	"fmt"
)

// ErrEmptyTranscription - the content decoded to zero usable phrases
var ErrEmptyTranscription = errors.New("empty transcription")

// ErrInvalidFileIndex - caller supplied a file index outside the job's range
var ErrInvalidFileIndex = errors.New("invalid file index")

// NotCompletedError - the job exists but has not reached the success status
type NotCompletedError struct {
	Status string
}

func (e *NotCompletedError) Error() string {
	return fmt.Sprintf("job not completed, status %s", e.Status)
}
