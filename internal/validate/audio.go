package validate

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Mode selects the validation rule set
type Mode string

const (
	// ModeRealtime - single file, small size limit
	ModeRealtime Mode = "realtime"
	// ModeBatch - multiple larger files
	ModeBatch Mode = "batch"
)

type rules struct {
	extensions map[string]bool
	maxSize    int64
	maxFiles   int
}

// AudioValidator checks uploaded audio files before submission
type AudioValidator struct {
	realtime rules
	batch    rules
}

// NewAudioValidator creates a validator with the given size limits in bytes
func NewAudioValidator(realtimeMaxSize, batchMaxSize int64, batchMaxFiles int) (*AudioValidator, error) {
	if realtimeMaxSize <= 0 || batchMaxSize <= 0 {
		return nil, fmt.Errorf("no max size")
	}
	if batchMaxFiles <= 0 {
		return nil, fmt.Errorf("no max files")
	}
	return &AudioValidator{
		realtime: rules{
			extensions: toSet(".wav", ".mp3", ".ogg", ".flac"),
			maxSize:    realtimeMaxSize,
			maxFiles:   1,
		},
		batch: rules{
			extensions: toSet(".wav", ".mp3", ".ogg", ".flac", ".opus", ".m4a", ".webm"),
			maxSize:    batchMaxSize,
			maxFiles:   batchMaxFiles,
		},
	}, nil
}

func toSet(exts ...string) map[string]bool {
	res := make(map[string]bool, len(exts))
	for _, e := range exts {
		res[e] = true
	}
	return res
}

func (v *AudioValidator) rulesFor(mode Mode) rules {
	if mode == ModeBatch {
		return v.batch
	}
	return v.realtime
}

// ValidateCount checks the file count against the mode limit
func (v *AudioValidator) ValidateCount(count int, mode Mode) error {
	r := v.rulesFor(mode)
	if count == 0 {
		return fmt.Errorf("no files provided")
	}
	if count > r.maxFiles {
		return fmt.Errorf("too many files, maximum %d allowed for %s mode", r.maxFiles, mode)
	}
	return nil
}

// ValidateFile checks name, size and, for WAV files, the content header.
// The reader is left at its start position.
func (v *AudioValidator) ValidateFile(name string, size int64, content io.ReadSeeker, mode Mode) error {
	if name == "" {
		return fmt.Errorf("no file name")
	}
	r := v.rulesFor(mode)
	ext := strings.ToLower(filepath.Ext(name))
	if !r.extensions[ext] {
		return fmt.Errorf("invalid file type '%s' for %s mode", ext, mode)
	}
	if size == 0 {
		return fmt.Errorf("file '%s' is empty", name)
	}
	if size > r.maxSize {
		return fmt.Errorf("file '%s' size %d exceeds maximum %d for %s mode", name, size, r.maxSize, mode)
	}
	if ext == ".wav" && content != nil {
		if err := validateWav(content); err != nil {
			return fmt.Errorf("file '%s': %w", name, err)
		}
	}
	return nil
}

func validateWav(content io.ReadSeeker) error {
	defer func() {
		_, _ = content.Seek(0, io.SeekStart)
	}()
	d := wav.NewDecoder(content)
	if !d.IsValidFile() {
		return fmt.Errorf("not a valid wav file")
	}
	buf := &audio.IntBuffer{Data: make([]int, 1024), Format: d.Format()}
	if _, err := d.PCMBuffer(buf); err != nil {
		return fmt.Errorf("can't read wav data: %w", err)
	}
	return nil
}
