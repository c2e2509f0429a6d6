package transcription

import (
	"fmt"
	"strings"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
)

// ticksPerSecond - the remote service reports offsets in 100ns ticks
const ticksPerSecond = 10_000_000

// SpeakerLabelFunc turns a raw speaker identifier into a display label.
// known is false when the provider attached no speaker to the phrase.
// The label must be deterministic, labels must sort stably.
type SpeakerLabelFunc func(speaker int, known bool) string

// DefaultSpeakerLabel formats speaker ids the way the provider UI shows them
func DefaultSpeakerLabel(speaker int, known bool) string {
	if !known {
		return "Unknown"
	}
	return fmt.Sprintf("Speaker %d", speaker)
}

func secondsFromTicks(ticks int64) float64 {
	return float64(ticks) / ticksPerSecond
}

func formatStartTime(seconds float64) string {
	s := int64(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// decodeSegment converts one raw phrase into a segment without a line number.
// Returns false for phrases with no text and no recognized speaker - the
// producer side drops such placeholder segments, we do the same.
func decodeSegment(phrase api.RecognizedPhrase, label SpeakerLabelFunc) (api.Segment, bool) {
	var text string
	if len(phrase.NBest) > 0 {
		text = phrase.NBest[0].Display
		if text == "" {
			text = phrase.NBest[0].Lexical
		}
	}
	known := phrase.Speaker != nil
	if strings.TrimSpace(text) == "" && !known {
		return api.Segment{}, false
	}
	var speaker int
	if known {
		speaker = *phrase.Speaker
	}
	start := secondsFromTicks(phrase.OffsetInTicks)
	return api.Segment{
		Speaker:              label(speaker, known),
		Text:                 text,
		OffsetInTicks:        phrase.OffsetInTicks,
		DurationInTicks:      phrase.DurationInTicks,
		StartTimeInSeconds:   start,
		EndTimeInSeconds:     secondsFromTicks(phrase.OffsetInTicks + phrase.DurationInTicks),
		UIFormattedStartTime: formatStartTime(start),
	}, true
}
