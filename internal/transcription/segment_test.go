package transcription

import (
	"testing"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
)

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		name        string
		phrase      api.RecognizedPhrase
		wantOK      bool
		wantSpeaker string
		wantText    string
	}{
		{name: "with speaker",
			phrase:      phrase(0, ip(3), 0, 10_000_000, "Hello."),
			wantOK:      true,
			wantSpeaker: "Speaker 3",
			wantText:    "Hello.",
		},
		{name: "no speaker",
			phrase:      phrase(0, nil, 0, 10_000_000, "Hello."),
			wantOK:      true,
			wantSpeaker: "Unknown",
			wantText:    "Hello.",
		},
		{name: "empty text no speaker dropped",
			phrase: phrase(0, nil, 0, 10_000_000, "  "),
		},
		{name: "empty text with speaker kept",
			phrase:      phrase(0, ip(1), 0, 10_000_000, ""),
			wantOK:      true,
			wantSpeaker: "Speaker 1",
		},
		{name: "lexical fallback",
			phrase: api.RecognizedPhrase{Speaker: ip(1), OffsetInTicks: 0, DurationInTicks: 10_000_000,
				NBest: []api.NBest{{Display: "", Lexical: "hello"}}},
			wantOK:      true,
			wantSpeaker: "Speaker 1",
			wantText:    "hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeSegment(tt.phrase, DefaultSpeakerLabel)
			if ok != tt.wantOK {
				t.Fatalf("decodeSegment() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Speaker != tt.wantSpeaker {
				t.Errorf("Speaker = %s, want %s", got.Speaker, tt.wantSpeaker)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %s, want %s", got.Text, tt.wantText)
			}
		})
	}
}

func TestDecodeSegment_Times(t *testing.T) {
	got, ok := decodeSegment(phrase(0, ip(1), 36_610_000_000, 25_000_000, "Hello."), DefaultSpeakerLabel)
	if !ok {
		t.Fatal("decodeSegment() dropped segment")
	}
	if got.StartTimeInSeconds != 3661.0 {
		t.Errorf("StartTimeInSeconds = %f, want 3661.0", got.StartTimeInSeconds)
	}
	if got.EndTimeInSeconds != 3663.5 {
		t.Errorf("EndTimeInSeconds = %f, want 3663.5", got.EndTimeInSeconds)
	}
	if got.UIFormattedStartTime != "01:01:01" {
		t.Errorf("UIFormattedStartTime = %s, want 01:01:01", got.UIFormattedStartTime)
	}
}

func TestFormatStartTime(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00:00"},
		{name: "truncates", seconds: 59.9, want: "00:00:59"},
		{name: "minutes", seconds: 125, want: "00:02:05"},
		{name: "hours", seconds: 7384, want: "02:03:04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStartTime(tt.seconds); got != tt.want {
				t.Errorf("formatStartTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
