package transcription

import (
	"context"
	"fmt"
	"strings"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/batch-transcriber-wrapper/internal/handlers"
	"github.com/airenas/go-app/pkg/goapp"
)

// assembleFile turns one channel group into a FileView. Segments get line
// numbers 1..N in phrase order, the transcript is the numbered lines joined.
func assembleFile(ctx context.Context, ordinal int, group *channelGroup, label SpeakerLabelFunc,
	textHandler handlers.Handler, names []string) (*api.FileView, error) {
	res := &api.FileView{
		Name:    fileName(ordinal, names),
		Channel: group.channel,
	}
	line := 1
	for _, p := range group.phrases {
		seg, ok := decodeSegment(p, label)
		if !ok {
			goapp.Log.Debug().Int("channel", group.channel).Msg("dropping empty segment without speaker")
			continue
		}
		if textHandler != nil {
			txt, err := textHandler.Process(ctx, seg.Text)
			if err != nil {
				return nil, fmt.Errorf("process text: %w", err)
			}
			seg.Text = txt
		}
		seg.LineNumber = line
		line++
		res.Segments = append(res.Segments, seg)
		if end := seg.OffsetInTicks + seg.DurationInTicks; end > res.DurationInTicks {
			res.DurationInTicks = end
		}
	}
	res.FullTranscript = fullTranscript(res.Segments)
	res.AvailableSpeakers, res.SpeakerStatistics = aggregate(res.Segments)
	return res, nil
}

func fileName(ordinal int, names []string) string {
	if ordinal < len(names) && names[ordinal] != "" {
		return names[ordinal]
	}
	return fmt.Sprintf("File %d", ordinal+1)
}

func fullTranscript(segments []api.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, s := range segments {
		lines = append(lines, fmt.Sprintf("[%s]: %s", s.Speaker, s.Text))
	}
	return strings.Join(lines, "\n")
}
