package transcription

import (
	"sort"
	"strings"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
)

type speakerAccum struct {
	count    int
	total    float64
	minStart float64
}

// aggregate computes the speaker set and per speaker totals for one scope
// in a single pass. Speakers are sorted lexicographically, statistics by
// first appearance, ties by name.
func aggregate(segments []api.Segment) ([]string, []api.SpeakerStat) {
	accums := map[string]*speakerAccum{}
	for _, s := range segments {
		if strings.TrimSpace(s.Speaker) == "" {
			continue
		}
		a, ok := accums[s.Speaker]
		if !ok {
			a = &speakerAccum{minStart: s.StartTimeInSeconds}
			accums[s.Speaker] = a
		}
		a.count++
		a.total += s.EndTimeInSeconds - s.StartTimeInSeconds
		if s.StartTimeInSeconds < a.minStart {
			a.minStart = s.StartTimeInSeconds
		}
	}

	speakers := make([]string, 0, len(accums))
	stats := make([]api.SpeakerStat, 0, len(accums))
	for name, a := range accums {
		speakers = append(speakers, name)
		stats = append(stats, api.SpeakerStat{
			Name:                   name,
			SegmentCount:           a.count,
			TotalSpeakTimeSeconds:  a.total,
			FirstAppearanceSeconds: a.minStart,
		})
	}
	sort.Strings(speakers)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].FirstAppearanceSeconds != stats[j].FirstAppearanceSeconds {
			return stats[i].FirstAppearanceSeconds < stats[j].FirstAppearanceSeconds
		}
		return stats[i].Name < stats[j].Name
	})
	return speakers, stats
}
