package transcription

import (
	"github.com/airenas/batch-transcriber-wrapper/internal/api"
)

// channelGroup keeps phrases of one audio channel in their original order
type channelGroup struct {
	channel int
	phrases []api.RecognizedPhrase
}

// groupByChannel partitions phrases by channel value. Group ordinals follow
// the first appearance of each channel in the input - source channel numbers
// need not start at 0 or be contiguous.
func groupByChannel(phrases []api.RecognizedPhrase) ([]*channelGroup, error) {
	if len(phrases) == 0 {
		return nil, ErrEmptyTranscription
	}
	byChannel := map[int]*channelGroup{}
	var res []*channelGroup
	for _, p := range phrases {
		g, ok := byChannel[p.Channel]
		if !ok {
			g = &channelGroup{channel: p.Channel}
			byChannel[p.Channel] = g
			res = append(res, g)
		}
		g.phrases = append(g.phrases, p)
	}
	return res, nil
}
