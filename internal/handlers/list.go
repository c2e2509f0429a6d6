package handlers

import (
	"context"

	"github.com/airenas/go-app/pkg/goapp"
)

// Handler processes one segment text
type Handler interface {
	Process(context.Context, string) (string, error)
}

// ListHandler passes text through a list of handlers
type ListHandler struct {
	handlers []Handler
}

// NewListHandler creates an empty handler chain
func NewListHandler() (*ListHandler, error) {
	res := &ListHandler{}
	return res, nil
}

func (sp *ListHandler) Process(ctx context.Context, data string) (string, error) {
	dataCopy := data
	for i, h := range sp.handlers {
		goapp.Log.Trace().Int("handler", i).Msg("Processing")
		dataNew, err := h.Process(ctx, dataCopy)
		if err != nil {
			return "", err
		}
		dataCopy = dataNew
	}
	return dataCopy, nil
}

// Add appends a handler to the chain
func (sp *ListHandler) Add(h Handler) {
	sp.handlers = append(sp.handlers, h)
}
