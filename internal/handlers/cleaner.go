package handlers

import (
	"context"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
)

// Cleaner normalizes segment text
type Cleaner struct {
}

// NewCleaner creates a text cleaner
func NewCleaner() *Cleaner {
	res := Cleaner{}
	goapp.Log.Info().Msg("Cleaner")
	return &res
}

func (sp *Cleaner) Process(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.Join(strings.Fields(text), " ")
	return text, nil
}
