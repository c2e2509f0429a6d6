package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
)

// StartCleaner periodically removes stale files from the upload dir
func StartCleaner(ctx context.Context, dir string, ttl time.Duration) {
	if dir == "" || ttl <= 0 {
		return
	}
	goapp.Log.Info().Str("dir", dir).Dur("ttl", ttl).Msg("starting upload cleaner")
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			cleanDir(dir, time.Now().Add(-ttl))
			select {
			case <-ctx.Done():
				goapp.Log.Info().Msg("cleaner stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

func cleanDir(dir string, olderThan time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		goapp.Log.Error().Err(err).Str("dir", dir).Msg("can't read upload dir")
		return
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(olderThan) {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				goapp.Log.Error().Err(err).Str("file", e.Name()).Msg("can't remove")
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		goapp.Log.Info().Int("removed", removed).Msg("cleaned upload dir")
	}
}
