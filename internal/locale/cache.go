package locale

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/go-app/pkg/goapp"
)

// FetchFunc loads the supported locales from the remote service
type FetchFunc func(ctx context.Context) ([]api.LocaleInfo, error)

// Cache is a single entry locale cache with a wall clock TTL.
// Read-check-write runs under one lock, expired values are refetched.
type Cache struct {
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time

	lock      sync.Mutex
	value     []api.LocaleInfo
	expiresAt time.Time
}

// NewCache creates a locale cache over the fetch function
func NewCache(fetch FetchFunc, ttl time.Duration) (*Cache, error) {
	if fetch == nil {
		return nil, fmt.Errorf("no fetch func")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{fetch: fetch, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached locales, refetching when the entry expired.
// A failed refetch falls back to the stale value or the static list.
func (c *Cache) Get(ctx context.Context) ([]api.LocaleInfo, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if len(c.value) > 0 && c.now().Before(c.expiresAt) {
		return c.value, nil
	}
	value, err := c.fetch(ctx)
	if err != nil {
		goapp.Log.Error().Err(err).Msg("can't fetch locales")
		if len(c.value) > 0 {
			return c.value, nil
		}
		return commonLocales(), nil
	}
	if len(value) == 0 {
		return commonLocales(), nil
	}
	c.value = value
	c.expiresAt = c.now().Add(c.ttl)
	return c.value, nil
}

// commonLocales is the static fallback when the remote service is unavailable
func commonLocales() []api.LocaleInfo {
	return []api.LocaleInfo{
		{Code: "de-DE", Name: "German (Germany)"},
		{Code: "en-AU", Name: "English (Australia)"},
		{Code: "en-GB", Name: "English (United Kingdom)"},
		{Code: "en-US", Name: "English (United States)"},
		{Code: "es-ES", Name: "Spanish (Spain)"},
		{Code: "es-MX", Name: "Spanish (Mexico)"},
		{Code: "fr-FR", Name: "French (France)"},
		{Code: "it-IT", Name: "Italian (Italy)"},
		{Code: "ja-JP", Name: "Japanese (Japan)"},
		{Code: "ko-KR", Name: "Korean (Korea)"},
		{Code: "lt-LT", Name: "Lithuanian (Lithuania)"},
		{Code: "nl-NL", Name: "Dutch (Netherlands)"},
		{Code: "pl-PL", Name: "Polish (Poland)"},
		{Code: "pt-BR", Name: "Portuguese (Brazil)"},
		{Code: "ru-RU", Name: "Russian (Russia)"},
		{Code: "zh-CN", Name: "Chinese (Mandarin, Simplified)"},
	}
}
