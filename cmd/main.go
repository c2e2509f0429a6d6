package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airenas/batch-transcriber-wrapper/internal/db"
	"github.com/airenas/batch-transcriber-wrapper/internal/handlers"
	"github.com/airenas/batch-transcriber-wrapper/internal/locale"
	"github.com/airenas/batch-transcriber-wrapper/internal/service"
	"github.com/airenas/batch-transcriber-wrapper/internal/speech"
	"github.com/airenas/batch-transcriber-wrapper/internal/transcription"
	"github.com/airenas/batch-transcriber-wrapper/internal/validate"
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/labstack/gommon/color"
)

func main() {
	goapp.StartWithDefault()

	printBanner()

	cfg := goapp.Config

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	client, err := speech.NewClient(cfg.GetString("speech.url"), cfg.GetString("speech.key"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init speech client")
	}

	textChain, err := handlers.NewListHandler()
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init text handlers")
	}
	textChain.Add(handlers.NewCleaner())

	retriever, err := transcription.NewRetriever(client, transcription.WithTextHandler(textChain))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init retriever")
	}

	localesTTL := cfg.GetDuration("locales.ttl")
	if localesTTL <= 0 {
		localesTTL = time.Hour
	}
	locales, err := locale.NewCache(client.GetLocales, localesTTL)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init locale cache")
	}

	cacheTTL := cfg.GetDuration("cache.ttl")
	if cacheTTL <= 0 {
		cacheTTL = time.Hour * 6
	}
	var cache service.ResultCache
	if url := cfg.GetString("cache.url"); url != "" {
		rCache, err := db.NewRedisResultCache(url, cfg.GetString("cache.key"), cacheTTL)
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't init redis cache")
		}
		defer rCache.Close()
		cache = rCache
	} else {
		cache = db.NewMemoryResultCache(cacheTTL)
	}

	validator, err := validate.NewAudioValidator(
		withDefault(cfg.GetInt64("upload.maxSize"), 100*1024*1024),
		withDefault(cfg.GetInt64("upload.maxBatchSize"), 1024*1024*1024),
		int(withDefault(int64(cfg.GetInt("upload.maxFiles")), 10)))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init validator")
	}

	data := &service.Data{}
	data.Ctx = ctx
	data.Port = cfg.GetInt("port")
	data.Retriever = retriever
	data.Jobs = client
	data.Locales = locales
	data.Cache = cache
	data.Validator = validator
	data.UploadDir = cfg.GetString("upload.dir")
	data.UploadURL = cfg.GetString("upload.url")
	data.PollInterval = cfg.GetDuration("status.pollInterval")

	service.StartCleaner(ctx, data.UploadDir, cfg.GetDuration("upload.ttl"))

	doneCh, err := service.StartWebServer(data)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}

	/////////////////////// Waiting for terminate
	waitCh := make(chan os.Signal, 2)
	signal.Notify(waitCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-waitCh:
		goapp.Log.Info().Msg("Got exit signal")
	case <-doneCh:
		goapp.Log.Info().Msg("Service exit")
	}
	cancelFunc()
	select {
	case <-doneCh:
		goapp.Log.Info().Msg("All code returned. Now exit. Bye")
	case <-time.After(time.Second * 15):
		goapp.Log.Warn().Msg("Timeout gracefull shutdown")
	}
}

func withDefault(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}

var (
	version = "DEV"
)

func printBanner() {
	banner :=
		`
    BATCH TRANSCRIBER WRAPPER v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/airenas/batch-transcriber-wrapper"))
}
