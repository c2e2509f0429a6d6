package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/batch-transcriber-wrapper/internal/speech"
	"github.com/airenas/batch-transcriber-wrapper/internal/utils"
	"github.com/airenas/batch-transcriber-wrapper/internal/validate"
	"github.com/airenas/go-app/pkg/goapp"

	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ResultRetriever builds job and file scoped transcription results
type ResultRetriever interface {
	GetResults(ctx context.Context, jobID string) (*api.JobResult, error)
	GetResultsByFile(ctx context.Context, jobID string, fileIndex int) (*api.JobResult, error)
}

// JobManager drives the remote job lifecycle
type JobManager interface {
	GetJob(ctx context.Context, id string) (*api.JobInfo, error)
	ListJobs(ctx context.Context) ([]api.JobInfo, error)
	CreateJob(ctx context.Context, req *api.CreateJobRequest) (*api.JobInfo, error)
	DeleteJob(ctx context.Context, id string) error
}

// LocaleProvider returns supported recognition locales
type LocaleProvider interface {
	Get(ctx context.Context) ([]api.LocaleInfo, error)
}

// ResultCache keeps completed job results
type ResultCache interface {
	Get(ctx context.Context, id string) (*api.JobResult, error)
	Save(ctx context.Context, id string, res *api.JobResult) error
}

// FileValidator checks uploaded audio files
type FileValidator interface {
	ValidateCount(count int, mode validate.Mode) error
	ValidateFile(name string, size int64, content io.ReadSeeker, mode validate.Mode) error
}

// Data keeps data required for service work
type Data struct {
	Port int
	Ctx  context.Context

	Retriever ResultRetriever
	Jobs      JobManager
	Locales   LocaleProvider
	Cache     ResultCache
	Validator FileValidator

	UploadDir    string
	UploadURL    string
	PollInterval time.Duration
}

// StartWebServer starts echo web service
func StartWebServer(data *Data) (<-chan struct{}, error) {
	goapp.Log.Info().Msgf("Starting batch transcriber wrapper service at %d", data.Port)
	if err := validateData(data); err != nil {
		return nil, err
	}
	if data.PollInterval <= 0 {
		data.PollInterval = 5 * time.Second
	}

	portStr := strconv.Itoa(data.Port)

	e := initRoutes(data)

	e.Server.Addr = ":" + portStr
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 45 * time.Second

	gracehttp.SetLogger(log.New(goapp.Log, "", 0))

	res := make(chan struct{}, 1)
	go func() {
		defer close(res)
		if err := gracehttp.Serve(e.Server); err != nil {
			goapp.Log.Error().Err(err).Msg("can't start web server")
		}
		goapp.Log.Info().Msg("exit http routine")
	}()
	return res, nil
}

var promMdlw *prometheus.Prometheus

func init() {
	promMdlw = prometheus.NewPrometheus("batch_wrapper", nil)
}

func initRoutes(data *Data) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Logger())
	promMdlw.Use(e)

	e.GET("/live", live(data))
	e.GET("/jobs", listJobs(data))
	e.POST("/jobs", createJob(data))
	e.GET("/jobs/:id", jobStatus(data))
	e.DELETE("/jobs/:id", deleteJob(data))
	e.GET("/jobs/:id/results", jobResults(data))
	e.GET("/supported-locales", supportedLocales(data))
	e.GET("/client/ws/status", statusSubscribe(data))

	goapp.Log.Info().Msg("Routes:")
	for _, r := range e.Routes() {
		goapp.Log.Info().Msgf("  %s %s", r.Method, r.Path)
	}
	return e
}

func live(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"service":"OK"}`))
	}
}

func jobResults(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		ctx, rID := utils.WithRequestID(c.Request().Context())
		jobID := c.Param("id")
		fileStr := c.QueryParam("file")
		goapp.Log.Info().Str("requestID", rID).Str("jobID", jobID).Str("file", fileStr).Msg("results")

		if fileStr != "" {
			fileIndex, err := strconv.Atoi(fileStr)
			if err != nil {
				return c.JSON(http.StatusOK, &api.JobResult{Success: false,
					Message: "Invalid file index", JobID: jobID})
			}
			res, err := data.Retriever.GetResultsByFile(ctx, jobID, fileIndex)
			if err != nil {
				return err
			}
			return c.JSON(http.StatusOK, res)
		}

		if cached := cachedResult(ctx, data, jobID); cached != nil {
			goapp.Log.Debug().Str("jobID", jobID).Msg("serving cached result")
			return c.JSON(http.StatusOK, cached)
		}
		res, err := data.Retriever.GetResults(ctx, jobID)
		if err != nil {
			return err
		}
		if res.Success && data.Cache != nil {
			if err := data.Cache.Save(ctx, jobID, res); err != nil {
				goapp.Log.Error().Err(err).Msg("can't cache result")
			}
		}
		return c.JSON(http.StatusOK, res)
	}
}

func cachedResult(ctx context.Context, data *Data, jobID string) *api.JobResult {
	if data.Cache == nil {
		return nil
	}
	res, err := data.Cache.Get(ctx, jobID)
	if err != nil {
		goapp.Log.Error().Err(err).Msg("can't read result cache")
		return nil
	}
	return res
}

func jobStatus(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		job, err := data.Jobs.GetJob(c.Request().Context(), c.Param("id"))
		if err != nil {
			return jobErr(err)
		}
		return c.JSON(http.StatusOK, job)
	}
}

func listJobs(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		jobs, err := data.Jobs.ListJobs(c.Request().Context())
		if err != nil {
			return jobErr(err)
		}
		return c.JSON(http.StatusOK, jobs)
	}
}

func deleteJob(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		if err := data.Jobs.DeleteJob(c.Request().Context(), c.Param("id")); err != nil {
			return jobErr(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func supportedLocales(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		locales, err := data.Locales.Get(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, locales)
	}
}

func jobErr(err error) error {
	if errors.Is(err, speech.ErrJobNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found")
	}
	return err
}

func validateData(data *Data) error {
	if data.Retriever == nil {
		return fmt.Errorf("no Retriever")
	}
	if data.Jobs == nil {
		return fmt.Errorf("no Jobs")
	}
	if data.Locales == nil {
		return fmt.Errorf("no Locales")
	}
	return nil
}
