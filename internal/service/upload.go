package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/batch-transcriber-wrapper/internal/validate"
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
)

func createJob(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
			return createJobFromUpload(ctx, data, c)
		}
		req := &api.CreateJobRequest{}
		if err := c.Bind(req); err != nil {
			goapp.Log.Error().Err(err).Msg("can't bind request")
			return echo.NewHTTPError(http.StatusBadRequest, "can't parse request")
		}
		if len(req.ContentURLs) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "no content urls")
		}
		job, err := data.Jobs.CreateJob(ctx, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, job)
	}
}

func createJobFromUpload(ctx context.Context, data *Data, c echo.Context) error {
	if data.Validator == nil || data.UploadDir == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "file upload is not enabled")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "can't parse form")
	}
	files := form.File["files"]
	if err := data.Validator.ValidateCount(len(files), validate.ModeBatch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := saveUpload(data, fh)
		if err != nil {
			return err
		}
		urls = append(urls, url)
	}
	req := &api.CreateJobRequest{
		ContentURLs: urls,
		DisplayName: c.FormValue("name"),
		Locale:      c.FormValue("locale"),
	}
	job, err := data.Jobs.CreateJob(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, job)
}

func saveUpload(data *Data, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open '%s': %w", fh.Filename, err)
	}
	defer src.Close()
	if err := data.Validator.ValidateFile(fh.Filename, fh.Size, src, validate.ModeBatch); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	name := ulid.Make().String() + "_" + filepath.Base(fh.Filename)
	dst, err := os.Create(filepath.Join(data.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("create '%s': %w", name, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("save '%s': %w", name, err)
	}
	goapp.Log.Info().Str("file", name).Int64("size", fh.Size).Msg("saved upload")
	return strings.TrimSuffix(data.UploadURL, "/") + "/" + name, nil
}
