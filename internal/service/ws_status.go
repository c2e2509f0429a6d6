package service

import (
	"net/http"
	"time"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

// statusSubscribe pushes remote job status updates over a websocket until
// the job reaches a terminal state or the client goes away
func statusSubscribe(data *Data) func(echo.Context) error {
	return func(c echo.Context) error {
		jobID := c.QueryParam("id")
		if jobID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "no job id")
		}
		ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			goapp.Log.Error().Err(err).Send()
			return err
		}
		defer ws.Close()

		return pushStatus(data, ws, jobID)
	}
}

func pushStatus(data *Data, ws *websocket.Conn, jobID string) error {
	goapp.Log.Info().Str("jobID", jobID).Msg("status subscription started")
	defer goapp.Log.Info().Str("jobID", jobID).Msg("status subscription ended")

	ticker := time.NewTicker(data.PollInterval)
	defer ticker.Stop()

	last := ""
	for {
		job, err := data.Jobs.GetJob(data.Ctx, jobID)
		if err != nil {
			goapp.Log.Error().Err(err).Str("jobID", jobID).Msg("can't get job status")
			_ = ws.WriteJSON(&api.JobInfo{ID: jobID, Status: "Unknown", Error: "can't get job status"})
			return err
		}
		if job.Status != last {
			last = job.Status
			if err := ws.WriteJSON(job); err != nil {
				goapp.Log.Info().Err(err).Msg("write failed, client gone")
				return nil
			}
		}
		if terminal(job.Status) {
			return nil
		}
		select {
		case <-data.Ctx.Done():
			goapp.Log.Info().Msg("context canceled")
			return nil
		case <-ticker.C:
		}
	}
}

func terminal(status string) bool {
	return status == api.StatusSucceeded || status == api.StatusFailed
}
