package transcription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/batch-transcriber-wrapper/internal/handlers"
	"github.com/airenas/batch-transcriber-wrapper/internal/speech"
	"github.com/airenas/batch-transcriber-wrapper/internal/utils"
	"github.com/airenas/go-app/pkg/goapp"
)

// JobService provides the three remote calls of the retrieval sequence
type JobService interface {
	GetJob(ctx context.Context, id string) (*api.JobInfo, error)
	GetResultFiles(ctx context.Context, id string) ([]api.ResultFile, error)
	GetContent(ctx context.Context, contentURL string) (*api.RecognitionContent, error)
}

// Retriever fetches transcription results and builds job/file views
type Retriever struct {
	jobs        JobService
	label       SpeakerLabelFunc
	textHandler handlers.Handler
}

// Option configures a Retriever
type Option func(*Retriever)

// WithSpeakerLabel overrides the default speaker label format
func WithSpeakerLabel(f SpeakerLabelFunc) Option {
	return func(r *Retriever) {
		if f != nil {
			r.label = f
		}
	}
}

// WithTextHandler sets a post processing chain applied to every segment text
func WithTextHandler(h handlers.Handler) Option {
	return func(r *Retriever) { r.textHandler = h }
}

// NewRetriever creates a result retriever over the remote job service
func NewRetriever(jobs JobService, opts ...Option) (*Retriever, error) {
	if jobs == nil {
		return nil, fmt.Errorf("no job service")
	}
	res := &Retriever{jobs: jobs, label: DefaultSpeakerLabel}
	for _, o := range opts {
		o(res)
	}
	return res, nil
}

type fetched struct {
	job     *api.JobInfo
	content *api.RecognitionContent
}

// GetResults retrieves the whole job view - all channels merged.
// Pipeline failures are reported inside JobResult, the returned error is
// non nil only on cancellation.
func (r *Retriever) GetResults(ctx context.Context, jobID string) (*api.JobResult, error) {
	defer utils.MeasureTime("getResults", time.Now())
	f, err := r.fetch(ctx, jobID)
	if err != nil {
		return failResult(ctx, jobID, f, err)
	}
	views, err := r.buildViews(ctx, f)
	if err != nil {
		return failResult(ctx, jobID, f, err)
	}
	res := mergeViews(views)
	res.Success = true
	res.JobID = jobID
	res.DisplayName = f.job.DisplayName
	res.Message = fmt.Sprintf("Retrieved %d segments from %d file(s)", len(res.Segments), len(views))
	return res, nil
}

// GetResultsByFile retrieves the view of a single channel/file. The index is
// validated against the channel count, which is known only after the fetch.
func (r *Retriever) GetResultsByFile(ctx context.Context, jobID string, fileIndex int) (*api.JobResult, error) {
	defer utils.MeasureTime("getResultsByFile", time.Now())
	f, err := r.fetch(ctx, jobID)
	if err != nil {
		return failResult(ctx, jobID, f, err)
	}
	views, err := r.buildViews(ctx, f)
	if err != nil {
		return failResult(ctx, jobID, f, err)
	}
	if fileIndex < 0 || fileIndex >= len(views) {
		goapp.Log.Warn().Int("fileIndex", fileIndex).Int("files", len(views)).Msg("index out of range")
		return failResult(ctx, jobID, f, ErrInvalidFileIndex)
	}
	v := views[fileIndex]
	return &api.JobResult{
		Success:           true,
		Message:           fmt.Sprintf("Retrieved %d segments from '%s'", len(v.Segments), v.Name),
		JobID:             jobID,
		DisplayName:       f.job.DisplayName,
		Segments:          v.Segments,
		FullTranscript:    v.FullTranscript,
		AvailableSpeakers: v.AvailableSpeakers,
		SpeakerStatistics: v.SpeakerStatistics,
		Files:             []api.FileView{v},
		TotalFiles:        1,
	}, nil
}

// fetch walks the retrieval sequence: job status, result manifest,
// transcription content. Every step gates the next one.
func (r *Retriever) fetch(ctx context.Context, jobID string) (*fetched, error) {
	res := &fetched{}
	var contentURL string
	for st := FetchingStatus; ; {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		goapp.Log.Debug().Str("jobID", jobID).Str("state", st.String()).Msg("retrieve")
		switch st {
		case FetchingStatus:
			job, err := r.jobs.GetJob(ctx, jobID)
			if err != nil {
				return res, fmt.Errorf("get job '%s': %w", jobID, err)
			}
			res.job = job
			if job.Status != api.StatusSucceeded {
				return res, fmt.Errorf("job '%s': %w", jobID, &NotCompletedError{Status: job.Status})
			}
			st = FetchingManifest
		case FetchingManifest:
			files, err := r.jobs.GetResultFiles(ctx, jobID)
			if err != nil {
				return res, fmt.Errorf("get result files '%s': %w", jobID, err)
			}
			contentURL = transcriptionURL(files)
			if contentURL == "" {
				return res, &speech.ShapeError{Msg: "no transcription entry in result manifest"}
			}
			st = FetchingContent
		case FetchingContent:
			content, err := r.jobs.GetContent(ctx, contentURL)
			if err != nil {
				return res, fmt.Errorf("get content: %w", err)
			}
			res.content = content
			st = Done
		case Done:
			return res, nil
		}
	}
}

func transcriptionURL(files []api.ResultFile) string {
	for _, f := range files {
		if f.Kind == api.KindTranscription {
			return f.ContentURL
		}
	}
	return ""
}

func (r *Retriever) buildViews(ctx context.Context, f *fetched) ([]api.FileView, error) {
	groups, err := groupByChannel(f.content.RecognizedPhrases)
	if err != nil {
		return nil, err
	}
	views := make([]api.FileView, 0, len(groups))
	segments := 0
	for i, g := range groups {
		v, err := assembleFile(ctx, i, g, r.label, r.textHandler, f.job.Files)
		if err != nil {
			return nil, err
		}
		segments += len(v.Segments)
		views = append(views, *v)
	}
	if segments == 0 {
		return nil, ErrEmptyTranscription
	}
	return views, nil
}

// mergeViews concatenates file segments in ordinal order, renumbers them and
// recomputes the merged transcript and statistics
func mergeViews(views []api.FileView) *api.JobResult {
	res := &api.JobResult{Files: views, TotalFiles: len(views)}
	for _, v := range views {
		res.Segments = append(res.Segments, v.Segments...)
	}
	for i := range res.Segments {
		res.Segments[i].LineNumber = i + 1
	}
	res.FullTranscript = fullTranscript(res.Segments)
	res.AvailableSpeakers, res.SpeakerStatistics = aggregate(res.Segments)
	return res
}

// failResult encodes a pipeline failure into the result. Cancellation is the
// one condition propagated as an error instead.
func failResult(ctx context.Context, jobID string, f *fetched, err error) (*api.JobResult, error) {
	if cErr := ctx.Err(); cErr != nil {
		return nil, cErr
	}
	if errors.Is(err, context.Canceled) {
		return nil, err
	}
	goapp.Log.Error().Err(err).Str("jobID", jobID).Msg("can't retrieve results")
	res := &api.JobResult{Success: false, Message: messageFor(err), JobID: jobID}
	if f != nil && f.job != nil {
		res.DisplayName = f.job.DisplayName
	}
	return res, nil
}

func messageFor(err error) string {
	var ncErr *NotCompletedError
	var shErr *speech.ShapeError
	switch {
	case errors.Is(err, speech.ErrJobNotFound):
		return "Job not found"
	case errors.As(err, &ncErr):
		return fmt.Sprintf("Job is not completed yet. Current status: %s", ncErr.Status)
	case errors.As(err, &shErr):
		return "No transcription results found"
	case errors.Is(err, ErrEmptyTranscription):
		return "No transcription data found in result files"
	case errors.Is(err, ErrInvalidFileIndex):
		return "Invalid file index"
	}
	return "Can't reach speech service"
}
