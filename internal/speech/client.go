package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/go-app/pkg/goapp"
)

// ErrJobNotFound - the remote service has no resource with the given id
var ErrJobNotFound = errors.New("job not found")

// ShapeError - the remote response does not match the expected structure
type ShapeError struct {
	Msg string
	Err error
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ShapeError) Unwrap() error { return e.Err }

// Client calls the remote batch speech to text REST API
type Client struct {
	httpclient *http.Client
	url        string
	key        string
	timeout    time.Duration
}

// NewClient creates a batch speech service client
func NewClient(url, key string) (*Client, error) {
	res := Client{}
	if url == "" {
		return nil, fmt.Errorf("no url")
	}
	res.url = strings.TrimSuffix(url, "/")
	res.key = key
	res.timeout = time.Second * 30
	res.httpclient = &http.Client{Transport: newTransport()}
	goapp.Log.Info().Str("url", res.url).Msg("Speech client")
	return &res, nil
}

func newTransport() http.RoundTripper {
	res := http.DefaultTransport.(*http.Transport).Clone()
	res.MaxConnsPerHost = 20
	res.MaxIdleConns = 10
	res.MaxIdleConnsPerHost = 10
	res.IdleConnTimeout = 90 * time.Second
	return res
}

// GetJob fetches the descriptor and status of one transcription job
func (c *Client) GetJob(ctx context.Context, id string) (*api.JobInfo, error) {
	var res jobResponse
	if err := c.invoke(ctx, http.MethodGet, c.url+"/transcriptions/"+id, nil, &res); err != nil {
		return nil, err
	}
	return res.toJobInfo(), nil
}

// ListJobs fetches all transcription jobs
func (c *Client) ListJobs(ctx context.Context) ([]api.JobInfo, error) {
	var res struct {
		Values []jobResponse `json:"values"`
	}
	if err := c.invoke(ctx, http.MethodGet, c.url+"/transcriptions", nil, &res); err != nil {
		return nil, err
	}
	jobs := make([]api.JobInfo, 0, len(res.Values))
	for _, v := range res.Values {
		jobs = append(jobs, *v.toJobInfo())
	}
	return jobs, nil
}

// CreateJob submits a new batch transcription with diarization enabled
func (c *Client) CreateJob(ctx context.Context, req *api.CreateJobRequest) (*api.JobInfo, error) {
	locale := req.Locale
	if locale == "" {
		locale = "en-US"
	}
	body := map[string]interface{}{
		"contentUrls": req.ContentURLs,
		"locale":      locale,
		"displayName": req.DisplayName,
		"properties": map[string]interface{}{
			"diarizationEnabled":         true,
			"wordLevelTimestampsEnabled": true,
			"punctuationMode":            "DictatedAndAutomatic",
		},
	}
	b := new(bytes.Buffer)
	if err := json.NewEncoder(b).Encode(body); err != nil {
		return nil, err
	}
	var res jobResponse
	if err := c.invoke(ctx, http.MethodPost, c.url+"/transcriptions", b, &res); err != nil {
		return nil, err
	}
	return res.toJobInfo(), nil
}

// DeleteJob removes a transcription job from the remote service
func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.invoke(ctx, http.MethodDelete, c.url+"/transcriptions/"+id, nil, nil)
}

// GetResultFiles fetches the result manifest of a completed job
func (c *Client) GetResultFiles(ctx context.Context, id string) ([]api.ResultFile, error) {
	var res struct {
		Values []struct {
			Kind  string `json:"kind"`
			Name  string `json:"name"`
			Links struct {
				ContentURL string `json:"contentUrl"`
			} `json:"links"`
		} `json:"values"`
	}
	if err := c.invoke(ctx, http.MethodGet, c.url+"/transcriptions/"+id+"/files", nil, &res); err != nil {
		return nil, err
	}
	files := make([]api.ResultFile, 0, len(res.Values))
	for _, v := range res.Values {
		files = append(files, api.ResultFile{Kind: v.Kind, Name: v.Name, ContentURL: v.Links.ContentURL})
	}
	return files, nil
}

// GetContent dereferences a manifest content URL into recognized phrases
func (c *Client) GetContent(ctx context.Context, contentURL string) (*api.RecognitionContent, error) {
	var res api.RecognitionContent
	err := c.invoke(ctx, http.MethodGet, contentURL, nil, &res)
	if errors.Is(err, ErrJobNotFound) {
		return nil, &ShapeError{Msg: "transcription content is not available"}
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetLocales fetches distinct recognition locales from the models endpoint
func (c *Client) GetLocales(ctx context.Context) ([]api.LocaleInfo, error) {
	var res struct {
		Values []struct {
			Locale      string `json:"locale"`
			DisplayName string `json:"displayName"`
		} `json:"values"`
	}
	if err := c.invoke(ctx, http.MethodGet, c.url+"/models", nil, &res); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	locales := make([]api.LocaleInfo, 0, len(res.Values))
	for _, v := range res.Values {
		if v.Locale == "" || seen[v.Locale] {
			continue
		}
		seen[v.Locale] = true
		locales = append(locales, api.LocaleInfo{Code: v.Locale, Name: v.DisplayName})
	}
	sort.Slice(locales, func(i, j int) bool { return locales[i].Code < locales[j].Code })
	return locales, nil
}

func (c *Client) invoke(ctx context.Context, method, url string, body io.Reader, out interface{}) error {
	ctx, cancelF := context.WithTimeout(ctx, c.timeout)
	defer cancelF()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if c.key != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return fmt.Errorf("can't invoke '%s': %w", url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1000))
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return ErrJobNotFound
	}
	if err := goapp.ValidateHTTPResp(resp, 100); err != nil {
		return fmt.Errorf("can't invoke '%s': %w", url, err)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ShapeError{Msg: "can't decode response", Err: err}
	}
	return nil
}
