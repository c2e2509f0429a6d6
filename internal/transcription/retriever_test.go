package transcription

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
	"github.com/airenas/batch-transcriber-wrapper/internal/speech"
)

type fakeJobs struct {
	job        *api.JobInfo
	jobErr     error
	files      []api.ResultFile
	filesErr   error
	content    *api.RecognitionContent
	contentErr error

	jobCalls     int
	fileCalls    int
	contentCalls int
}

func (f *fakeJobs) GetJob(ctx context.Context, id string) (*api.JobInfo, error) {
	f.jobCalls++
	return f.job, f.jobErr
}

func (f *fakeJobs) GetResultFiles(ctx context.Context, id string) ([]api.ResultFile, error) {
	f.fileCalls++
	return f.files, f.filesErr
}

func (f *fakeJobs) GetContent(ctx context.Context, contentURL string) (*api.RecognitionContent, error) {
	f.contentCalls++
	return f.content, f.contentErr
}

func succeededJobs(phrases ...api.RecognizedPhrase) *fakeJobs {
	return &fakeJobs{
		job:     &api.JobInfo{ID: "j1", DisplayName: "test job", Status: api.StatusSucceeded},
		files:   []api.ResultFile{{Kind: api.KindTranscription, Name: "res", ContentURL: "http://res"}},
		content: &api.RecognitionContent{RecognizedPhrases: phrases},
	}
}

func ip(v int) *int { return &v }

func phrase(channel int, speaker *int, offset, duration int64, text string) api.RecognizedPhrase {
	return api.RecognizedPhrase{
		Channel:         channel,
		Speaker:         speaker,
		OffsetInTicks:   offset,
		DurationInTicks: duration,
		NBest:           []api.NBest{{Display: text, Lexical: text}},
	}
}

func TestRetriever_GetResults_TwoChannels(t *testing.T) {
	jobs := succeededJobs(
		phrase(0, ip(1), 0, 10_000_000, "Hello."),
		phrase(1, ip(1), 5_000_000, 10_000_000, "Hi there."),
		phrase(0, ip(1), 20_000_000, 10_000_000, "How are you?"),
		phrase(1, ip(2), 35_000_000, 10_000_000, "Fine."),
	)
	r, err := NewRetriever(jobs)
	if err != nil {
		t.Fatalf("NewRetriever() failed: %v", err)
	}
	got, err := r.GetResults(context.Background(), "j1")
	if err != nil {
		t.Fatalf("GetResults() failed: %v", err)
	}
	if !got.Success {
		t.Fatalf("GetResults() not successful: %s", got.Message)
	}
	if got.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", got.TotalFiles)
	}
	if len(got.Segments) != 4 {
		t.Fatalf("len(Segments) = %d, want 4", len(got.Segments))
	}
	for i, s := range got.Segments {
		if s.LineNumber != i+1 {
			t.Errorf("Segments[%d].LineNumber = %d, want %d", i, s.LineNumber, i+1)
		}
	}
	if got.DisplayName != "test job" {
		t.Errorf("DisplayName = %s, want test job", got.DisplayName)
	}
	for fi, f := range got.Files {
		for i, s := range f.Segments {
			if s.LineNumber != i+1 {
				t.Errorf("Files[%d].Segments[%d].LineNumber = %d, want %d", fi, i, s.LineNumber, i+1)
			}
		}
	}
	if got.Files[0].Channel != 0 || got.Files[1].Channel != 1 {
		t.Errorf("channels = %d, %d, want 0, 1", got.Files[0].Channel, got.Files[1].Channel)
	}
}

func TestRetriever_GetResults_SpeakerStats(t *testing.T) {
	jobs := succeededJobs(phrase(0, ip(1), 0, 10_000_000, "Hello."))
	r, _ := NewRetriever(jobs)
	got, err := r.GetResults(context.Background(), "j1")
	if err != nil {
		t.Fatalf("GetResults() failed: %v", err)
	}
	if len(got.SpeakerStatistics) != 1 {
		t.Fatalf("len(SpeakerStatistics) = %d, want 1", len(got.SpeakerStatistics))
	}
	st := got.SpeakerStatistics[0]
	if st.Name != "Speaker 1" {
		t.Errorf("Name = %s, want Speaker 1", st.Name)
	}
	if st.SegmentCount != 1 {
		t.Errorf("SegmentCount = %d, want 1", st.SegmentCount)
	}
	if st.TotalSpeakTimeSeconds != 1.0 {
		t.Errorf("TotalSpeakTimeSeconds = %f, want 1.0", st.TotalSpeakTimeSeconds)
	}
	if st.FirstAppearanceSeconds != 0.0 {
		t.Errorf("FirstAppearanceSeconds = %f, want 0.0", st.FirstAppearanceSeconds)
	}
	if len(got.AvailableSpeakers) != 1 || got.AvailableSpeakers[0] != "Speaker 1" {
		t.Errorf("AvailableSpeakers = %v, want [Speaker 1]", got.AvailableSpeakers)
	}
}

func TestRetriever_GetResultsByFile(t *testing.T) {
	tests := []struct {
		name        string
		fileIndex   int
		wantOK      bool
		wantMessage string
	}{
		{name: "first", fileIndex: 0, wantOK: true},
		{name: "second", fileIndex: 1, wantOK: true},
		{name: "too big", fileIndex: 5, wantMessage: "Invalid file index"},
		{name: "negative", fileIndex: -1, wantMessage: "Invalid file index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := succeededJobs(
				phrase(0, ip(1), 0, 10_000_000, "Hello."),
				phrase(1, ip(1), 5_000_000, 10_000_000, "Hi."),
			)
			r, _ := NewRetriever(jobs)
			got, err := r.GetResultsByFile(context.Background(), "j1", tt.fileIndex)
			if err != nil {
				t.Fatalf("GetResultsByFile() failed: %v", err)
			}
			if got.Success != tt.wantOK {
				t.Fatalf("Success = %v, want %v, msg: %s", got.Success, tt.wantOK, got.Message)
			}
			if !tt.wantOK {
				if got.Message != tt.wantMessage {
					t.Errorf("Message = %s, want %s", got.Message, tt.wantMessage)
				}
				return
			}
			if got.TotalFiles != 1 {
				t.Errorf("TotalFiles = %d, want 1", got.TotalFiles)
			}
			if len(got.Files) != 1 {
				t.Fatalf("len(Files) = %d, want 1", len(got.Files))
			}
			if len(got.Segments) != 1 || got.Segments[0].LineNumber != 1 {
				t.Errorf("Segments = %v, want one segment numbered 1", got.Segments)
			}
		})
	}
}

func TestRetriever_GetResults_Failures(t *testing.T) {
	tests := []struct {
		name          string
		jobs          *fakeJobs
		wantMessage   string
		wantFileCalls int
	}{
		{name: "not completed",
			jobs:        &fakeJobs{job: &api.JobInfo{ID: "j1", Status: api.StatusRunning}},
			wantMessage: "Job is not completed yet. Current status: Running",
		},
		{name: "not found",
			jobs:        &fakeJobs{jobErr: speech.ErrJobNotFound},
			wantMessage: "Job not found",
		},
		{name: "no transcription in manifest",
			jobs: &fakeJobs{
				job:   &api.JobInfo{ID: "j1", Status: api.StatusSucceeded},
				files: []api.ResultFile{{Kind: "TranscriptionReport", ContentURL: "http://rep"}},
			},
			wantMessage:   "No transcription results found",
			wantFileCalls: 1,
		},
		{name: "empty content",
			jobs:          succeededJobs(),
			wantMessage:   "No transcription data found in result files",
			wantFileCalls: 1,
		},
		{name: "transport failure",
			jobs:        &fakeJobs{jobErr: fmt.Errorf("connection refused")},
			wantMessage: "Can't reach speech service",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := NewRetriever(tt.jobs)
			got, err := r.GetResults(context.Background(), "j1")
			if err != nil {
				t.Fatalf("GetResults() failed: %v", err)
			}
			if got.Success {
				t.Fatal("GetResults() succeeded unexpectedly")
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %s, want %s", got.Message, tt.wantMessage)
			}
			if got.JobID != "j1" {
				t.Errorf("JobID = %s, want j1", got.JobID)
			}
			if tt.jobs.fileCalls != tt.wantFileCalls {
				t.Errorf("fileCalls = %d, want %d", tt.jobs.fileCalls, tt.wantFileCalls)
			}
		})
	}
}

func TestRetriever_GetResults_StopsAfterStatus(t *testing.T) {
	jobs := &fakeJobs{job: &api.JobInfo{ID: "j1", Status: api.StatusRunning}}
	r, _ := NewRetriever(jobs)
	if _, err := r.GetResults(context.Background(), "j1"); err != nil {
		t.Fatalf("GetResults() failed: %v", err)
	}
	if jobs.jobCalls != 1 {
		t.Errorf("jobCalls = %d, want 1", jobs.jobCalls)
	}
	if jobs.fileCalls != 0 || jobs.contentCalls != 0 {
		t.Errorf("calls after failed status check: files %d, content %d, want 0, 0",
			jobs.fileCalls, jobs.contentCalls)
	}
}

func TestRetriever_GetResults_Canceled(t *testing.T) {
	jobs := succeededJobs(phrase(0, ip(1), 0, 10_000_000, "Hello."))
	r, _ := NewRetriever(jobs)
	ctx, cancelF := context.WithCancel(context.Background())
	cancelF()
	got, err := r.GetResults(ctx, "j1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got != nil {
		t.Errorf("result = %v, want nil", got)
	}
}

func TestRetriever_GetResults_CustomLabel(t *testing.T) {
	jobs := succeededJobs(phrase(0, ip(2), 0, 10_000_000, "Labas."))
	r, _ := NewRetriever(jobs, WithSpeakerLabel(func(speaker int, known bool) string {
		if !known {
			return "???"
		}
		return fmt.Sprintf("S%d", speaker)
	}))
	got, err := r.GetResults(context.Background(), "j1")
	if err != nil {
		t.Fatalf("GetResults() failed: %v", err)
	}
	if got.Segments[0].Speaker != "S2" {
		t.Errorf("Speaker = %s, want S2", got.Segments[0].Speaker)
	}
}

func TestNewRetriever_NoService(t *testing.T) {
	if _, err := NewRetriever(nil); err == nil {
		t.Fatal("NewRetriever() succeeded unexpectedly")
	}
}
