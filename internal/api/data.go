package api

// Segment is one diarized utterance prepared for the UI
type Segment struct {
	LineNumber      int    `json:"lineNumber"`
	Speaker         string `json:"speaker"`
	Text            string `json:"text"`
	OffsetInTicks   int64  `json:"offsetInTicks"`
	DurationInTicks int64  `json:"durationInTicks"`

	StartTimeInSeconds   float64 `json:"startTimeInSeconds"`
	EndTimeInSeconds     float64 `json:"endTimeInSeconds"`
	UIFormattedStartTime string  `json:"uiFormattedStartTime"`

	// edit tracking, empty until a caller modifies the segment
	OriginalSpeaker string `json:"originalSpeaker,omitempty"`
	OriginalText    string `json:"originalText,omitempty"`

	SpeakerWasChanged bool `json:"speakerWasChanged"`
	TextWasChanged    bool `json:"textWasChanged"`
}

// SpeakerStat holds per speaker totals within one result scope
type SpeakerStat struct {
	Name                   string  `json:"name"`
	SegmentCount           int     `json:"segmentCount"`
	TotalSpeakTimeSeconds  float64 `json:"totalSpeakTimeSeconds"`
	FirstAppearanceSeconds float64 `json:"firstAppearanceSeconds"`
}

// FileView is the per channel slice of a job result
type FileView struct {
	Name              string        `json:"name"`
	Channel           int           `json:"channel"`
	Segments          []Segment     `json:"segments"`
	FullTranscript    string        `json:"fullTranscript"`
	AvailableSpeakers []string      `json:"availableSpeakers"`
	SpeakerStatistics []SpeakerStat `json:"speakerStatistics"`
	DurationInTicks   int64         `json:"durationInTicks"`
}

// JobResult is the complete outcome of a results retrieval
type JobResult struct {
	Success           bool          `json:"success"`
	Message           string        `json:"message"`
	JobID             string        `json:"jobId"`
	DisplayName       string        `json:"displayName"`
	Segments          []Segment     `json:"segments"`
	FullTranscript    string        `json:"fullTranscript"`
	AvailableSpeakers []string      `json:"availableSpeakers"`
	SpeakerStatistics []SpeakerStat `json:"speakerStatistics"`
	Files             []FileView    `json:"files"`
	TotalFiles        int           `json:"totalFiles"`
}

// JobInfo is the remote job descriptor
type JobInfo struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Status      string   `json:"status"`
	Locale      string   `json:"locale,omitempty"`
	Error       string   `json:"error,omitempty"`
	Files       []string `json:"files,omitempty"`
}

// job status values of the remote service
const (
	StatusNotStarted = "NotStarted"
	StatusRunning    = "Running"
	StatusSucceeded  = "Succeeded"
	StatusFailed     = "Failed"
)

// ResultFile is one entry of the job result manifest
type ResultFile struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	ContentURL string `json:"contentUrl"`
}

// KindTranscription marks the manifest entry holding recognized phrases
const KindTranscription = "Transcription"

// RecognizedPhrase is one raw utterance as delivered by the remote service
type RecognizedPhrase struct {
	Channel         int     `json:"channel"`
	Speaker         *int    `json:"speaker"`
	OffsetInTicks   int64   `json:"offsetInTicks"`
	DurationInTicks int64   `json:"durationInTicks"`
	NBest           []NBest `json:"nBest"`
}

// NBest is one recognition candidate of a phrase
type NBest struct {
	Display string `json:"display"`
	Lexical string `json:"lexical"`
}

// RecognitionContent is the transcription content file shape
type RecognitionContent struct {
	RecognizedPhrases []RecognizedPhrase `json:"recognizedPhrases"`
}

// LocaleInfo describes one supported recognition locale
type LocaleInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateJobRequest is the body for submitting a new batch job
type CreateJobRequest struct {
	ContentURLs []string `json:"contentUrls"`
	DisplayName string   `json:"displayName"`
	Locale      string   `json:"locale"`
}
