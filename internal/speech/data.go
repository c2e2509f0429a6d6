package speech

import (
	"strings"

	"github.com/airenas/batch-transcriber-wrapper/internal/api"
)

type jobResponse struct {
	Self        string   `json:"self"`
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Status      string   `json:"status"`
	Locale      string   `json:"locale"`
	ContentURLs []string `json:"contentUrls"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (j *jobResponse) toJobInfo() *api.JobInfo {
	res := &api.JobInfo{
		ID:          j.ID,
		DisplayName: j.DisplayName,
		Status:      j.Status,
		Locale:      j.Locale,
	}
	if j.Self != "" {
		res.ID = j.Self[strings.LastIndex(j.Self, "/")+1:]
	}
	if j.Error != nil {
		res.Error = j.Error.Message
	}
	for _, url := range j.ContentURLs {
		res.Files = append(res.Files, fileNameFromURL(url))
	}
	return res
}

// fileNameFromURL extracts the original file name from a blob URL,
// dropping the query part and the generated unique name prefix
func fileNameFromURL(url string) string {
	name := url
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	name = name[strings.LastIndex(name, "/")+1:]
	if i := strings.Index(name, "_"); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	return name
}
