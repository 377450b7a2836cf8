package scan

import (
	"encoding/json"
	"io"
	"time"

	"github.com/chanscout/chanscout/history"
	"github.com/chanscout/chanscout/resolver"
)

// Channel is one resolved channel in the report.
type Channel struct {
	Name     string            `json:"name"`
	ID       string            `json:"id"`
	PageURL  string            `json:"page_url"`
	MediaURL string            `json:"media_url"`
	Headers  map[string]string `json:"headers,omitempty"`
	// File is the per-channel document name inside the output directory.
	File string `json:"file"`
}

// Report describes the outcome of a run. Resolved and Attempted are always set.
type Report struct {
	Started      time.Time          `json:"started"`
	Finished     time.Time          `json:"finished"`
	Catalog      string             `json:"catalog"`
	Attempted    int                `json:"attempted"`
	Resolved     int                `json:"resolved"`
	Template     string             `json:"template,omitempty"`
	Output       string             `json:"output,omitempty"`
	Published    bool               `json:"published"`
	PublishedTo  string             `json:"published_to,omitempty"`
	PublishError string             `json:"publish_error,omitempty"`
	Canceled     bool               `json:"canceled"`
	Error        string             `json:"error,omitempty"`
	Channels     []Channel          `json:"channels"`
	Warming      []resolver.Attempt `json:"warming,omitempty"`
}

func (r *Report) record() history.Record {
	return history.Record{
		Started:   r.Started,
		Finished:  r.Finished,
		Catalog:   r.Catalog,
		Attempted: r.Attempted,
		Resolved:  r.Resolved,
		Template:  r.Template,
		Output:    r.Output,
		Published: r.Published,
		Canceled:  r.Canceled,
		Error:     r.Error,
	}
}

func writeJson(out io.Writer, report *Report) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
