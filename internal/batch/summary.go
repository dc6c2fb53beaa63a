package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Status classifies one item outcome.
type Status string

const (
	// StatusSuccess marks an image whose response was persisted.
	StatusSuccess Status = "success"
	// StatusFailed marks an image whose processing failed at any stage.
	StatusFailed Status = "failed"
)

// ItemOutcome records the result of one image, in arrival order.
type ItemOutcome struct {
	Path   string `json:"path" yaml:"path"`
	Status Status `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`

	// Preview carries the bounded text preview shown to the operator;
	// it is not part of the persisted summary.
	Preview string `json:"-" yaml:"-"`
}

// Summary is the terminal artifact of a batch run: every recorded
// outcome in arrival order.
type Summary struct {
	Outcomes []ItemOutcome `json:"items" yaml:"items"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Succeeded returns the number of successful outcomes.
func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// Failed returns the number of failed outcomes.
func (s *Summary) Failed() int {
	return len(s.Outcomes) - s.Succeeded()
}

// Format renders the summary in the given format: text, json or yaml.
func (s *Summary) Format(format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to format summary as JSON: %w", err)
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(s)
		if err != nil {
			return "", fmt.Errorf("failed to format summary as YAML: %w", err)
		}
		return string(data), nil
	default: // text
		return s.formatText(), nil
	}
}

func (s *Summary) formatText() string {
	out := "\n=== Batch Summary ===\n"
	for _, o := range s.Outcomes {
		if o.Status == StatusSuccess {
			out += fmt.Sprintf("%s: success\n", o.Path)
		} else {
			out += fmt.Sprintf("%s: failed - %s\n", o.Path, o.Error)
		}
	}
	return out
}

// PrintStats writes a one-line run digest.
func (s *Summary) PrintStats(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Processed %d images: %d succeeded, %d failed in %v\n",
		len(s.Outcomes), s.Succeeded(), s.Failed(), s.Duration.Round(time.Millisecond))
}
