package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultPrompt is the instruction sent when no prompt is configured.
const DefaultPrompt = "Please perform high-fidelity OCR on this page and return markdown with layout."

// SummaryFormats lists the supported batch summary output formats.
var SummaryFormats = []string{"text", "json", "yaml"}

// Validate checks the configuration for values that cannot produce a
// working batch run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url must use http or https, got %q", u.Scheme)
	}

	if c.Server.Model == "" {
		return fmt.Errorf("server.model must not be empty")
	}
	if c.Server.MaxTokens <= 0 {
		return fmt.Errorf("server.max_tokens must be positive, got %d", c.Server.MaxTokens)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}

	if c.Input.Glob == "" {
		return fmt.Errorf("input.glob must not be empty")
	}
	if c.Input.MaxDimension < 0 {
		return fmt.Errorf("input.max_dimension must not be negative, got %d", c.Input.MaxDimension)
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if !validSummaryFormat(c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q",
			strings.Join(SummaryFormats, ", "), c.Output.Format)
	}

	return nil
}

func validSummaryFormat(format string) bool {
	for _, f := range SummaryFormats {
		if format == f {
			return true
		}
	}
	return false
}
