// Package batch drives the OCR pipeline over a resolved image set:
// one sequential pass, per-item failure isolation, optional fail-fast,
// and a terminal run summary.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/remocr/internal/metrics"
	"github.com/MeKo-Tech/remocr/internal/output"
	"github.com/MeKo-Tech/remocr/internal/pdfx"
	"github.com/MeKo-Tech/remocr/internal/remote"
	"github.com/MeKo-Tech/remocr/internal/resolve"
)

// ErrNoImages terminates a run whose resolved image set is empty.
var ErrNoImages = errors.New("no images found to process")

// Run executes a full batch: resolve inputs, process each image in
// order, and print the summary to out. Item failures are recorded and
// reported, not returned; the returned error is reserved for run-fatal
// conditions (empty image set, bad glob, unformattable summary).
func Run(ctx context.Context, cfg *Config, out, errOut io.Writer) (*Summary, error) {
	images, err := resolve.Images(cfg.Images, cfg.InputDir, cfg.Glob, cfg.DefaultImage)
	if err != nil {
		return nil, err
	}

	entries := pdfx.Expand(images, filepath.Join(cfg.OutputDir, "pages"))
	if !hasWork(entries) {
		return nil, ErrNoImages
	}

	if cfg.MetricsAddr != "" {
		stop := metrics.Serve(cfg.MetricsAddr)
		defer stop()
	}

	client := remote.NewClient(cfg.Server)
	summary := &Summary{}
	start := time.Now()

	halted := false
	for _, entry := range entries {
		if halted {
			break
		}
		if entry.Err != nil {
			recordOutcome(summary, failedOutcome(entry.Path, entry.Err), cfg, out, errOut)
			halted = cfg.FailFast
			continue
		}
		for _, image := range entry.Images {
			outcome := processItem(ctx, client, cfg, image)
			recordOutcome(summary, outcome, cfg, out, errOut)
			if outcome.Status == StatusFailed && cfg.FailFast {
				halted = true
				break
			}
		}
	}

	summary.Duration = time.Since(start)

	rendered, err := summary.Format(cfg.Format)
	if err != nil {
		return summary, err
	}
	_, _ = fmt.Fprint(out, rendered)
	if !cfg.Quiet {
		summary.PrintStats(out)
	}

	return summary, nil
}

// hasWork reports whether the expanded set yields at least one item to
// process or report. A PDF with no embedded page images contributes
// nothing.
func hasWork(entries []pdfx.Entry) bool {
	for _, e := range entries {
		if e.Err != nil || len(e.Images) > 0 {
			return true
		}
	}
	return false
}

// recordOutcome appends one outcome and gives the operator immediate
// feedback: a bounded preview on success, the failure line otherwise.
func recordOutcome(summary *Summary, outcome ItemOutcome, cfg *Config, out, errOut io.Writer) {
	summary.Outcomes = append(summary.Outcomes, outcome)
	metrics.RecordItem(string(outcome.Status))

	if outcome.Status == StatusFailed {
		_, _ = fmt.Fprintf(errOut, "[%s] failed: %s\n", outcome.Path, outcome.Error)
		return
	}
	if !cfg.Quiet {
		_, _ = fmt.Fprintf(out, "\n[%s] OCR preview:\n%s\n\n", output.Stem(outcome.Path), outcome.Preview)
	}
}
