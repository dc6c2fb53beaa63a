package batch

import (
	"context"
	"time"

	"github.com/MeKo-Tech/remocr/internal/extract"
	"github.com/MeKo-Tech/remocr/internal/imageio"
	"github.com/MeKo-Tech/remocr/internal/metrics"
	"github.com/MeKo-Tech/remocr/internal/output"
	"github.com/MeKo-Tech/remocr/internal/remote"
)

// previewLimit bounds the extracted-text preview shown after each
// successful image.
const previewLimit = 2000

// processItem runs one image through encoding, the remote request,
// extraction and persistence. Failures at any stage are returned as a
// failed outcome, never propagated.
func processItem(ctx context.Context, client *remote.Client, cfg *Config, path string) ItemOutcome {
	payload, err := imageio.Load(path, cfg.MaxDimension)
	if err != nil {
		return failedOutcome(path, err)
	}

	start := time.Now()
	response, err := client.Call(ctx, payload)
	metrics.RecordRequestDuration(time.Since(start))
	if err != nil {
		return failedOutcome(path, err)
	}

	text, ok := extract.Text(response)
	if ok {
		metrics.RecordTextLength(len(text))
	}

	if err := output.Persist(response, text, cfg.OutputDir, output.Stem(path)); err != nil {
		return failedOutcome(path, err)
	}

	return ItemOutcome{
		Path:    path,
		Status:  StatusSuccess,
		Preview: preview(text),
	}
}

func failedOutcome(path string, err error) ItemOutcome {
	return ItemOutcome{Path: path, Status: StatusFailed, Error: err.Error()}
}

// preview truncates text to previewLimit characters without splitting
// a multi-byte character.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit])
}
