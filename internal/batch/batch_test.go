package batch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/MeKo-Tech/remocr/internal/remote"
	"github.com/MeKo-Tech/remocr/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer returns a chat-completions stub. failOn marks 1-based
// request indexes that answer 500; everything else answers body.
func stubServer(t *testing.T, body string, failOn ...int64) *httptest.Server {
	t.Helper()

	var count int64
	failSet := make(map[int64]bool, len(failOn))
	for _, n := range failOn {
		failSet[n] = true
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&count, 1)
		if failSet[n] {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("inference worker crashed"))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
}

func testConfig(t *testing.T, serverURL string) (*Config, string) {
	t.Helper()

	outputDir := filepath.Join(testutil.CreateTempDir(t), "results")
	return &Config{
		Server: remote.Config{
			BaseURL:   serverURL + "/v1",
			APIKey:    "EMPTY",
			Model:     "chandra",
			Prompt:    "read this page",
			MaxTokens: 256,
		},
		Glob:      "*.png",
		OutputDir: outputDir,
		Format:    "text",
	}, outputDir
}

func TestRun_SingleImageSuccess(t *testing.T) {
	server := stubServer(t, `{"choices":[{"message":{"content":"# Title\nBody"}}]}`)
	defer server.Close()

	inputDir := testutil.CreateTempDir(t)
	img := testutil.WritePNG(t, inputDir, "doc.png", 4, 4)

	cfg, outputDir := testConfig(t, server.URL)
	cfg.Images = []string{img}

	var out, errOut bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out, &errOut)
	require.NoError(t, err)

	require.Len(t, summary.Outcomes, 1)
	assert.Equal(t, StatusSuccess, summary.Outcomes[0].Status)
	assert.Equal(t, 1, summary.Succeeded())
	assert.Equal(t, 0, summary.Failed())

	jsonData, err := os.ReadFile(filepath.Join(outputDir, "doc.json"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), "# Title")

	mdData, err := os.ReadFile(filepath.Join(outputDir, "doc.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\nBody", string(mdData))

	assert.Contains(t, out.String(), "[doc] OCR preview:")
	assert.Contains(t, out.String(), "=== Batch Summary ===")
	assert.Contains(t, out.String(), ": success")
	assert.Empty(t, errOut.String())
}

func TestRun_NoMarkdownForUnrecognizedShape(t *testing.T) {
	server := stubServer(t, `{"choices":[]}`)
	defer server.Close()

	inputDir := testutil.CreateTempDir(t)
	img := testutil.WritePNG(t, inputDir, "doc.png", 4, 4)

	cfg, outputDir := testConfig(t, server.URL)
	cfg.Images = []string{img}

	var out, errOut bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out, &errOut)
	require.NoError(t, err)

	// Unrecognized shape is still a success: the raw body persists,
	// the markdown does not.
	require.Len(t, summary.Outcomes, 1)
	assert.Equal(t, StatusSuccess, summary.Outcomes[0].Status)

	_, err = os.Stat(filepath.Join(outputDir, "doc.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outputDir, "doc.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_FailFastHaltsAfterFailure(t *testing.T) {
	server := stubServer(t, `{"choices":[{"message":{"content":"ok"}}]}`, 2)
	defer server.Close()

	inputDir := testutil.CreateTempDir(t)
	a := testutil.WritePNG(t, inputDir, "a.png", 4, 4)
	b := testutil.WritePNG(t, inputDir, "b.png", 4, 4)
	c := testutil.WritePNG(t, inputDir, "c.png", 4, 4)

	cfg, _ := testConfig(t, server.URL)
	cfg.Images = []string{a, b, c}
	cfg.FailFast = true

	var out, errOut bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out, &errOut)
	require.NoError(t, err)

	// Item 3 was never attempted and never appears.
	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, StatusSuccess, summary.Outcomes[0].Status)
	assert.Equal(t, StatusFailed, summary.Outcomes[1].Status)
	assert.Contains(t, summary.Outcomes[1].Error, "500")
	assert.Contains(t, errOut.String(), "failed:")
}

func TestRun_FailureIsolatedWithoutFailFast(t *testing.T) {
	server := stubServer(t, `{"choices":[{"message":{"content":"ok"}}]}`, 2)
	defer server.Close()

	inputDir := testutil.CreateTempDir(t)
	a := testutil.WritePNG(t, inputDir, "a.png", 4, 4)
	b := testutil.WritePNG(t, inputDir, "b.png", 4, 4)
	c := testutil.WritePNG(t, inputDir, "c.png", 4, 4)

	cfg, _ := testConfig(t, server.URL)
	cfg.Images = []string{a, b, c}

	var out, errOut bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out, &errOut)
	require.NoError(t, err)

	require.Len(t, summary.Outcomes, 3)
	assert.Equal(t, StatusSuccess, summary.Outcomes[0].Status)
	assert.Equal(t, StatusFailed, summary.Outcomes[1].Status)
	assert.Equal(t, StatusSuccess, summary.Outcomes[2].Status)
	assert.Equal(t, 2, summary.Succeeded())
	assert.Equal(t, 1, summary.Failed())

	// Failures appear in the summary block too.
	assert.Contains(t, out.String(), ": failed - ")
}

func TestRun_UndecodableImageIsolated(t *testing.T) {
	server := stubServer(t, `{"choices":[{"message":{"content":"ok"}}]}`)
	defer server.Close()

	inputDir := testutil.CreateTempDir(t)
	a := testutil.WritePNG(t, inputDir, "a.png", 4, 4)
	// Exists on disk but is not decodable, so the downscale pass fails
	// for this item only.
	junk := testutil.WriteFile(t, inputDir, "junk.png", []byte("not an image"))

	cfg, _ := testConfig(t, server.URL)
	cfg.Images = []string{junk, a}
	cfg.MaxDimension = 100

	var out, errOut bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out, &errOut)
	require.NoError(t, err)

	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, StatusFailed, summary.Outcomes[0].Status)
	assert.Equal(t, StatusSuccess, summary.Outcomes[1].Status)
}

func TestRun_EmptySetIsFatal(t *testing.T) {
	cfg, _ := testConfig(t, "http://127.0.0.1:1")

	var out, errOut bytes.Buffer
	_, err := Run(context.Background(), cfg, &out, &errOut)
	require.ErrorIs(t, err, ErrNoImages)
}

func TestRun_BrokenPDFKeepsArrivalOrder(t *testing.T) {
	server := stubServer(t, `{"choices":[{"message":{"content":"ok"}}]}`)
	defer server.Close()

	inputDir := testutil.CreateTempDir(t)
	img := testutil.WritePNG(t, inputDir, "a.png", 4, 4)
	pdf := testutil.WriteFile(t, inputDir, "broken.pdf", []byte("not a pdf"))

	cfg, _ := testConfig(t, server.URL)
	cfg.Images = []string{img, pdf}

	var out, errOut bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out, &errOut)
	require.NoError(t, err)

	// The PDF failure is recorded at its own position, after the image
	// that arrived ahead of it.
	require.Len(t, summary.Outcomes, 2)
	assert.Contains(t, summary.Outcomes[0].Path, "a.png")
	assert.Equal(t, StatusSuccess, summary.Outcomes[0].Status)
	assert.Contains(t, summary.Outcomes[1].Path, "broken.pdf")
	assert.Equal(t, StatusFailed, summary.Outcomes[1].Status)
}

func TestRun_FailFastStillAttemptsImagesBeforeFailingPDF(t *testing.T) {
	server := stubServer(t, `{"choices":[{"message":{"content":"ok"}}]}`)
	defer server.Close()

	inputDir := testutil.CreateTempDir(t)
	a := testutil.WritePNG(t, inputDir, "a.png", 4, 4)
	pdf := testutil.WriteFile(t, inputDir, "broken.pdf", []byte("not a pdf"))
	b := testutil.WritePNG(t, inputDir, "b.png", 4, 4)

	cfg, _ := testConfig(t, server.URL)
	cfg.Images = []string{a, pdf, b}
	cfg.FailFast = true

	var out, errOut bytes.Buffer
	summary, err := Run(context.Background(), cfg, &out, &errOut)
	require.NoError(t, err)

	// a.png arrived before the failure and is processed; b.png arrived
	// after it and is never attempted.
	require.Len(t, summary.Outcomes, 2)
	assert.Contains(t, summary.Outcomes[0].Path, "a.png")
	assert.Equal(t, StatusSuccess, summary.Outcomes[0].Status)
	assert.Contains(t, summary.Outcomes[1].Path, "broken.pdf")
	assert.Equal(t, StatusFailed, summary.Outcomes[1].Status)
}
