package imageio

import (
	"bytes"
	"encoding/base64"
	"image"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MeKo-Tech/remocr/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReadsBytesVerbatim(t *testing.T) {
	tempDir := testutil.CreateTempDir(t)
	data := testutil.PNGBytes(t, 4, 4)
	path := testutil.WriteFile(t, tempDir, "page.png", data)

	p, err := Load(path, 0)
	require.NoError(t, err)
	assert.Equal(t, data, p.Data)
	assert.Equal(t, "image/png", p.MIME)
}

func TestLoad_MissingFile(t *testing.T) {
	tempDir := testutil.CreateTempDir(t)

	_, err := Load(filepath.Join(tempDir, "missing.png"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read image")
}

func TestBase64_StandardAlphabetNoWrapping(t *testing.T) {
	p := &Payload{Data: []byte("hello world, hello world, hello world, hello world, hello world"), MIME: "image/png"}

	encoded := p.Base64()
	assert.NotContains(t, encoded, "\n")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, p.Data, decoded)
}

func TestDataURL(t *testing.T) {
	p := &Payload{Data: []byte{1, 2, 3}, MIME: "image/jpeg"}
	url := p.DataURL()

	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
	assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(p.Data), url)
}

func TestDetectMIME_SniffsContent(t *testing.T) {
	png := testutil.PNGBytes(t, 2, 2)
	// Misleading extension, content wins.
	assert.Equal(t, "image/png", DetectMIME(png, "scan.jpg"))
}

func TestDetectMIME_ExtensionFallback(t *testing.T) {
	junk := []byte("not an image at all")

	assert.Equal(t, "image/tiff", DetectMIME(junk, "scan.TIF"))
	assert.Equal(t, "image/jpeg", DetectMIME(junk, "scan.jpeg"))
	assert.Equal(t, "image/png", DetectMIME(junk, "scan.dat"))
}

func TestLoad_DownscaleOversized(t *testing.T) {
	tempDir := testutil.CreateTempDir(t)
	path := testutil.WritePNG(t, tempDir, "big.png", 64, 32)

	p, err := Load(path, 16)
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.MIME)

	img, _, err := image.Decode(bytes.NewReader(p.Data))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 16)
	assert.LessOrEqual(t, img.Bounds().Dy(), 16)
}

func TestLoad_DownscaleSkippedWhenSmallEnough(t *testing.T) {
	tempDir := testutil.CreateTempDir(t)
	data := testutil.PNGBytes(t, 8, 8)
	path := testutil.WriteFile(t, tempDir, "small.png", data)

	p, err := Load(path, 16)
	require.NoError(t, err)
	// Untouched bytes, no re-encode.
	assert.Equal(t, data, p.Data)
}

func TestLoad_DownscaleRejectsUndecodableImage(t *testing.T) {
	tempDir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, tempDir, "junk.png", []byte("junk"))

	_, err := Load(path, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to downscale")
}
