// Package support provides the shared test context and step
// definitions for the CLI integration suite.
package support

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
)

// TestContext carries the state of one scenario: the stub server, the
// input/output directories, and the captured command output.
type TestContext struct {
	tempDir   string
	inputDir  string
	outputDir string

	server *stubServer

	stdout bytes.Buffer
	stderr bytes.Buffer
	runErr error
}

// NewTestContext creates a fresh scenario context with its own
// directories.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "remocr-cli-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	ctx := &TestContext{
		tempDir:   tempDir,
		inputDir:  filepath.Join(tempDir, "input"),
		outputDir: filepath.Join(tempDir, "output"),
	}
	if err := os.MkdirAll(ctx.inputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create input dir: %w", err)
	}
	return ctx, nil
}

// Cleanup tears down the stub server and scenario directories.
func (tc *TestContext) Cleanup() error {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
	return os.RemoveAll(tc.tempDir)
}

// RegisterSteps wires all step definitions for the suite.
func (tc *TestContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a stub OCR server returning "([^"]*)"$`, tc.aStubServerReturning)
	sc.Step(`^a stub OCR server that fails every request$`, tc.aFailingStubServer)
	sc.Step(`^an input image "([^"]*)"$`, tc.anInputImage)
	sc.Step(`^I run the batch command$`, tc.iRunTheBatchCommand)
	sc.Step(`^I run the batch command with no inputs$`, tc.iRunTheBatchCommandWithNoInputs)
	sc.Step(`^the command succeeds$`, tc.theCommandSucceeds)
	sc.Step(`^the command fails with "([^"]*)"$`, tc.theCommandFailsWith)
	sc.Step(`^the output file "([^"]*)" exists$`, tc.theOutputFileExists)
	sc.Step(`^the output file "([^"]*)" contains "([^"]*)"$`, tc.theOutputFileContains)
	sc.Step(`^the operator output contains "([^"]*)"$`, tc.theOperatorOutputContains)
}

// writePNG writes a small solid PNG into the input directory.
func (tc *TestContext) writePNG(name string) error {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 230, G: 230, B: 230, A: 255})
		}
	}

	f, err := os.Create(filepath.Join(tc.inputDir, name)) //nolint:gosec // test fixture path
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return png.Encode(f, img)
}
