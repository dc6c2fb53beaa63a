package support

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/remocr/cmd/remocr/cmd"
)

func (tc *TestContext) aStubServerReturning(content string) error {
	tc.server = newStubServer(content)
	return nil
}

func (tc *TestContext) aFailingStubServer() error {
	tc.server = newFailingStubServer()
	return nil
}

func (tc *TestContext) anInputImage(name string) error {
	return tc.writePNG(name)
}

func (tc *TestContext) runBatch(inputDir string) error {
	if tc.server == nil {
		return fmt.Errorf("no stub server configured")
	}

	root := cmd.GetRootCommand()
	root.SetOut(&tc.stdout)
	root.SetErr(&tc.stderr)
	root.SetArgs([]string{
		"batch",
		"--server-url", tc.server.URL + "/v1",
		"--input-dir", inputDir,
		"--glob", "*.png",
		"--output-dir", tc.outputDir,
	})

	tc.runErr = root.Execute()
	return nil
}

func (tc *TestContext) iRunTheBatchCommand() error {
	return tc.runBatch(tc.inputDir)
}

func (tc *TestContext) iRunTheBatchCommandWithNoInputs() error {
	empty := filepath.Join(tc.tempDir, "empty")
	if err := os.MkdirAll(empty, 0o750); err != nil {
		return err
	}
	return tc.runBatch(empty)
}

func (tc *TestContext) theCommandSucceeds() error {
	if tc.runErr != nil {
		return fmt.Errorf("expected success, got error: %w\nstderr: %s", tc.runErr, tc.stderr.String())
	}
	return nil
}

func (tc *TestContext) theCommandFailsWith(message string) error {
	if tc.runErr == nil {
		return fmt.Errorf("expected failure containing %q, command succeeded", message)
	}
	if !strings.Contains(tc.runErr.Error(), message) {
		return fmt.Errorf("error %q does not contain %q", tc.runErr.Error(), message)
	}
	return nil
}

func (tc *TestContext) theOutputFileExists(name string) error {
	path := filepath.Join(tc.outputDir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("output file %s missing: %w", path, err)
	}
	return nil
}

func (tc *TestContext) theOutputFileContains(name, substring string) error {
	path := filepath.Join(tc.outputDir, name)
	data, err := os.ReadFile(path) //nolint:gosec // test output path
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !strings.Contains(string(data), substring) {
		return fmt.Errorf("%s does not contain %q:\n%s", name, substring, string(data))
	}
	return nil
}

func (tc *TestContext) theOperatorOutputContains(substring string) error {
	combined := tc.stdout.String() + tc.stderr.String()
	if !strings.Contains(combined, substring) {
		return fmt.Errorf("operator output does not contain %q:\n%s", substring, combined)
	}
	return nil
}
