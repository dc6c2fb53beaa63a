// Package pdfx expands PDF inputs into their embedded page images so
// scanned PDFs can be batched without a separate rasterization step.
package pdfx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Entry is the expansion result for one input path. A PDF carries the
// page images extracted from it, or the error that stopped extraction;
// any other file passes through as its own single image.
type Entry struct {
	Path   string
	Images []string
	Err    error
}

// Expand maps every input path to an Entry, preserving input order.
// PDFs are expanded into the page images embedded in them, extracted
// under workDir/<stem>/ in page order. Expansion failures do not abort
// the rest of the set; they surface on the failing entry.
func Expand(paths []string, workDir string) []Entry {
	entries := make([]Entry, 0, len(paths))

	for _, p := range paths {
		if !strings.EqualFold(filepath.Ext(p), ".pdf") {
			entries = append(entries, Entry{Path: p, Images: []string{p}})
			continue
		}

		images, err := extractPageImages(p, workDir)
		if err != nil {
			entries = append(entries, Entry{Path: p, Err: err})
			continue
		}
		if len(images) == 0 {
			slog.Warn("no embedded page images found in PDF", "file", p)
		}
		entries = append(entries, Entry{Path: p, Images: images})
	}

	return entries
}

// extractPageImages runs pdfcpu image extraction for one PDF and
// returns the extracted file paths sorted by page number.
func extractPageImages(pdfPath, workDir string) ([]string, error) {
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Join(workDir, stem)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create extraction directory: %w", err)
	}

	if err := api.ExtractImagesFile(pdfPath, dir, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction directory: %w", err)
	}

	type pageImage struct {
		page int
		path string
	}
	var images []pageImage
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		page, err := parsePageNumber(e.Name())
		if err != nil {
			continue
		}
		images = append(images, pageImage{page: page, path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(images, func(i, j int) bool {
		if images[i].page != images[j].page {
			return images[i].page < images[j].page
		}
		return images[i].path < images[j].path
	})

	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.path
	}
	return paths, nil
}

// parsePageNumber extracts the page number from pdfcpu's extracted
// image filenames, e.g. <name>_1_Im0.png.
func parsePageNumber(filename string) (int, error) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(name, "_")
	// The page number is the last purely numeric underscore segment.
	for i := len(parts) - 1; i >= 0; i-- {
		if page, err := strconv.Atoi(parts[i]); err == nil {
			return page, nil
		}
	}
	return 0, fmt.Errorf("no page number in %q", filename)
}
