// Package resolve builds the ordered set of input images for a batch
// run from explicit paths, an optional directory glob, and a fallback
// default asset.
package resolve

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Images resolves the image set to process. Explicit paths come first,
// in the given order, followed by the lexicographically sorted matches
// of pattern inside dir. When both sources are empty, defaultPath is
// the sole candidate. The result is canonicalized to absolute,
// symlink-resolved paths, deduplicated by first occurrence, and
// filtered to files that exist on disk. An empty result is valid.
func Images(explicit []string, dir, pattern, defaultPath string) ([]string, error) {
	var candidates []string

	for _, p := range explicit {
		candidates = append(candidates, canonical(p))
	}

	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			candidates = append(candidates, canonical(m))
		}
	}

	if len(candidates) == 0 && defaultPath != "" {
		candidates = append(candidates, canonical(defaultPath))
	}

	seen := make(map[string]struct{}, len(candidates))
	images := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		info, err := os.Stat(c)
		if err != nil {
			slog.Debug("skipping input that does not exist", "path", c)
			continue
		}
		if info.IsDir() {
			slog.Debug("skipping directory input", "path", c)
			continue
		}
		images = append(images, c)
	}

	return images, nil
}

// canonical resolves p to an absolute, symlink-free path. When
// resolution fails (typically because the file does not exist) the
// absolute form is kept so the existence filter can drop it.
func canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
