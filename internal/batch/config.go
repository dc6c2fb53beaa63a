package batch

import "github.com/MeKo-Tech/remocr/internal/remote"

// Config holds all settings for one batch run.
type Config struct {
	// Remote request settings, shared by every image.
	Server remote.Config

	// Input discovery settings
	Images       []string
	InputDir     string
	Glob         string
	DefaultImage string

	// Pre-upload downscaling; 0 disables it.
	MaxDimension int

	// Output settings
	OutputDir string
	Format    string

	// Run behavior
	FailFast    bool
	Quiet       bool
	MetricsAddr string
}
