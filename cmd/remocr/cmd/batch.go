package cmd

import (
	"fmt"
	"os"

	"github.com/MeKo-Tech/remocr/internal/batch"
	"github.com/MeKo-Tech/remocr/internal/config"
	"github.com/MeKo-Tech/remocr/internal/remote"
	"github.com/spf13/cobra"
)

// batchCmd submits a set of document images to the remote server.
var batchCmd = &cobra.Command{
	Use:   "batch [images...]",
	Short: "Submit document images to the remote OCR endpoint",
	Long: `Submit one or more document images to a remote vision-language model
server for OCR. Images come from --image flags, positional arguments,
or an input directory with a glob pattern; when nothing is given the
configured demo asset is used. Each image produces <stem>.json with the
raw response and, when text was extracted, <stem>.md.

Images are processed strictly in order, one at a time. A failing image
is recorded and reported without stopping the batch unless --fail-fast
is set. PDF inputs are expanded into their embedded page images.

Examples:
  remocr batch --image page1.png --image page2.png
  remocr batch --input-dir scans/ --glob '*.jpg'
  remocr batch scans/*.png --output-dir results/ --fail-fast`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags override config file values through Viper's precedence
// system; flags without a viper binding are applied when changed.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command, args []string) (*batch.Config, error) {
	batchConfig := &batch.Config{
		Server: remote.Config{
			BaseURL:   cfg.Server.URL,
			APIKey:    cfg.Server.APIKey,
			Model:     cfg.Server.Model,
			MaxTokens: cfg.Server.MaxTokens,
			Timeout:   cfg.Server.Timeout,
		},
		Images:       cfg.Input.Images,
		InputDir:     cfg.Input.Dir,
		Glob:         cfg.Input.Glob,
		DefaultImage: cfg.Input.DefaultImage,
		MaxDimension: cfg.Input.MaxDimension,
		OutputDir:    cfg.Output.Dir,
		Format:       cfg.Output.Format,
		FailFast:     cfg.Batch.FailFast,
		Quiet:        cfg.Batch.Quiet,
		MetricsAddr:  cfg.Batch.MetricsAddr,
	}

	if cmd.Flags().Changed("server-url") {
		batchConfig.Server.BaseURL, _ = cmd.Flags().GetString("server-url")
	}
	if cmd.Flags().Changed("api-key") {
		batchConfig.Server.APIKey, _ = cmd.Flags().GetString("api-key")
	}
	if cmd.Flags().Changed("model") {
		batchConfig.Server.Model, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("max-output-tokens") {
		batchConfig.Server.MaxTokens, _ = cmd.Flags().GetInt("max-output-tokens")
	}
	if cmd.Flags().Changed("image") {
		batchConfig.Images, _ = cmd.Flags().GetStringArray("image")
	}
	if cmd.Flags().Changed("input-dir") {
		batchConfig.InputDir, _ = cmd.Flags().GetString("input-dir")
	}
	if cmd.Flags().Changed("glob") {
		batchConfig.Glob, _ = cmd.Flags().GetString("glob")
	}
	if cmd.Flags().Changed("max-dimension") {
		batchConfig.MaxDimension, _ = cmd.Flags().GetInt("max-dimension")
	}
	if cmd.Flags().Changed("output-dir") {
		batchConfig.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("format") {
		batchConfig.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("fail-fast") {
		batchConfig.FailFast, _ = cmd.Flags().GetBool("fail-fast")
	}
	if cmd.Flags().Changed("quiet") {
		batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	}
	if cmd.Flags().Changed("metrics-addr") {
		batchConfig.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
	}

	// Positional arguments are additional explicit images, after the
	// --image values.
	batchConfig.Images = append(batchConfig.Images, args...)

	prompt, err := resolvePrompt(cfg, cmd)
	if err != nil {
		return nil, err
	}
	batchConfig.Server.Prompt = prompt

	return batchConfig, nil
}

// resolvePrompt picks the instruction text: a prompt file wins over
// the inline prompt.
func resolvePrompt(cfg *config.Config, cmd *cobra.Command) (string, error) {
	promptFile := cfg.Prompt.File
	if cmd.Flags().Changed("prompt-file") {
		promptFile, _ = cmd.Flags().GetString("prompt-file")
	}
	if promptFile != "" {
		data, err := os.ReadFile(promptFile) //nolint:gosec // G304: prompt file path is user input by design
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file %s: %w", promptFile, err)
		}
		return string(data), nil
	}

	if cmd.Flags().Changed("prompt") {
		prompt, _ := cmd.Flags().GetString("prompt")
		return prompt, nil
	}
	return cfg.Prompt.Text, nil
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	batchConfig, err := configToBatchConfig(cfg, cmd, args)
	if err != nil {
		return err
	}

	_, err = batch.Run(cmd.Context(), batchConfig, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Remote server flags
	batchCmd.Flags().String("server-url", "", "base URL of the remote server (default: http://127.0.0.1:8000/v1)")
	batchCmd.Flags().String("api-key", "", "bearer token expected by the remote server")
	batchCmd.Flags().String("model", "", "model name served by the remote instance")
	batchCmd.Flags().Int("max-output-tokens", 0, "maximum tokens to generate per response")

	// Prompt flags
	batchCmd.Flags().String("prompt", "", "custom instruction to send with each request")
	batchCmd.Flags().String("prompt-file", "", "path to a text file containing the prompt (overrides --prompt)")

	// Input flags
	batchCmd.Flags().StringArray("image", nil, "path to a document image (repeatable)")
	batchCmd.Flags().String("input-dir", "", "process all matching images in this directory")
	batchCmd.Flags().String("glob", "", "glob pattern used with --input-dir (default: *.png)")
	batchCmd.Flags().Int("max-dimension", 0, "downscale images whose longest side exceeds this many pixels (0 = off)")

	// Output flags
	batchCmd.Flags().StringP("output-dir", "o", "", "directory to store output JSON/Markdown (default: remote_results)")
	batchCmd.Flags().StringP("format", "f", "", "summary format: text, json, yaml")

	// Run behavior flags
	batchCmd.Flags().Bool("fail-fast", false, "stop processing on first failure")
	batchCmd.Flags().Bool("quiet", false, "suppress previews and the stats line")
	batchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address during the run")
}
