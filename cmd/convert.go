package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/gaurav-prasanna/cxserver/config"
	"github.com/gaurav-prasanna/cxserver/lineardoc"
	"github.com/gaurav-prasanna/cxserver/pipeline"
	"github.com/gaurav-prasanna/cxserver/segment"
)

var (
	flagConvertOut       string
	flagConvertConfig    string
	flagConvertLang      string
	flagConvertModelsDir string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.html>",
	Short: "Run a single HTML file through the translate-prep pipeline",
	Long: `Convert reads a Parsoid HTML file from disk, runs it through the same
parse → wrap-sections → segment → serialize pipeline "serve" exposes over
HTTP, and writes the prepared HTML to --out (or stdout).

Example:
  cxserver convert page.html --out page.prepared.html --lang en`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&flagConvertOut, "out", "", "Output file (default: stdout)")
	convertCmd.Flags().StringVar(&flagConvertConfig, "config", "", "Path to config.yaml (defaults applied if omitted)")
	convertCmd.Flags().StringVar(&flagConvertLang, "lang", "en", "Source language, used to select the sentence-boundary model")
	convertCmd.Flags().StringVar(&flagConvertModelsDir, "models-dir", "", "Directory of gzip-compressed sentence tokenizer training data (name.json.gz)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	cfg, err := loadConvertConfig()
	if err != nil {
		return err
	}

	log, err := cfg.BuildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	lang, err := language.Parse(flagConvertLang)
	if err != nil {
		return fmt.Errorf("parsing --lang %q: %w", flagConvertLang, err)
	}

	adapter := segment.NewAdapter(lang, log, loadTrainingDataFrom(flagConvertModelsDir))
	orch := pipeline.New(&cfg.RemovableSections, lineardoc.Options{IsolateSegments: cfg.IsolateSegments}, adapter.Func())

	out, err := orch.Run(context.Background(), string(input))
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	if flagConvertOut == "" {
		fmt.Fprintln(os.Stdout, out)
		return nil
	}
	if err := os.WriteFile(flagConvertOut, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", flagConvertOut, err)
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", flagConvertOut)
	return nil
}

func loadConvertConfig() (*config.Config, error) {
	if flagConvertConfig == "" {
		return config.Default(), nil
	}
	return config.Load(flagConvertConfig)
}
