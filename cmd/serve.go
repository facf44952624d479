package cmd

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/gaurav-prasanna/cxserver/config"
	"github.com/gaurav-prasanna/cxserver/httpapi"
	"github.com/gaurav-prasanna/cxserver/lineardoc"
	"github.com/gaurav-prasanna/cxserver/pipeline"
	"github.com/gaurav-prasanna/cxserver/segment"
)

var (
	flagConfigPath string
	flagAddr       string
	flagLang       string
	flagModelsDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the translate-prep HTTP service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagConfigPath, "config", "", "Path to config.yaml (defaults applied if omitted)")
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&flagLang, "lang", "en", "Source language, used to select the sentence-boundary model")
	serveCmd.Flags().StringVar(&flagModelsDir, "models-dir", "", "Directory of gzip-compressed sentence tokenizer training data (name.json.gz)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := cfg.BuildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	lang, err := language.Parse(flagLang)
	if err != nil {
		return fmt.Errorf("parsing --lang %q: %w", flagLang, err)
	}

	adapter := segment.NewAdapter(lang, log, loadTrainingDataFrom(flagModelsDir))

	orch := pipeline.New(&cfg.RemovableSections, lineardoc.Options{IsolateSegments: cfg.IsolateSegments}, adapter.Func())
	server := httpapi.NewServer(orch, log)

	log.Info("listening", zap.String("addr", flagAddr))
	return http.ListenAndServe(flagAddr, server)
}

func loadConfig() (*config.Config, error) {
	if flagConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(flagConfigPath)
}

// loadTrainingDataFrom returns a model loader reading
// "<dir>/<name>.json.gz" files, or one that always fails (degrading
// segmentation to whole-text) when dir is empty.
func loadTrainingDataFrom(dir string) func(name string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if dir == "" {
			return nil, os.ErrNotExist
		}
		data, err := os.ReadFile(filepath.Join(dir, name+".json.gz"))
		if err != nil {
			return nil, err
		}
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	}
}
