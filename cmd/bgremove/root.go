package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bgremover/internal/config"
	"bgremover/internal/model"
	"bgremover/internal/registry"
)

// app carries state resolved once by the root command.
type app struct {
	configPath string
	logLevel   string
	modelsDir  string
	modelPath  string
	backends   string

	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bgremove",
		Short:         "Remove photo backgrounds locally",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (.yaml, .json, .toml)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	pf.StringVar(&a.modelsDir, "models-dir", "", "Directory to scan for *.onnx segmentation weights")
	pf.StringVar(&a.modelPath, "model", "", "Explicit weights file (skips the models dir scan)")
	pf.StringVar(&a.backends, "backends", "", "Backend preference, comma separated (accelerated,baseline)")

	root.AddCommand(newRemoveCmd(a), newServeCmd(a), newCheckCmd(a))
	return root
}

// init loads config, applies flag overrides and builds the logger.
func (a *app) init(stderr io.Writer) error {
	var cfg config.Config
	if a.configPath != "" {
		c, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.modelsDir != "" {
		cfg.ModelsDir = a.modelsDir
	}
	if a.modelPath != "" {
		cfg.ModelPath = a.modelPath
	}
	if a.backends != "" {
		cfg.Backends = splitCSV(a.backends)
	}
	cfg = config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.log = newLogger(stderr, cfg.LogLevel)
	return nil
}

// newManager resolves the weights file and builds the model manager.
func (a *app) newManager() (*model.Manager, error) {
	path := a.cfg.ModelPath
	if path == "" {
		m, err := registry.Resolve(a.cfg.ModelsDir, model.Variant)
		if err != nil {
			return nil, err
		}
		path = m.Path
	}
	backends, err := a.cfg.BackendKinds()
	if err != nil {
		return nil, err
	}
	return model.NewWithConfig(model.ManagerConfig{
		ModelPath: path,
		Backends:  backends,
		Logger:    &a.log,
	}), nil
}

// newLogger writes human-readable output to terminals and JSON elsewhere.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := w
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// splitCSV splits and trims a comma separated list, dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
