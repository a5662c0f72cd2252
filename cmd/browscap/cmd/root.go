package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/coregx/browscap/internal/config"
	"github.com/coregx/browscap/internal/logger"
)

// globals holds the flags shared by every command.
type globals struct {
	configFile string
	envFiles   []string
	dataFile   string
	fields     []string
	lite       bool
	noFilters  bool
	logLevel   string
	logFormat  string
}

// NewRootCommand returns the browscap command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "browscap",
		Short:         "Classify user agents with a browscap catalogue",
		Long:          "Resolve user agents to browser, platform and device capabilities using a browscap CSV catalogue.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	f := root.PersistentFlags()
	f.StringVarP(&g.configFile, "config", "c", "", "TOML configuration file")
	f.StringSliceVar(&g.envFiles, "env-file", nil, "Load environment variables from these files")
	f.StringVarP(&g.dataFile, "data", "d", "", "Catalogue file (.zip or .csv)")
	f.StringSliceVarP(&g.fields, "fields", "f", nil, "Fields to keep besides the defaults")
	f.BoolVar(&g.lite, "lite", false, "Use the lite catalogue only")
	f.BoolVar(&g.noFilters, "no-filters", false, "Disable the exclusion filters")
	f.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&g.logFormat, "log-format", "", "Log format: text, json")

	root.AddCommand(newParseCommand(g))
	root.AddCommand(newCheckCommand(g))
	root.AddCommand(newServeCommand(g))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// load returns the configuration with command line overrides applied, and a
// logger writing to the configured destination. The returned closer releases
// the log file, if any.
func (g *globals) load(cmd *cobra.Command) (config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(g.configFile, g.envFiles...)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataFile = g.dataFile
	}
	if flags.Changed("fields") {
		cfg.Fields = g.fields
	}
	if flags.Changed("lite") {
		cfg.LiteMode = g.lite
	}
	if flags.Changed("no-filters") {
		cfg.Filters = !g.noFilters
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, nil, err
	}

	level, err := cfg.Log.ParsedLevel()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	format, err := logger.ParseFormat(cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	out := cmd.ErrOrStderr()
	closer := io.Closer(nopCloser{})
	if cfg.Log.File != "" {
		w, err := logger.FileWriter(cfg.Log.File, cfg.Log.MaxSize, cfg.Log.MaxAge, cfg.Log.MaxBackups)
		if err != nil {
			return config.Config{}, nil, nil, fmt.Errorf("log file: %w", err)
		}
		out, closer = w, w
	}

	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(out),
		logger.WithAttr(slog.String("command", cmd.Name())),
	)
	return cfg, log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
