package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphfield"
	"github.com/gogpu/glyphfield/backend"
	"github.com/gogpu/glyphfield/config"
)

// app holds state shared by all subcommands.
type app struct {
	cfgFile     string
	verbose     bool
	backendName string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "glyphfield",
		Short: "Render glyph distance fields",
		Long: `glyphfield renders single glyphs into SDF, PSDF, MSDF or MTSDF
distance fields and packs them into atlases for GPU text rendering.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: "+config.DefaultFile+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.backendName, "backend", "", "backend name (default: from config, then registry default)")

	root.AddCommand(newGenerateCmd(a), newAtlasCmd(a), newPresetsCmd(a))
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	glyphfield.SetLogger(a.logger)

	if a.backendName == "" {
		a.backendName = cfg.Backend
	}
	if a.backendName != "" && !backend.IsRegistered(a.backendName) {
		return fmt.Errorf("unknown backend %q (available: %v)", a.backendName, backend.Available())
	}
	return nil
}

// newSession creates an initialized session on a fresh backend instance
// with fontData loaded.
func (a *app) newSession(fontData []byte) (*glyphfield.Session, error) {
	b, err := backend.Open(a.backendName)
	if err != nil {
		return nil, err
	}
	s := glyphfield.NewSession(b, glyphfield.WithResultCache(a.cfg.CacheSize))
	if err := s.Initialize(); err != nil {
		s.Dispose()
		return nil, err
	}
	if err := s.LoadFont(fontData); err != nil {
		s.Dispose()
		return nil, err
	}
	return s, nil
}
