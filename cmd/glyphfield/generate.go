package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphfield"
	"github.com/gogpu/glyphfield/fieldfile"
)

type generateOptions struct {
	params  paramFlags
	font    string
	out     string
	format  string
	workers int
}

func newGenerateCmd(a *app) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate chars...",
		Short: "Render one field file per character",
		Long: `Render every distinct character of the arguments into its own file
named after the code point (U+0041.png, U+0041.cbor).

Characters missing from the font are logged and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, o, args)
		},
	}
	o.params.register(cmd)
	cmd.Flags().StringVar(&o.font, "font", "", "font reference: path, http(s) URL or builtin:<name> (default: from config)")
	cmd.Flags().StringVarP(&o.out, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&o.format, "format", "png", "output format: png, cbor")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "parallel sessions (default: from config)")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, o *generateOptions, args []string) error {
	if o.format != "png" && o.format != "cbor" {
		return fmt.Errorf("unknown format %q", o.format)
	}
	p, err := o.params.resolve(cmd, a)
	if err != nil {
		return err
	}
	fontData, err := a.loadFont(cmd.Context(), o.font)
	if err != nil {
		return err
	}
	workers := o.workers
	if workers <= 0 {
		workers = a.cfg.Workers
	}

	chars := charset(args)
	results, err := a.generateAll(cmd.Context(), fontData, chars, p, workers)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(o.out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	written := 0
	for i, res := range results {
		if res == nil {
			continue
		}
		path := filepath.Join(o.out, fmt.Sprintf("%U.%s", chars[i], o.format))
		if err := writeField(path, o.format, chars[i], p, res); err != nil {
			return err
		}
		written++
	}
	a.logger.Info("fields written", "count", written, "skipped", len(chars)-written, "dir", o.out)
	return nil
}

func writeField(path, format string, r rune, p glyphfield.Params, res *glyphfield.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if format == "cbor" {
		return fieldfile.EncodeCBOR(f, fieldfile.NewRecord(r, p, res))
	}
	return fieldfile.WritePNG(f, res)
}
