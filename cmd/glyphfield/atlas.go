package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphfield/atlas"
)

type atlasOptions struct {
	params  paramFlags
	font    string
	out     string
	size    int
	gap     int
	workers int
}

func newAtlasCmd(a *app) *cobra.Command {
	o := &atlasOptions{}
	cmd := &cobra.Command{
		Use:   "atlas [chars...]",
		Short: "Pack characters into one atlas",
		Long: `Render the characters (printable ASCII by default) and pack them into
a single atlas. Writes atlas.png, atlas.cbor and atlas.json to the
output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAtlas(cmd, o, args)
		},
	}
	o.params.register(cmd)
	cmd.Flags().StringVar(&o.font, "font", "", "font reference: path, http(s) URL or builtin:<name> (default: from config)")
	cmd.Flags().StringVarP(&o.out, "out", "o", ".", "output directory")
	cmd.Flags().IntVar(&o.size, "size", 1024, "atlas width and height in pixels")
	cmd.Flags().IntVar(&o.gap, "gap", 1, "empty pixels between glyphs")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "parallel sessions (default: from config)")
	return cmd
}

func (a *app) runAtlas(cmd *cobra.Command, o *atlasOptions, args []string) error {
	p, err := o.params.resolve(cmd, a)
	if err != nil {
		return err
	}
	at, err := atlas.New(atlas.Config{Width: o.size, Height: o.size, Channels: p.Mode.Channels(), Gap: o.gap})
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

	if len(args) == 0 {
		args = []string{defaultCharset}
	}
	chars := charset(args)
	results, err := a.generateAll(cmd.Context(), fontData, chars, p, workers)
	if err != nil {
		return err
	}
	for i, res := range results {
		if res == nil {
			continue
		}
		if _, err := at.Add(chars[i], res); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(o.out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"atlas.png", at.WritePNG},
		{"atlas.cbor", at.WriteCBOR},
		{"atlas.json", at.WriteJSON},
	}
	for _, out := range outputs {
		if err := writeFile(filepath.Join(o.out, out.name), out.write); err != nil {
			return err
		}
	}
	a.logger.Info("atlas written", "glyphs", at.Len(), "utilization", at.Utilization(), "dir", o.out)
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
