package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/glyphfield"
)

// paramFlags are the generation parameter flags shared by generate
// and atlas. Only flags set on the command line override the preset.
type paramFlags struct {
	preset          string
	mode            string
	scale           float64
	pxRange         float64
	padding         float64
	seed            uint64
	coloring        string
	angle           float64
	errorCorrection string
	overlap         bool
}

func (f *paramFlags) register(cmd *cobra.Command) {
	d := glyphfield.DefaultParams()
	fl := cmd.Flags()
	fl.StringVar(&f.preset, "preset", "", "parameter preset from the config file")
	fl.StringVar(&f.mode, "mode", d.Mode.String(), "field mode: sdf, psdf, msdf, mtsdf")
	fl.Float64Var(&f.scale, "scale", d.PxScale, "pixels per em")
	fl.Float64Var(&f.pxRange, "range", d.PxRange, "distance range in pixels")
	fl.Float64Var(&f.padding, "padding", d.PxPadding, "padding in pixels")
	fl.Uint64Var(&f.seed, "seed", d.Seed, "edge coloring seed")
	fl.StringVar(&f.coloring, "coloring", string(d.Coloring), "edge coloring: simple, inktrap, distance")
	fl.Float64Var(&f.angle, "angle", d.AngleThreshold, "corner angle threshold in radians (simple, distance)")
	fl.StringVar(&f.errorCorrection, "error-correction", d.ErrorCorrection.String(),
		"error correction: disabled, indiscriminate, edge-priority, edge-only")
	fl.BoolVar(&f.overlap, "overlap", d.Overlap, "resolve overlapping contours")
}

// resolve builds the parameters: preset (or defaults), then every flag
// the user set explicitly.
func (f *paramFlags) resolve(cmd *cobra.Command, a *app) (glyphfield.Params, error) {
	p := glyphfield.DefaultParams()
	if f.preset != "" {
		var err error
		if p, err = a.cfg.Preset(f.preset); err != nil {
			return p, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("mode") {
		if err := p.Mode.UnmarshalText([]byte(f.mode)); err != nil {
			return p, fmt.Errorf("--mode: %w", err)
		}
	}
	if fl.Changed("error-correction") {
		if err := p.ErrorCorrection.UnmarshalText([]byte(f.errorCorrection)); err != nil {
			return p, fmt.Errorf("--error-correction: %w", err)
		}
	}
	if fl.Changed("scale") {
		p.PxScale = f.scale
	}
	if fl.Changed("range") {
		p.PxRange = f.pxRange
	}
	if fl.Changed("padding") {
		p.PxPadding = f.padding
	}
	if fl.Changed("seed") {
		p.Seed = f.seed
	}
	if fl.Changed("coloring") {
		p.Coloring = glyphfield.Coloring(f.coloring)
	}
	if fl.Changed("angle") {
		p.AngleThreshold = f.angle
	}
	if fl.Changed("overlap") {
		p.Overlap = f.overlap
	}
	return p, p.Validate()
}
