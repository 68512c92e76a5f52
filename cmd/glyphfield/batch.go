package main

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/glyphfield"
	"github.com/gogpu/glyphfield/fontsrc"
)

// defaultCharset is used when no characters are given: printable ASCII.
const defaultCharset = "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// charset returns the distinct characters of args after NFC
// normalization, in first-seen order.
func charset(args []string) []rune {
	var out []rune
	for _, arg := range args {
		for _, r := range norm.NFC.String(arg) {
			if !slices.Contains(out, r) {
				out = append(out, r)
			}
		}
	}
	return out
}

// loadFont resolves the --font flag, falling back to the config.
func (a *app) loadFont(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		ref = a.cfg.Font
	}
	data, err := fontsrc.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("font resolved", "ref", ref, "bytes", len(data))
	return data, nil
}

// generateAll renders chars with one session per worker. The returned
// slice is indexed like chars; missing glyphs are nil.
func (a *app) generateAll(ctx context.Context, fontData []byte, chars []rune, p glyphfield.Params, workers int) ([]*glyphfield.Result, error) {
	workers = max(1, min(workers, len(chars)))
	results := make([]*glyphfield.Result, len(chars))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			s, err := a.newSession(fontData)
			if err != nil {
				return err
			}
			defer s.Dispose()

			for i := w; i < len(chars); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := s.Generate(chars[i], p)
				if err != nil {
					return fmt.Errorf("%U: %w", chars[i], err)
				}
				if res == nil {
					a.logger.Warn("glyph not found, skipped", "char", string(chars[i]), "code", fmt.Sprintf("%U", chars[i]))
					continue
				}
				results[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
