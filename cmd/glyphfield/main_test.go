package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/glyphfield"
	"github.com/gogpu/glyphfield/fieldfile"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { glyphfield.SetLogger(nil) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glyphfield.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCharset(t *testing.T) {
	got := charset([]string{"abca", "é", "é"})
	want := []rune{'a', 'b', 'c', 'é'}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("charset() mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratePNG(t *testing.T) {
	out := t.TempDir()
	cfg := writeConfig(t, "font: builtin:goregular\n")
	if _, err := run(t, "generate", "AB", "--config", cfg, "--out", out, "--scale", "8", "--workers", "2"); err != nil {
		t.Fatalf("generate = %v", err)
	}
	for _, name := range []string{"U+0041.png", "U+0042.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestGenerateCBORWithOverrides(t *testing.T) {
	out := t.TempDir()
	cfg := writeConfig(t, `
font: builtin:gomono
presets:
  small:
    mode: sdf
    px_scale: 10
`)
	_, err := run(t, "generate", "x\U0001F600", "--config", cfg, "--out", out,
		"--preset", "small", "--padding", "1", "--format", "cbor")
	if err != nil {
		t.Fatalf("generate = %v", err)
	}

	f, err := os.Open(filepath.Join(out, "U+0078.cbor"))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rec, err := fieldfile.DecodeCBOR(f)
	if err != nil {
		t.Fatalf("DecodeCBOR() = %v", err)
	}
	if rec.Mode != "sdf" || rec.PxScale != 10 || rec.PxPadding != 1 || rec.Channels != 1 {
		t.Errorf("record = mode %s scale %v padding %v channels %d, want sdf 10 1 1",
			rec.Mode, rec.PxScale, rec.PxPadding, rec.Channels)
	}

	// The emoji is missing from the font and skipped.
	if _, err := os.Stat(filepath.Join(out, "U+1F600.cbor")); !os.IsNotExist(err) {
		t.Errorf("missing glyph produced a file: %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no chars", []string{"generate"}},
		{"bad mode", []string{"generate", "A", "--mode", "hdr"}},
		{"bad scale", []string{"generate", "A", "--scale", "0"}},
		{"bad format", []string{"generate", "A", "--format", "tiff"}},
		{"unknown preset", []string{"generate", "A", "--preset", "nope"}},
		{"unknown font", []string{"generate", "A", "--font", "builtin:nope"}},
		{"unknown backend", []string{"generate", "A", "--backend", "quantum"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--config", filepath.Join(t.TempDir(), "none.yml"), "--out", t.TempDir())
			if _, err := run(t, args...); err == nil {
				t.Error("Execute() = nil, want error")
			}
		})
	}
}

func TestAtlas(t *testing.T) {
	out := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "none.yml")
	if _, err := run(t, "atlas", "abc", "--config", cfg, "--out", out, "--scale", "12", "--size", "128"); err != nil {
		t.Fatalf("atlas = %v", err)
	}
	for _, name := range []string{"atlas.png", "atlas.cbor", "atlas.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "atlas.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta struct {
		Width    int `json:"width"`
		Channels int `json:"channels"`
		Regions  []struct {
			Char rune `json:"char"`
		} `json:"regions"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("json.Unmarshal() = %v", err)
	}
	if meta.Width != 128 || meta.Channels != 3 || len(meta.Regions) != 3 {
		t.Errorf("atlas.json = %+v, want 128 wide, 3 channels, 3 regions", meta)
	}
}

func TestAtlasTooSmall(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "none.yml")
	if _, err := run(t, "atlas", "W", "--config", cfg, "--out", t.TempDir(), "--size", "4"); err == nil {
		t.Error("atlas into a 4x4 atlas = nil, want error")
	}
}

func TestPresets(t *testing.T) {
	cfg := writeConfig(t, `
presets:
  big:
    px_scale: 64
  alpha:
    mode: mtsdf
`)
	out, err := run(t, "presets", "--config", cfg)
	if err != nil {
		t.Fatalf("presets = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("presets output has %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "alpha") || !strings.Contains(lines[1], "mtsdf") {
		t.Errorf("line 1 = %q, want alpha mtsdf", lines[1])
	}
	if !strings.HasPrefix(lines[2], "big") || !strings.Contains(lines[2], "64") {
		t.Errorf("line 2 = %q, want big 64", lines[2])
	}
}
