// Package fontsrc acquires raw font bytes from files, HTTP(S) URLs and
// the Go font family bundled with golang.org/x/image.
//
// References passed to Open take one of three forms:
//
//	builtin:goregular         bundled Go font
//	https://example.com/a.ttf fetched with GET
//	fonts/Inter.ttf           local file
package fontsrc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
)

// BuiltinPrefix marks a reference to a bundled Go font.
const BuiltinPrefix = "builtin:"

// MaxFetchSize limits the body size accepted by Fetch.
const MaxFetchSize = 32 << 20

var (
	// ErrUnknownBuiltin is returned for a builtin name that is not bundled.
	ErrUnknownBuiltin = errors.New("fontsrc: unknown builtin font")

	// ErrTooLarge is returned when a fetched body exceeds MaxFetchSize.
	ErrTooLarge = errors.New("fontsrc: font data too large")
)

// StatusError is returned by Fetch for a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fontsrc: GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

var builtins = map[string][]byte{
	"gobold":            gobold.TTF,
	"gobolditalic":      gobolditalic.TTF,
	"goitalic":          goitalic.TTF,
	"gomedium":          gomedium.TTF,
	"gomediumitalic":    gomediumitalic.TTF,
	"gomono":            gomono.TTF,
	"gomonobold":        gomonobold.TTF,
	"gomonobolditalic":  gomonobolditalic.TTF,
	"gomonoitalic":      gomonoitalic.TTF,
	"goregular":         goregular.TTF,
	"gosmallcaps":       gosmallcaps.TTF,
	"gosmallcapsitalic": gosmallcapsitalic.TTF,
}

// Open returns the font bytes for ref.
func Open(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, BuiltinPrefix):
		return Builtin(strings.TrimPrefix(ref, BuiltinPrefix))
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return Fetch(ctx, http.DefaultClient, ref)
	default:
		return File(ref)
	}
}

// File reads a font from the local filesystem.
func File(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontsrc: %w", err)
	}
	return data, nil
}

// Fetch downloads a font with a GET request. A nil client uses
// http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fontsrc: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fontsrc: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("fontsrc: read %s: %w", url, err)
	}
	if len(data) > MaxFetchSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Builtin returns a bundled Go font by name, such as "goregular".
func Builtin(name string) ([]byte, error) {
	data, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}
	return data, nil
}

// BuiltinNames returns the names of the bundled fonts in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
